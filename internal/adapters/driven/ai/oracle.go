package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
)

// Ensure Oracle implements QueryOracle
var _ driven.QueryOracle = (*Oracle)(nil)

const defaultModel = "gpt-4.1-mini"

const systemPromptTemplate = `You are an expert career and business counselor. Your task is to understand the user's career question and provide relevant guidance along with specific resource recommendations.

Available Resource Types:
- Job Search Websites (Indeed, LinkedIn, etc.)
- Trade Organizations & Apprenticeship Programs
- SBA & Business Development Resources
- Learning Platforms & Certification Programs
- Industry-Specific Career Resources

User Context: %s

Based on the user's question, provide:
1. A brief, helpful response to their question (2-3 sentences)
2. A list of specific resource types that would be most relevant
3. Search keywords that should be used to find matching resources in the database

Respond in this JSON format:
{
  "guidance": "Brief helpful response to the user's question",
  "relevantResourceTypes": ["Job Search Website", "Learning Platform", etc.],
  "searchKeywords": ["keyword1", "keyword2", "keyword3"],
  "industryFilter": "specific industry if mentioned, otherwise null",
  "locationRelevant": true/false
}

Respond with raw JSON only. Do not include code blocks, markdown, or any other formatting.`

// Config holds the settings for an OpenAI-compatible chat endpoint.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Logger  *slog.Logger
}

// Oracle implements QueryOracle against any OpenAI-compatible chat API.
// It asks the model for a single JSON object per query and never streams.
type Oracle struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

// NewOracle creates a query oracle backed by an OpenAI-compatible service.
func NewOracle(cfg Config) (*Oracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("oracle: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("oracle: creating client: %w", err)
	}

	return &Oracle{
		client: client,
		model:  cfg.Model,
		logger: cfg.Logger.With("component", "oracle"),
	}, nil
}

// Understand asks the model to turn a free-text question into a search
// directive. Unparseable output is an error; the caller decides how to
// degrade.
func (o *Oracle) Understand(ctx context.Context, query string, viewer *domain.ViewerContext) (*domain.SearchDirective, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt(viewer))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf("User question: %q", query))},
		},
	}

	response, err := o.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(1000),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("oracle: generating directive: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("oracle: model returned no choices")
	}

	directive, err := parseDirective(response.Choices[0].Content)
	if err != nil {
		o.logger.Warn("unparseable oracle response", "err", err)
		return nil, err
	}

	o.logger.Debug("query understood",
		"keywords", len(directive.SearchKeywords),
		"types", len(directive.RelevantResourceTypes))
	return directive, nil
}

// Model returns the configured model name.
func (o *Oracle) Model() string {
	return o.model
}

// Ping verifies the endpoint is reachable with a minimal completion.
func (o *Oracle) Ping(ctx context.Context) error {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart("ping")},
		},
	}
	_, err := o.client.GenerateContent(ctx, content, llms.WithMaxTokens(1))
	if err != nil {
		return fmt.Errorf("oracle: ping: %w", err)
	}
	return nil
}

// Close releases resources held by the oracle. The underlying client holds
// no persistent connections, so this is a no-op.
func (o *Oracle) Close() error {
	return nil
}

// buildSystemPrompt renders the counselor prompt with the viewer's profile
// context, or with an empty context block for anonymous viewers.
func buildSystemPrompt(viewer *domain.ViewerContext) string {
	return fmt.Sprintf(systemPromptTemplate, formatViewerContext(viewer))
}

func formatViewerContext(viewer *domain.ViewerContext) string {
	if viewer == nil {
		return ""
	}
	return fmt.Sprintf("User location: %s. User industry: %s. User experience: %s. User interests: %s.",
		orUnspecified(viewer.Location),
		orUnspecified(viewer.Industry),
		orUnspecified(viewer.ExperienceLevel),
		strings.Join(viewer.Interests, ", "))
}

func orUnspecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

// parseDirective decodes the model's JSON output, tolerating markdown code
// fences that some models emit despite instructions.
func parseDirective(raw string) (*domain.SearchDirective, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var directive domain.SearchDirective
	if err := json.Unmarshal([]byte(text), &directive); err != nil {
		return nil, fmt.Errorf("oracle: parsing directive: %w", err)
	}

	// Some models answer the "otherwise null" instruction with the string.
	if strings.EqualFold(directive.IndustryFilter, "null") {
		directive.IndustryFilter = ""
	}
	if len(directive.SearchKeywords) == 0 {
		return nil, fmt.Errorf("oracle: directive has no search keywords")
	}
	return &directive, nil
}
