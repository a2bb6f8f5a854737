package postgres

import (
	"context"
	"database/sql"

	"github.com/pathwise-labs/pathwise-core/internal/core/domain"
	"github.com/pathwise-labs/pathwise-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UserStore = (*UserStore)(nil)

// UserStore implements driven.UserStore using PostgreSQL
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, name, role, subscription_tier, location, industry, experience_level, active, created_at, updated_at, last_login_at`

// Save creates or updates a user
func (s *UserStore) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			subscription_tier = EXCLUDED.subscription_tier,
			location = EXCLUDED.location,
			industry = EXCLUDED.industry,
			experience_level = EXCLUDED.experience_level,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at,
			last_login_at = EXCLUDED.last_login_at
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		string(user.Role),
		string(user.Tier()),
		NullString(user.Location),
		NullString(user.Industry),
		NullString(user.ExperienceLevel),
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
		NullTime(user.LastLoginAt),
	)
	return err
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var user domain.User
	var location, industry, experience sql.NullString
	var lastLoginAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.SubscriptionTier,
		&location,
		&industry,
		&experience,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLoginAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.Location = StringPtr(location)
	user.Industry = StringPtr(industry)
	user.ExperienceLevel = StringPtr(experience)
	user.LastLoginAt = TimePtr(lastLoginAt)
	return &user, nil
}

// Get retrieves a user by ID
func (s *UserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// List retrieves all users
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Delete deletes a user and their interests
func (s *UserStore) Delete(ctx context.Context, id string) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_interests WHERE user_id = $1`, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// UpdateLastLogin updates the last login timestamp
func (s *UserStore) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login_at = NOW() WHERE id = $1`
	_, err := s.db.ExecContext(ctx, query, id)
	return err
}

// UpdateSubscription sets the user's subscription tier
func (s *UserStore) UpdateSubscription(ctx context.Context, id string, tier domain.SubscriptionTier) error {
	query := `UPDATE users SET subscription_tier = $2, updated_at = NOW() WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, string(tier))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListInterests returns the user's interests, highest priority first
func (s *UserStore) ListInterests(ctx context.Context, userID string, limit int) ([]*domain.Interest, error) {
	query := `
		SELECT id, user_id, interest, priority, created_at
		FROM user_interests
		WHERE user_id = $1
		ORDER BY priority DESC, created_at
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interests []*domain.Interest
	for rows.Next() {
		var interest domain.Interest
		if err := rows.Scan(
			&interest.ID,
			&interest.UserID,
			&interest.Interest,
			&interest.Priority,
			&interest.CreatedAt,
		); err != nil {
			return nil, err
		}
		interests = append(interests, &interest)
	}
	return interests, rows.Err()
}

// AddInterest stores a ranked interest for the user
func (s *UserStore) AddInterest(ctx context.Context, interest *domain.Interest) error {
	query := `
		INSERT INTO user_interests (id, user_id, interest, priority, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		interest.ID,
		interest.UserID,
		interest.Interest,
		interest.Priority,
		interest.CreatedAt,
	)
	return err
}

// DeleteInterest removes one interest by ID
func (s *UserStore) DeleteInterest(ctx context.Context, userID, interestID string) error {
	query := `DELETE FROM user_interests WHERE id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, interestID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
