package profile

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore implements Store over the profiles and interaction_history
// tables. See migrations/000002_create_profiles.up.sql for the schema.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres-backed profile store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetProfile retrieves the profile snapshot for an account.
func (s *PostgresStore) GetProfile(ctx context.Context, accountID string) (*Profile, error) {
	query := `SELECT account_id, interest_categories, favorite_hashtags,
		following_ids, price_min, price_max, activity_level
		FROM profiles WHERE account_id = $1`

	var p Profile
	var interests, hashtags, following pq.StringArray
	var priceMin, priceMax sql.NullFloat64
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&p.AccountID, &interests, &hashtags, &following,
		&priceMin, &priceMax, &p.ActivityLevel)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.InterestCategories = []string(interests)
	p.FavoriteHashtags = []string(hashtags)
	p.FollowingIDs = []string(following)
	if priceMin.Valid && priceMax.Valid {
		p.PriceRange = &PriceRange{Min: priceMin.Float64, Max: priceMax.Float64}
	}
	return &p, nil
}

// PutProfile inserts or replaces a profile.
func (s *PostgresStore) PutProfile(ctx context.Context, p *Profile) error {
	if p.AccountID == "" {
		return ErrEmptyAccountID
	}

	var priceMin, priceMax sql.NullFloat64
	if p.PriceRange != nil {
		priceMin = sql.NullFloat64{Float64: p.PriceRange.Min, Valid: true}
		priceMax = sql.NullFloat64{Float64: p.PriceRange.Max, Valid: true}
	}

	query := `
		INSERT INTO profiles (account_id, interest_categories, favorite_hashtags,
			following_ids, price_min, price_max, activity_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id) DO UPDATE SET
			interest_categories = EXCLUDED.interest_categories,
			favorite_hashtags = EXCLUDED.favorite_hashtags,
			following_ids = EXCLUDED.following_ids,
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			activity_level = EXCLUDED.activity_level`

	_, err := s.db.ExecContext(ctx, query,
		p.AccountID, pq.Array(p.InterestCategories), pq.Array(p.FavoriteHashtags),
		pq.Array(p.FollowingIDs), priceMin, priceMax, p.ActivityLevel)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// Follow adds target to the account's following set. Idempotent.
func (s *PostgresStore) Follow(ctx context.Context, accountID, target string) error {
	query := `UPDATE profiles
		SET following_ids = array_append(following_ids, $2)
		WHERE account_id = $1 AND NOT ($2 = ANY(following_ids))`

	res, err := s.db.ExecContext(ctx, query, accountID, target)
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		// Either the profile is missing or the edge already exists.
		// Distinguish so idempotent re-follows succeed.
		return s.ensureProfileExists(ctx, accountID)
	}
	return nil
}

// Unfollow removes target from the account's following set.
func (s *PostgresStore) Unfollow(ctx context.Context, accountID, target string) error {
	query := `UPDATE profiles
		SET following_ids = array_remove(following_ids, $2)
		WHERE account_id = $1`

	res, err := s.db.ExecContext(ctx, query, accountID, target)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// GetHistory returns up to limit recent interaction entries, newest first.
func (s *PostgresStore) GetHistory(ctx context.Context, accountID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `SELECT item_id, weight FROM interaction_history
		WHERE account_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ItemID, &e.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

// AppendHistory records an interaction and evicts entries beyond the
// retention limit.
func (s *PostgresStore) AppendHistory(ctx context.Context, accountID string, entry HistoryEntry) error {
	if accountID == "" {
		return ErrEmptyAccountID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO interaction_history (account_id, item_id, weight) VALUES ($1, $2, $3)`,
		accountID, entry.ItemID, entry.Weight)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM interaction_history
		WHERE account_id = $1 AND id NOT IN (
			SELECT id FROM interaction_history
			WHERE account_id = $1
			ORDER BY recorded_at DESC, id DESC
			LIMIT $2
		)`, accountID, DefaultHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

func (s *PostgresStore) ensureProfileExists(ctx context.Context, accountID string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE account_id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check profile: %w", err)
	}
	if !exists {
		return ErrProfileNotFound
	}
	return nil
}
