package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/louper-app/louper/internal/tracing"
)

// PostgresRepository implements Repository over the items table.
// See migrations/000001_create_items.up.sql for the schema.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new Postgres-backed item repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `id, kind, owner_id, category, hashtags, created_at,
	like_count, comment_count, repost_count,
	price, sale_price, click_count,
	member_count, room_post_count`

// Upsert inserts or replaces an item, generating an ID when absent.
func (r *PostgresRepository) Upsert(ctx context.Context, item *Item) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "items", tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	var (
		likes, comments, reposts sql.NullInt64
		price, salePrice         sql.NullFloat64
		clicks                   sql.NullInt64
		members, roomPosts       sql.NullInt64
	)
	switch {
	case item.Post != nil:
		likes = sql.NullInt64{Int64: item.Post.LikeCount, Valid: true}
		comments = sql.NullInt64{Int64: item.Post.CommentCount, Valid: true}
		reposts = sql.NullInt64{Int64: item.Post.RepostCount, Valid: true}
	case item.Product != nil:
		price = sql.NullFloat64{Float64: item.Product.Price, Valid: true}
		if item.Product.SalePrice != nil {
			salePrice = sql.NullFloat64{Float64: *item.Product.SalePrice, Valid: true}
		}
		clicks = sql.NullInt64{Int64: item.Product.ClickCount, Valid: true}
	case item.Room != nil:
		members = sql.NullInt64{Int64: item.Room.MemberCount, Valid: true}
		roomPosts = sql.NullInt64{Int64: item.Room.PostCount, Valid: true}
	}

	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			owner_id = EXCLUDED.owner_id,
			category = EXCLUDED.category,
			hashtags = EXCLUDED.hashtags,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			repost_count = EXCLUDED.repost_count,
			price = EXCLUDED.price,
			sale_price = EXCLUDED.sale_price,
			click_count = EXCLUDED.click_count,
			member_count = EXCLUDED.member_count,
			room_post_count = EXCLUDED.room_post_count`

	if _, err = r.db.ExecContext(ctx, query,
		item.ID, string(item.Kind), item.OwnerID, item.Category,
		pq.Array(item.Hashtags), item.CreatedAt,
		likes, comments, reposts,
		price, salePrice, clicks,
		members, roomPosts); err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by its ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "items", tracing.DBOperationQuery)

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		endSpan(nil)
		return nil, ErrItemNotFound
	}
	endSpan(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListRecent returns up to limit items of the given kind, newest first.
func (r *PostgresRepository) ListRecent(ctx context.Context, kind Kind, limit int) ([]*Item, error) {
	if limit <= 0 {
		return []*Item{}, nil
	}

	ctx, endSpan := tracing.StartDBSpan(ctx, "items", tracing.DBOperationQuery)

	query := `SELECT ` + itemColumns + ` FROM items
		WHERE kind = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, string(kind), limit)
	endSpan(err)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListByOwners returns up to limit items from the given owners, newest first.
func (r *PostgresRepository) ListByOwners(ctx context.Context, owners []string, limit int) ([]*Item, error) {
	if limit <= 0 || len(owners) == 0 {
		return []*Item{}, nil
	}

	ctx, endSpan := tracing.StartDBSpan(ctx, "items", tracing.DBOperationQuery)

	query := `SELECT ` + itemColumns + ` FROM items
		WHERE owner_id = ANY($1)
		ORDER BY created_at DESC, id ASC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(owners), limit)
	endSpan(err)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by owners: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ApplyEngagement adjusts an item's counters by delta, clamping at zero.
func (r *PostgresRepository) ApplyEngagement(ctx context.Context, id string, delta EngagementDelta) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "items", tracing.DBOperationUpdate)
	defer func() { endSpan(err) }()

	query := `UPDATE items SET
		like_count = GREATEST(COALESCE(like_count, 0) + $2, 0),
		comment_count = GREATEST(COALESCE(comment_count, 0) + $3, 0),
		repost_count = GREATEST(COALESCE(repost_count, 0) + $4, 0),
		click_count = GREATEST(COALESCE(click_count, 0) + $5, 0),
		member_count = GREATEST(COALESCE(member_count, 0) + $6, 0),
		room_post_count = GREATEST(COALESCE(room_post_count, 0) + $7, 0)
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id,
		delta.Likes, delta.Comments, delta.Reposts,
		delta.Clicks, delta.Members, delta.Posts)
	if err != nil {
		return fmt.Errorf("failed to apply engagement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanItem.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanItem reads one item row, reconstructing the kind payload from the
// nullable kind-specific columns.
func scanItem(row rowScanner) (*Item, error) {
	var (
		item                     Item
		kind                     string
		hashtags                 pq.StringArray
		likes, comments, reposts sql.NullInt64
		price, salePrice         sql.NullFloat64
		clicks                   sql.NullInt64
		members, roomPosts       sql.NullInt64
	)

	err := row.Scan(&item.ID, &kind, &item.OwnerID, &item.Category,
		&hashtags, &item.CreatedAt,
		&likes, &comments, &reposts,
		&price, &salePrice, &clicks,
		&members, &roomPosts)
	if err != nil {
		return nil, err
	}

	item.Kind = Kind(kind)
	item.Hashtags = []string(hashtags)

	switch item.Kind {
	case KindPost:
		item.Post = &PostStats{
			LikeCount:    likes.Int64,
			CommentCount: comments.Int64,
			RepostCount:  reposts.Int64,
		}
	case KindProduct:
		stats := &ProductStats{
			Price:      price.Float64,
			ClickCount: clicks.Int64,
		}
		if salePrice.Valid {
			sale := salePrice.Float64
			stats.SalePrice = &sale
		}
		item.Product = stats
	case KindRoom:
		item.Room = &RoomStats{
			MemberCount: members.Int64,
			PostCount:   roomPosts.Int64,
		}
	}

	return &item, nil
}

// collectItems drains rows into a slice.
func collectItems(rows *sql.Rows) ([]*Item, error) {
	items := make([]*Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}
