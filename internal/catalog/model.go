// Package catalog provides models and repositories for rankable content:
// shopping posts, products, and live rooms.
package catalog

import (
	"errors"
	"time"
)

// Common errors for catalog operations.
var (
	ErrItemNotFound = errors.New("item not found")
	ErrUnknownKind  = errors.New("unknown item kind")
)

// Kind identifies the concrete variant of an Item.
type Kind string

// Valid item kinds.
const (
	KindPost    Kind = "post"
	KindProduct Kind = "product"
	KindRoom    Kind = "room"
)

// Valid reports whether k is one of the known item kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPost, KindProduct, KindRoom:
		return true
	}
	return false
}

// PostStats holds engagement counters for a shopping post.
type PostStats struct {
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	RepostCount  int64 `json:"repost_count"`
}

// ProductStats holds pricing and engagement data for a product listing.
// SalePrice is optional; when set it is informational for ranking only and
// is not validated against Price here.
type ProductStats struct {
	Price      float64  `json:"price"`
	SalePrice  *float64 `json:"sale_price,omitempty"`
	ClickCount int64    `json:"click_count"`
}

// RoomStats holds membership and activity counters for a live room.
type RoomStats struct {
	MemberCount int64 `json:"member_count"`
	PostCount   int64 `json:"post_count"`
}

// Item is a rankable candidate: a post, product, or live room.
// Kind selects which payload pointer is populated; exactly one of Post,
// Product, or Room is non-nil for a well-formed item. Items with a
// mismatched or absent payload are still accepted by the scorer, which
// degrades their kind-specific signals to zero rather than erroring.
type Item struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Category  string    `json:"category,omitempty"`
	Hashtags  []string  `json:"hashtags,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Post    *PostStats    `json:"post,omitempty"`
	Product *ProductStats `json:"product,omitempty"`
	Room    *RoomStats    `json:"room,omitempty"`
}

// EffectivePrice resolves the price used for ranking: the sale price when
// present and lower than the list price, otherwise the list price.
// Returns false if the item carries no product payload.
func (it *Item) EffectivePrice() (float64, bool) {
	if it.Product == nil {
		return 0, false
	}
	price := it.Product.Price
	if it.Product.SalePrice != nil && *it.Product.SalePrice < price {
		price = *it.Product.SalePrice
	}
	return price, true
}

// EngagementDelta is a counter adjustment applied by the ingest worker.
// Field names mirror the event verbs emitted by mobile clients.
type EngagementDelta struct {
	Likes    int64
	Comments int64
	Reposts  int64
	Clicks   int64
	Members  int64
	Posts    int64
}

// Zero reports whether the delta would leave all counters unchanged.
func (d EngagementDelta) Zero() bool {
	return d.Likes == 0 && d.Comments == 0 && d.Reposts == 0 &&
		d.Clicks == 0 && d.Members == 0 && d.Posts == 0
}
