package catalog

import (
	"testing"
	"time"
)

// TestKindValid tests kind validation.
func TestKindValid(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		valid bool
	}{
		{name: "post", kind: KindPost, valid: true},
		{name: "product", kind: KindProduct, valid: true},
		{name: "room", kind: KindRoom, valid: true},
		{name: "empty", kind: Kind(""), valid: false},
		{name: "unknown", kind: Kind("story"), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

// TestEffectivePrice tests sale-price resolution for products.
func TestEffectivePrice(t *testing.T) {
	sale := 59.0
	higherSale := 120.0

	tests := []struct {
		name    string
		item    Item
		want    float64
		present bool
	}{
		{
			name:    "list price only",
			item:    Item{Kind: KindProduct, Product: &ProductStats{Price: 100}},
			want:    100,
			present: true,
		},
		{
			name:    "sale price lower than list",
			item:    Item{Kind: KindProduct, Product: &ProductStats{Price: 100, SalePrice: &sale}},
			want:    59,
			present: true,
		},
		{
			name:    "sale price higher than list is ignored",
			item:    Item{Kind: KindProduct, Product: &ProductStats{Price: 100, SalePrice: &higherSale}},
			want:    100,
			present: true,
		},
		{
			name:    "non-product has no price",
			item:    Item{Kind: KindPost, Post: &PostStats{LikeCount: 5}},
			present: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.item.EffectivePrice()
			if ok != tt.present {
				t.Fatalf("EffectivePrice() present = %v, want %v", ok, tt.present)
			}
			if ok && got != tt.want {
				t.Errorf("EffectivePrice() = %f, want %f", got, tt.want)
			}
		})
	}
}

// TestEngagementDeltaZero tests the zero-delta check.
func TestEngagementDeltaZero(t *testing.T) {
	if !(EngagementDelta{}).Zero() {
		t.Error("empty delta should be zero")
	}
	if (EngagementDelta{Likes: 1}).Zero() {
		t.Error("non-empty delta should not be zero")
	}
	if (EngagementDelta{Posts: -1}).Zero() {
		t.Error("negative delta should not be zero")
	}
}

// newTestItem builds a post item for repository tests.
func newTestItem(id, owner string, age time.Duration) *Item {
	return &Item{
		ID:        id,
		Kind:      KindPost,
		OwnerID:   owner,
		Category:  "fashion",
		CreatedAt: time.Now().Add(-age),
		Post:      &PostStats{},
	}
}
