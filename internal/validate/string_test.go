package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"simple", "fashion", "fashion", nil},
		{"uppercased input normalized", "Fashion", "fashion", nil},
		{"hyphenated slug", "home-decor", "home-decor", nil},
		{"underscore slug", "street_wear", "street_wear", nil},
		{"surrounding whitespace trimmed", "  beauty  ", "beauty", nil},
		{"empty", "", "", ErrEmpty},
		{"whitespace only", "   ", "", ErrEmpty},
		{"spaces inside", "home decor", "", ErrInvalidCharacters},
		{"leading hyphen", "-fashion", "", ErrInvalidCharacters},
		{"too long", strings.Repeat("a", 65), "", ErrStringTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Category(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Category(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Category(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHashtag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"with hash prefix", "#vintage", "vintage", nil},
		{"without hash prefix", "vintage", "vintage", nil},
		{"unicode letters", "#모던", "모던", nil},
		{"digits and underscore", "#y2k_style", "y2k_style", nil},
		{"uppercased input normalized", "#Vintage", "vintage", nil},
		{"bare hash", "#", "", ErrEmpty},
		{"punctuation", "#no!good", "", ErrInvalidCharacters},
		{"too long", "#" + strings.Repeat("a", 65), "", ErrStringTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Hashtag(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Hashtag(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Hashtag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategories_DeduplicatesPreservingOrder(t *testing.T) {
	got, err := Categories([]string{"Fashion", "beauty", "fashion"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "fashion" || got[1] != "beauty" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestCategories_TooMany(t *testing.T) {
	values := make([]string, MaxCategories+1)
	for i := range values {
		values[i] = "fashion"
	}
	if _, err := Categories(values); !errors.Is(err, ErrTooManyValues) {
		t.Fatalf("expected ErrTooManyValues, got %v", err)
	}
}

func TestCategories_EmptyListIsNil(t *testing.T) {
	got, err := Categories(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestHashtags_InvalidValueNamesOffender(t *testing.T) {
	_, err := Hashtags([]string{"#fine", "#bad tag"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "#bad tag") {
		t.Errorf("expected offending value in error, got %v", err)
	}
}
