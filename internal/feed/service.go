package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/louper-app/louper/internal/catalog"
	"github.com/louper-app/louper/internal/profile"
	"github.com/louper-app/louper/internal/recommend"
	"github.com/louper-app/louper/internal/tracing"
)

// DefaultCandidateLimit is how many recent items per kind are pulled
// from the catalog as scoring candidates.
const DefaultCandidateLimit = 200

// Entry is one ranked item in a feed page.
type Entry struct {
	ItemID string       `json:"item_id" cbor:"item_id"`
	Kind   catalog.Kind `json:"kind" cbor:"kind"`
	Score  float64      `json:"score" cbor:"score"`
	// Source is "following" for timeline entries and "recommended"
	// for scored discovery entries. Pure recommendation pages use
	// "recommended" throughout.
	Source string `json:"source" cbor:"source"`
}

// Page is an assembled feed for one account.
type Page struct {
	AccountID   string    `json:"account_id" cbor:"account_id"`
	Entries     []Entry   `json:"entries" cbor:"entries"`
	GeneratedAt time.Time `json:"generated_at" cbor:"generated_at"`
	CacheHit    bool      `json:"cache_hit" cbor:"-"`
}

// Options control a single feed request.
type Options struct {
	// Limit is the maximum number of entries. Non-positive values use
	// the recommender's default.
	Limit int

	// Categories restricts recommendation candidates to the given
	// categories. Empty means no restriction.
	Categories []string

	// Shuffle enables within-bucket shuffling of the ranked list.
	Shuffle bool
}

// Service assembles feeds from the catalog, profile store and recommender.
type Service struct {
	catalog     catalog.Repository
	profiles    profile.Store
	recommender *recommend.Recommender
	cache       *Cache
	metrics     *Metrics
	logger      *slog.Logger

	candidateLimit int
	mixRatio       recommend.MixRatio
	now            func() time.Time
}

// NewService creates a feed service. The cache is optional; pass nil to
// score every request.
func NewService(repo catalog.Repository, profiles profile.Store, rec *recommend.Recommender, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:        repo,
		profiles:       profiles,
		recommender:    rec,
		cache:          cache,
		logger:         logger,
		candidateLimit: DefaultCandidateLimit,
		mixRatio:       recommend.DefaultMixRatio,
		now:            time.Now,
	}
}

// SetMetrics attaches Prometheus metrics to the service. Optional.
func (s *Service) SetMetrics(m *Metrics) {
	s.metrics = m
}

// setClock overrides the time source. Test hook.
func (s *Service) setClock(now func() time.Time) {
	s.now = now
}

// Recommendations returns the ranked discovery page for an account.
// Unknown accounts get a cold-start page scored without a profile.
func (s *Service) Recommendations(ctx context.Context, accountID string, opts Options) (_ *Page, err error) {
	if accountID == "" {
		return nil, profile.ErrEmptyAccountID
	}

	ctx, endSpan := tracing.StartSpan(ctx, "score_recommendations")
	defer func() { endSpan(err) }()

	if s.cache != nil && !opts.Shuffle && len(opts.Categories) == 0 {
		if page, err := s.cache.Get(ctx, accountID, opts.Limit); err == nil {
			page.CacheHit = true
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			return page, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("feed cache read failed",
				slog.String("account_id", accountID),
				slog.String("error", err.Error()))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	p, history, err := s.loadProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	candidates = recommend.DeduplicateItems(candidates)
	candidates = recommend.FilterByCategory(candidates, opts.Categories)

	scored := s.recommender.TopRecommendations(candidates, p, history, opts.Limit, opts.Shuffle)

	page := &Page{
		AccountID:   accountID,
		Entries:     make([]Entry, 0, len(scored)),
		GeneratedAt: s.now().UTC(),
	}
	for _, sc := range scored {
		page.Entries = append(page.Entries, Entry{
			ItemID: sc.Item.ID,
			Kind:   sc.Item.Kind,
			Score:  sc.Score,
			Source: "recommended",
		})
	}

	if s.cache != nil && !opts.Shuffle && len(opts.Categories) == 0 {
		if err := s.cache.Set(ctx, accountID, opts.Limit, page); err != nil {
			s.logger.Warn("feed cache write failed",
				slog.String("account_id", accountID),
				slog.String("error", err.Error()))
		}
	}

	if s.metrics != nil {
		s.metrics.RecordPage("recommendations", len(page.Entries))
	}
	return page, nil
}

// Feed returns the account's home feed: the following timeline
// interleaved with scored recommendations at a 2:1 ratio.
func (s *Service) Feed(ctx context.Context, accountID string, opts Options) (_ *Page, err error) {
	if accountID == "" {
		return nil, profile.ErrEmptyAccountID
	}

	ctx, endSpan := tracing.StartSpan(ctx, "assemble_feed")
	defer func() { endSpan(err) }()

	p, history, err := s.loadProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = recommend.DefaultLimit
	}

	var following []*catalog.Item
	if p != nil && len(p.FollowingIDs) > 0 {
		following, err = s.catalog.ListByOwners(ctx, p.FollowingIDs, limit)
		if err != nil {
			return nil, fmt.Errorf("loading following timeline: %w", err)
		}
	}

	candidates, err := s.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	candidates = recommend.DeduplicateItems(candidates)
	candidates = recommend.FilterByCategory(candidates, opts.Categories)

	scored := s.recommender.TopRecommendations(candidates, p, history, limit, opts.Shuffle)

	recommended := make([]*catalog.Item, 0, len(scored))
	scoreByID := make(map[string]float64, len(scored))
	for _, sc := range scored {
		recommended = append(recommended, sc.Item)
		scoreByID[sc.Item.ID] = sc.Score
	}

	followingSet := make(map[string]bool, len(following))
	for _, it := range following {
		followingSet[it.ID] = true
	}

	mixed := recommend.MixRecommendations(following, recommended, s.mixRatio)

	page := &Page{
		AccountID:   accountID,
		Entries:     make([]Entry, 0, min(len(mixed), limit)),
		GeneratedAt: s.now().UTC(),
	}
	seen := make(map[string]bool, limit)
	for _, it := range mixed {
		if len(page.Entries) >= limit {
			break
		}
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true

		entry := Entry{ItemID: it.ID, Kind: it.Kind, Score: scoreByID[it.ID]}
		if followingSet[it.ID] {
			entry.Source = "following"
		} else {
			entry.Source = "recommended"
		}
		page.Entries = append(page.Entries, entry)
	}

	if s.metrics != nil {
		s.metrics.RecordPage("feed", len(page.Entries))
	}
	return page, nil
}

// loadProfile fetches the profile and interaction history for scoring.
// A missing profile is a cold start, not an error: scoring proceeds
// with an empty profile so popularity and freshness still rank.
func (s *Service) loadProfile(ctx context.Context, accountID string) (*profile.Profile, []profile.HistoryEntry, error) {
	p, err := s.profiles.GetProfile(ctx, accountID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		if s.metrics != nil {
			s.metrics.RecordColdStart()
		}
		return &profile.Profile{AccountID: accountID}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading profile: %w", err)
	}

	history, err := s.profiles.GetHistory(ctx, accountID, profile.DefaultHistoryLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("loading history: %w", err)
	}
	return p, history, nil
}

// loadCandidates pulls recent items of every kind from the catalog.
func (s *Service) loadCandidates(ctx context.Context) ([]*catalog.Item, error) {
	kinds := []catalog.Kind{catalog.KindPost, catalog.KindProduct, catalog.KindRoom}
	candidates := make([]*catalog.Item, 0, s.candidateLimit*len(kinds))
	for _, kind := range kinds {
		items, err := s.catalog.ListRecent(ctx, kind, s.candidateLimit)
		if err != nil {
			return nil, fmt.Errorf("listing %s candidates: %w", kind, err)
		}
		candidates = append(candidates, items...)
	}
	return candidates, nil
}
