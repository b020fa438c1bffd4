package ingest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/louper-app/louper/internal/catalog"
	"github.com/louper-app/louper/internal/stats"
)

// Handler applies decoded engagement events to the catalog.
// Events for unknown items or with unknown verbs are dropped and
// counted, never fatal: a bad event must not tear down the stream.
type Handler struct {
	repo    catalog.Repository
	stats   *stats.ApplyStats
	metrics *Metrics
	logger  *slog.Logger
}

// NewHandler creates an engagement event handler backed by the given repository.
func NewHandler(repo catalog.Repository, st *stats.ApplyStats, logger *slog.Logger) *Handler {
	if st == nil {
		st = stats.NewApplyStats()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:   repo,
		stats:  st,
		logger: logger,
	}
}

// SetMetrics attaches Prometheus metrics to the handler. Optional.
func (h *Handler) SetMetrics(m *Metrics) {
	h.metrics = m
}

// HandleMessage implements MessageHandler. It decodes the CBOR payload
// and applies the resulting delta to the catalog.
func (h *Handler) HandleMessage(messageType int, payload []byte) error {
	if messageType != websocket.BinaryMessage {
		// Text frames are keepalives on this stream, skip them.
		return nil
	}
	return h.Apply(context.Background(), payload)
}

// Apply decodes one event payload and applies it to the catalog.
// Decode failures and unknown items are logged and counted as drops.
func (h *Handler) Apply(ctx context.Context, payload []byte) error {
	ev, err := DecodeEvent(payload)
	if err != nil {
		h.drop("decode", err)
		return nil
	}

	delta, err := ev.Delta()
	if err != nil {
		h.drop("verb", err)
		return nil
	}

	if err := h.repo.ApplyEngagement(ctx, ev.ItemID, delta); err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			h.drop("unknown_item", err)
			return nil
		}
		// Repository failures (a lost database connection) are fatal so
		// the client reconnects and the stream replays from its cursor.
		h.stats.RecordDropped()
		return err
	}

	h.stats.RecordApplied()
	if h.metrics != nil {
		h.metrics.RecordEventApplied(ev.Verb)
	}
	return nil
}

func (h *Handler) drop(reason string, err error) {
	h.stats.RecordDropped()
	if h.metrics != nil {
		h.metrics.RecordEventDropped(reason)
	}
	h.logger.Warn("dropping engagement event",
		slog.String("reason", reason),
		slog.String("error", err.Error()))
}
