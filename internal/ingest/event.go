package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/louper-app/louper/internal/catalog"
)

// Engagement event decoding errors.
var (
	ErrInvalidCBOR   = errors.New("invalid CBOR data")
	ErrMissingItemID = errors.New("missing item ID in event")
	ErrUnknownVerb   = errors.New("unknown engagement verb")
)

// Engagement verbs carried by stream events.
const (
	VerbLike    = "like"
	VerbComment = "comment"
	VerbRepost  = "repost"
	VerbClick   = "click"
	VerbJoin    = "join"
	VerbPost    = "post"
)

// Event is a single engagement event from the Louper event stream.
// Events describe one interaction with one catalog item.
type Event struct {
	// ItemID identifies the catalog item the interaction targets.
	ItemID string `cbor:"item_id"`

	// AccountID is the account that performed the interaction.
	AccountID string `cbor:"account_id"`

	// Verb is the interaction type ("like", "comment", "repost",
	// "click", "join", "post").
	Verb string `cbor:"verb"`

	// Count is the number of interactions this event represents.
	// Zero is treated as one. Negative counts are retractions
	// (an unlike, a leave) and are passed through as-is.
	Count int64 `cbor:"count,omitempty"`

	// TimeUS is the event timestamp in microseconds.
	TimeUS int64 `cbor:"time_us"`
}

// DecodeEvent decodes a CBOR-encoded engagement event.
// Returns the parsed event or an error if decoding fails.
func DecodeEvent(data []byte) (*Event, error) {
	if len(data) == 0 {
		return nil, ErrInvalidCBOR
	}

	var ev Event
	dec := cbor.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCBOR, err)
	}

	if ev.ItemID == "" {
		return nil, ErrMissingItemID
	}

	return &ev, nil
}

// Delta converts the event into a catalog engagement delta.
// Returns ErrUnknownVerb for verbs the catalog does not track.
func (ev *Event) Delta() (catalog.EngagementDelta, error) {
	count := ev.Count
	if count == 0 {
		count = 1
	}

	var delta catalog.EngagementDelta
	switch ev.Verb {
	case VerbLike:
		delta.Likes = count
	case VerbComment:
		delta.Comments = count
	case VerbRepost:
		delta.Reposts = count
	case VerbClick:
		delta.Clicks = count
	case VerbJoin:
		delta.Members = count
	case VerbPost:
		delta.Posts = count
	default:
		return catalog.EngagementDelta{}, fmt.Errorf("%w: %q", ErrUnknownVerb, ev.Verb)
	}

	return delta, nil
}

// EncodeEvent encodes an engagement event to CBOR. Used by tests and
// by tooling that replays events into the stream.
func EncodeEvent(ev *Event) ([]byte, error) {
	return cbor.Marshal(ev)
}
