package extract

import (
	"encoding/json"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

const (
	// EventLogPrefix marks a log line carrying a JSON event envelope.
	EventLogPrefix = "EVENT_JSON:"

	// StandardNEP141 is the fungible token standard name.
	StandardNEP141 = "nep141"
)

// supportedVersions accepts any 1.0.x envelope.
var supportedVersions = mustConstraint("~1.0.0")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// envelope is the self-describing event payload. Data stays raw until the
// header has been validated against the expected kind.
type envelope struct {
	Standard string          `json:"standard"`
	Version  string          `json:"version"`
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data"`
}

// decodeEnvelope parses the envelope of kind from log and validates its
// header. It returns nil when the line is not that kind of event.
func decodeEnvelope(log string, kind domain.EventKind) *envelope {
	// Cheap pre-filter: almost no log line mentions the standard.
	if !strings.Contains(log, StandardNEP141) {
		return nil
	}
	payload, ok := strings.CutPrefix(log, EventLogPrefix)
	if !ok {
		return nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil
	}
	if env.Standard != StandardNEP141 || env.Event != string(kind) {
		return nil
	}
	v, err := semver.NewVersion(env.Version)
	if err != nil || !supportedVersions.Check(v) {
		return nil
	}
	return &env
}

// decodeData unmarshals the envelope data array into entries. Any entry
// that fails to decode or validate discards the whole envelope.
func decodeData[T any](env *envelope, valid func(T) bool) []T {
	var entries []T
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		return nil
	}
	for _, e := range entries {
		if !valid(e) {
			return nil
		}
	}
	return entries
}

type mintData struct {
	OwnerID *domain.AccountID `json:"owner_id"`
	Amount  *domain.Amount    `json:"amount"`
	Memo    *string           `json:"memo"`
}

type transferData struct {
	OldOwnerID *domain.AccountID `json:"old_owner_id"`
	NewOwnerID *domain.AccountID `json:"new_owner_id"`
	Amount     *domain.Amount    `json:"amount"`
	Memo       *string           `json:"memo"`
}

type burnData struct {
	OwnerID *domain.AccountID `json:"owner_id"`
	Amount  *domain.Amount    `json:"amount"`
	Memo    *string           `json:"memo"`
}

// DecodeMint returns one MintEvent per entry of an ft_mint envelope.
func DecodeMint(log string) []domain.Event {
	env := decodeEnvelope(log, domain.EventKindMint)
	if env == nil {
		return nil
	}
	entries := decodeData(env, func(d mintData) bool {
		return d.OwnerID != nil && d.Amount != nil
	})

	var events []domain.Event
	for _, d := range entries {
		events = append(events, domain.MintEvent{OwnerID: *d.OwnerID, Amount: *d.Amount, Memo: d.Memo})
	}
	return events
}

// DecodeTransfer returns one TransferEvent per entry of an ft_transfer envelope.
func DecodeTransfer(log string) []domain.Event {
	env := decodeEnvelope(log, domain.EventKindTransfer)
	if env == nil {
		return nil
	}
	entries := decodeData(env, func(d transferData) bool {
		return d.OldOwnerID != nil && d.NewOwnerID != nil && d.Amount != nil
	})

	var events []domain.Event
	for _, d := range entries {
		events = append(events, domain.TransferEvent{
			OldOwnerID: *d.OldOwnerID,
			NewOwnerID: *d.NewOwnerID,
			Amount:     *d.Amount,
			Memo:       d.Memo,
		})
	}
	return events
}

// DecodeBurn returns one BurnEvent per entry of an ft_burn envelope.
func DecodeBurn(log string) []domain.Event {
	env := decodeEnvelope(log, domain.EventKindBurn)
	if env == nil {
		return nil
	}
	entries := decodeData(env, func(d burnData) bool {
		return d.OwnerID != nil && d.Amount != nil
	})

	var events []domain.Event
	for _, d := range entries {
		events = append(events, domain.BurnEvent{OwnerID: *d.OwnerID, Amount: *d.Amount, Memo: d.Memo})
	}
	return events
}
