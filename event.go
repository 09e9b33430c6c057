package vault

import (
	"time"

	"github.com/google/uuid"
)

// EventType is a typed string identifying the kind of audit event.
type EventType string

// Event types emitted by the ledger.
const (
	EvtDepositMade     EventType = "deposit-made"
	EvtWithdrawalMade  EventType = "withdrawal-made"
	EvtCapacityUpdated EventType = "capacity-updated"
	EvtFeedUpdated     EventType = "feed-updated"
	EvtAssetAdded      EventType = "asset-added"
)

// Event is an immutable structured record of one completed state transition.
// Events are write-only from the ledger's point of view: they are handed to
// the configured Sink and never read back by the engine itself.
type Event interface {
	What() EventType // What returns the kind of event.
	When() time.Time // When returns the time the transition completed.
	ID() uuid.UUID   // ID returns the unique identifier of this record.
}

type baseEvent struct {
	Type EventType `json:"event"`
	Time time.Time `json:"time"`
	Id   uuid.UUID `json:"id"`
}

func (e baseEvent) What() EventType { return e.Type }
func (e baseEvent) When() time.Time { return e.Time }
func (e baseEvent) ID() uuid.UUID   { return e.Id }

func newBaseEvent(t EventType, now time.Time) baseEvent {
	return baseEvent{Type: t, Time: now.UTC(), Id: uuid.New()}
}

// DepositMade records a completed deposit: the raw asset amount pulled into
// custody and the normalized amount credited.
type DepositMade struct {
	baseEvent
	User       string `json:"user"`
	Asset      string `json:"asset"`
	Raw        Amount `json:"raw"`
	Normalized Amount `json:"normalized"`
}

// WithdrawalMade records a completed withdrawal.
type WithdrawalMade struct {
	baseEvent
	User   string `json:"user"`
	Amount Amount `json:"amount"`
}

// CapacityUpdated records a privileged change of the global custody ceiling.
type CapacityUpdated struct {
	baseEvent
	Actor string `json:"actor"`
	Old   Amount `json:"old"`
	New   Amount `json:"new"`
}

// FeedUpdated records a privileged replacement of the price feed reference.
type FeedUpdated struct {
	baseEvent
	Actor string `json:"actor"`
	Feed  string `json:"feed"`
}

// AssetAdded records a privileged registration of an accepted asset.
type AssetAdded struct {
	baseEvent
	Actor    string `json:"actor"`
	Asset    string `json:"asset"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// MarshalJSON implementations keep a stable field order in journal lines.

func (e DepositMade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", e.Type)
	w.Append("time", e.Time)
	w.Append("id", e.Id)
	w.Append("user", e.User)
	w.Append("asset", e.Asset)
	w.Append("raw", e.Raw)
	w.Append("normalized", e.Normalized)
	return w.MarshalJSON()
}

func (e WithdrawalMade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", e.Type)
	w.Append("time", e.Time)
	w.Append("id", e.Id)
	w.Append("user", e.User)
	w.Append("amount", e.Amount)
	return w.MarshalJSON()
}

func (e CapacityUpdated) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", e.Type)
	w.Append("time", e.Time)
	w.Append("id", e.Id)
	w.Optional("actor", e.Actor)
	w.Append("old", e.Old)
	w.Append("new", e.New)
	return w.MarshalJSON()
}

func (e FeedUpdated) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", e.Type)
	w.Append("time", e.Time)
	w.Append("id", e.Id)
	w.Optional("actor", e.Actor)
	w.Append("feed", e.Feed)
	return w.MarshalJSON()
}

func (e AssetAdded) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", e.Type)
	w.Append("time", e.Time)
	w.Append("id", e.Id)
	w.Optional("actor", e.Actor)
	w.Append("asset", e.Asset)
	w.Append("symbol", e.Symbol)
	w.Append("decimals", e.Decimals)
	return w.MarshalJSON()
}

// Sink consumes audit events. Record must not call back into the ledger;
// implementations that cannot persist a record are expected to log and drop
// it rather than fail the originating call.
type Sink interface {
	Record(e Event)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Record(e Event) {}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(e Event)

func (f SinkFunc) Record(e Event) { f(e) }

// MultiSink fans one event out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Record(e Event) {
	for _, s := range m {
		s.Record(e)
	}
}
