package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/omen/internal/logger"
)

// Event is a structured settlement event. Field names and values are an
// externally observable contract consumed by indexers.
type Event interface {
	Name() string
	Fields() map[string]interface{}
}

// Emitter delivers events to an external sink.
type Emitter interface {
	Emit(event Event)
}

// MarketCreated is emitted when a universe registers a new market.
type MarketCreated struct {
	Universe      uuid.UUID
	Market        uuid.UUID
	MarketCreator uuid.UUID
	ExtraInfo     string
}

func (MarketCreated) Name() string { return "MarketCreated" }

func (e MarketCreated) Fields() map[string]interface{} {
	return map[string]interface{}{
		"universe":      e.Universe,
		"market":        e.Market,
		"marketCreator": e.MarketCreator,
		"extraInfo":     e.ExtraInfo,
	}
}

// MarketResolved is emitted on the one-shot resolution transition.
type MarketResolved struct {
	Universe uuid.UUID
	Market   uuid.UUID
}

func (MarketResolved) Name() string { return "MarketResolved" }

func (e MarketResolved) Fields() map[string]interface{} {
	return map[string]interface{}{
		"universe": e.Universe,
		"market":   e.Market,
	}
}

// MarketTransferred is emitted when market ownership changes hands.
type MarketTransferred struct {
	Universe uuid.UUID
	Market   uuid.UUID
	From     uuid.UUID
	To       uuid.UUID
}

func (MarketTransferred) Name() string { return "MarketTransferred" }

func (e MarketTransferred) Fields() map[string]interface{} {
	return map[string]interface{}{
		"universe": e.Universe,
		"market":   e.Market,
		"from":     e.From,
		"to":       e.To,
	}
}

// MarketMailboxTransferred is emitted when the creator mailbox changes
// hands, independently of market ownership.
type MarketMailboxTransferred struct {
	Universe uuid.UUID
	Market   uuid.UUID
	Mailbox  uuid.UUID
	From     uuid.UUID
	To       uuid.UUID
}

func (MarketMailboxTransferred) Name() string { return "MarketMailboxTransferred" }

func (e MarketMailboxTransferred) Fields() map[string]interface{} {
	return map[string]interface{}{
		"universe": e.Universe,
		"market":   e.Market,
		"mailbox":  e.Mailbox,
		"from":     e.From,
		"to":       e.To,
	}
}

// CompleteSetsPurchased is emitted after a complete set mint.
type CompleteSetsPurchased struct {
	Universe        uuid.UUID
	Market          uuid.UUID
	Account         uuid.UUID
	NumCompleteSets decimal.Decimal
}

func (CompleteSetsPurchased) Name() string { return "CompleteSetsPurchased" }

func (e CompleteSetsPurchased) Fields() map[string]interface{} {
	return map[string]interface{}{
		"universe":        e.Universe,
		"market":          e.Market,
		"account":         e.Account,
		"numCompleteSets": e.NumCompleteSets,
	}
}

// CompleteSetsSold is emitted after a complete set redemption.
type CompleteSetsSold struct {
	Universe        uuid.UUID
	Market          uuid.UUID
	Account         uuid.UUID
	NumCompleteSets decimal.Decimal
}

func (CompleteSetsSold) Name() string { return "CompleteSetsSold" }

func (e CompleteSetsSold) Fields() map[string]interface{} {
	return map[string]interface{}{
		"universe":        e.Universe,
		"market":          e.Market,
		"account":         e.Account,
		"numCompleteSets": e.NumCompleteSets,
	}
}

// TradingProceedsClaimed is emitted once per outcome redeemed during a
// proceeds claim.
type TradingProceedsClaimed struct {
	Market            uuid.UUID
	ShareToken        uuid.UUID
	Sender            uuid.UUID
	NumShares         decimal.Decimal
	NumPayoutTokens   decimal.Decimal
	FinalTokenBalance decimal.Decimal
}

func (TradingProceedsClaimed) Name() string { return "TradingProceedsClaimed" }

func (e TradingProceedsClaimed) Fields() map[string]interface{} {
	return map[string]interface{}{
		"market":            e.Market,
		"shareToken":        e.ShareToken,
		"sender":            e.Sender,
		"numShares":         e.NumShares,
		"numPayoutTokens":   e.NumPayoutTokens,
		"finalTokenBalance": e.FinalTokenBalance,
	}
}

// LogEmitter writes events to the structured log.
type LogEmitter struct {
	logger logger.Logger
}

// NewLogEmitter returns an Emitter backed by the given logger.
func NewLogEmitter(l logger.Logger) *LogEmitter {
	return &LogEmitter{logger: l}
}

// Emit logs the event name with its fields.
func (e *LogEmitter) Emit(event Event) {
	e.logger.Info(event.Name(), event.Fields())
}

// Recorder captures emitted events for assertions in tests.
type Recorder struct {
	Events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit appends the event.
func (r *Recorder) Emit(event Event) {
	r.Events = append(r.Events, event)
}

// Named returns all recorded events with the given name.
func (r *Recorder) Named(name string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Name() == name {
			out = append(out, e)
		}
	}
	return out
}
