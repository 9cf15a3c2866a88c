package token

import (
	"sync"

	"github.com/google/uuid"

	"nftmarket/internal/market"
)

// Event records a single transfer or mint on one of the token contracts.
// Mints appear as transfers from the zero account.
type Event struct {
	ID      string         `json:"id"`
	Token   string         `json:"token"`
	From    market.Address `json:"from"`
	To      market.Address `json:"to"`
	TokenID uint64         `json:"token_id,omitempty"`
	Amount  uint64         `json:"amount,omitempty"`
}

// Journal is an append-only log of token events, shared by the contracts
// of one deployment.
type Journal struct {
	mu     sync.Mutex
	events []Event
}

// NewJournal creates an empty Journal.
func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) record(token string, from, to market.Address, tokenID, amount uint64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, Event{
		ID:      uuid.NewString(),
		Token:   token,
		From:    from,
		To:      to,
		TokenID: tokenID,
		Amount:  amount,
	})
}

// Events returns a copy of all recorded events in order.
func (j *Journal) Events() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Event, len(j.events))
	copy(out, j.events)
	return out
}

// Last returns the most recent event, if any.
func (j *Journal) Last() (Event, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.events) == 0 {
		return Event{}, false
	}
	return j.events[len(j.events)-1], true
}
