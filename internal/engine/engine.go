// Package engine owns the room/price assignment, satisfaction states and the
// pending-offer book for one house. Every mutation runs under a single
// mutex, and every settlement preserves the house-wide invariant that unit
// prices sum exactly to the configured total rent.
package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrConfiguration      = errors.New("invalid configuration")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrAlreadyClaimed     = errors.New("identity already claimed")
	ErrInvalidState       = errors.New("invalid satisfaction state")
	ErrInvalidTarget      = errors.New("invalid swap target")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrNoSuchOffer        = errors.New("no such pending offer")
)

// Engine holds the shared session state. All exported methods are safe for
// concurrent use; each one either fully applies or, on error, leaves the
// state untouched.
type Engine struct {
	mu sync.Mutex

	totalRent    Amount
	participants []string
	assignment   map[string]string // participant -> unit
	prices       map[string]Amount // unit -> price in cents
	satisfaction map[string]Satisfaction
	available    map[string]struct{} // names not yet claimed
	offers       []Offer             // pending, insertion order
}

// New validates the configuration and builds a freshly allocated session.
func New(totalRent Amount, participants []string) (*Engine, error) {
	e := &Engine{}
	if err := e.Initialize(totalRent, participants); err != nil {
		return nil, err
	}
	return e, nil
}

// Initialize resets the session: fresh units, an unbiased random assignment,
// uniform prices with the rounding leftover folded into the last
// participant's unit so prices sum to totalRent exactly, everyone unclaimed
// and undecided, no pending offers.
func (e *Engine) Initialize(totalRent Amount, participants []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if totalRent <= 0 {
		return fmt.Errorf("%w: total rent must be positive, got %s", ErrConfiguration, totalRent)
	}
	if len(participants) == 0 {
		return fmt.Errorf("%w: no participants", ErrConfiguration)
	}
	seen := make(map[string]struct{}, len(participants))
	for _, name := range participants {
		if name == "" {
			return fmt.Errorf("%w: empty participant name", ErrConfiguration)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate participant %q", ErrConfiguration, name)
		}
		seen[name] = struct{}{}
	}

	n := len(participants)
	units := make([]string, n)
	for i := range units {
		units[i] = fmt.Sprintf("unit_%d", i+1)
	}
	rand.Shuffle(n, func(i, j int) {
		units[i], units[j] = units[j], units[i]
	})

	base := Amount(math.Round(float64(totalRent) / float64(n)))
	assignment := make(map[string]string, n)
	prices := make(map[string]Amount, n)
	satisfaction := make(map[string]Satisfaction, n)
	available := make(map[string]struct{}, n)
	for i, name := range participants {
		assignment[name] = units[i]
		prices[units[i]] = base
		satisfaction[name] = Undecided
		available[name] = struct{}{}
	}
	// Even division can drift by a few cents; park the leftover on the last
	// participant's unit so the sum is exact.
	if leftover := totalRent - base*Amount(n); leftover != 0 {
		prices[units[n-1]] += leftover
	}

	e.totalRent = totalRent
	e.participants = append([]string(nil), participants...)
	e.assignment = assignment
	e.prices = prices
	e.satisfaction = satisfaction
	e.available = available
	e.offers = nil
	return nil
}

// ClaimIdentity permanently binds a participant name to the caller's
// session. A name can be claimed once; there is no release.
func (e *Engine) ClaimIdentity(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.assignment[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, name)
	}
	if _, ok := e.available[name]; !ok {
		return fmt.Errorf("%w: %q", ErrAlreadyClaimed, name)
	}
	delete(e.available, name)
	return nil
}

// SetSatisfaction records the participant's opinion of their allocation.
func (e *Engine) SetSatisfaction(name string, s Satisfaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.assignment[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, name)
	}
	if s != Satisfied && s != Unsatisfied {
		return fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
	e.satisfaction[name] = s
	return nil
}

// ProposeSwap appends a new pending offer from proposer to target. An
// offered amount of zero (covering blank and explicit "0" form input) means
// "at the current rate" and resolves to the present price of the target's
// unit. Offers are not deduplicated.
func (e *Engine) ProposeSwap(proposer, target string, offered Amount) (Offer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.assignment[proposer]; !ok {
		return Offer{}, fmt.Errorf("%w: %q", ErrUnknownParticipant, proposer)
	}
	if _, ok := e.assignment[target]; !ok || target == proposer {
		return Offer{}, fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}
	if offered < 0 {
		return Offer{}, fmt.Errorf("%w: %s", ErrInvalidPrice, offered)
	}
	if offered == 0 {
		offered = e.prices[e.assignment[target]]
	}

	offer := Offer{
		ID:       uuid.NewString(),
		Proposer: proposer,
		Target:   target,
		Price:    offered,
	}
	e.offers = append(e.offers, offer)
	return offer, nil
}

// RespondSwap settles the oldest pending offer from proposer to target. The
// offer is consumed whatever the action. Both actions rewrite exactly the
// two prices involved with a conserved sum: the target's unit takes the
// offered price and the proposer's unit takes the pair's remainder. Accept
// additionally swaps the two occupants and drops every other pending offer
// that referenced either of their pre-swap units, since those offers no
// longer mean what they meant when proposed.
func (e *Engine) RespondSwap(target, proposer string, action Action) (*Settlement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch action {
	case Accept, Decline:
	default:
		return nil, fmt.Errorf("respond swap: invalid action %q", action)
	}

	idx := -1
	for i, o := range e.offers {
		if o.Proposer == proposer && o.Target == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoSuchOffer, proposer, target)
	}
	offer := e.offers[idx]
	e.offers = append(e.offers[:idx], e.offers[idx+1:]...)

	unitI := e.assignment[proposer]
	unitJ := e.assignment[target]
	priceI := e.prices[unitI]
	priceJ := e.prices[unitJ]

	settled := &Settlement{
		Action:       action,
		Proposer:     proposer,
		Target:       target,
		ProposerUnit: unitI,
		TargetUnit:   unitJ,
	}

	if action == Accept {
		// Prune before touching the assignment: every offer participant is
		// still at their pre-swap unit, so "references unit I or J" is a
		// plain lookup.
		kept := e.offers[:0]
		for _, o := range e.offers {
			pu := e.assignment[o.Proposer]
			tu := e.assignment[o.Target]
			if pu == unitI || pu == unitJ || tu == unitI || tu == unitJ {
				settled.Invalidated = append(settled.Invalidated, o)
				continue
			}
			kept = append(kept, o)
		}
		e.offers = kept
		e.assignment[proposer], e.assignment[target] = unitJ, unitI
	}

	// Shared by accept and decline: the pair's combined rent is unchanged.
	e.prices[unitJ] = offer.Price
	e.prices[unitI] = priceI + priceJ - offer.Price
	settled.TargetPrice = offer.Price
	settled.ProposerPrice = priceI + priceJ - offer.Price
	return settled, nil
}

// TotalRent returns the configured total rent.
func (e *Engine) TotalRent() Amount {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalRent
}

// Participants returns the participant names in configured order.
func (e *Engine) Participants() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.participants...)
}

// Assignment returns a copy of the participant -> unit mapping.
func (e *Engine) Assignment() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyMap(e.assignment)
}

// Prices returns a copy of the unit -> price mapping.
func (e *Engine) Prices() map[string]Amount {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyMap(e.prices)
}

// Satisfaction returns a copy of the per-participant satisfaction states.
func (e *Engine) Satisfaction() map[string]Satisfaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyMap(e.satisfaction)
}

// Available returns the unclaimed participant names in configured order.
func (e *Engine) Available() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.availableLocked()
}

// IsParticipant reports whether name belongs to the configured roster.
func (e *Engine) IsParticipant(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.assignment[name]
	return ok
}

// PendingOffers returns the order book in insertion order.
func (e *Engine) PendingOffers() []Offer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Offer(nil), e.offers...)
}

// Snapshot captures the whole session state in one lock acquisition.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		TotalRent:    e.totalRent,
		Participants: append([]string(nil), e.participants...),
		Assignment:   copyMap(e.assignment),
		Prices:       copyMap(e.prices),
		Satisfaction: copyMap(e.satisfaction),
		Available:    e.availableLocked(),
		Offers:       append([]Offer(nil), e.offers...),
	}
}

func (e *Engine) availableLocked() []string {
	names := make([]string, 0, len(e.available))
	for _, name := range e.participants {
		if _, ok := e.available[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
