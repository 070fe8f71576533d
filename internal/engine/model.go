package engine

import "fmt"

// Satisfaction is a participant's declared opinion of their current
// allocation. It is informational only and never influences settlement.
type Satisfaction string

const (
	Undecided   Satisfaction = ""
	Satisfied   Satisfaction = "satisfied"
	Unsatisfied Satisfaction = "unsatisfied"
)

// ParseSatisfaction maps a form value to a Satisfaction. Only the two
// explicit states are accepted; a participant cannot declare themselves
// undecided again.
func ParseSatisfaction(s string) (Satisfaction, error) {
	switch Satisfaction(s) {
	case Satisfied:
		return Satisfied, nil
	case Unsatisfied:
		return Unsatisfied, nil
	default:
		return Undecided, fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
}

// Action is a response to a pending swap offer.
type Action string

const (
	Accept  Action = "accept"
	Decline Action = "decline"
)

// ParseAction maps a form value to an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case Accept:
		return Accept, nil
	case Decline:
		return Decline, nil
	default:
		return "", fmt.Errorf("invalid action %q", s)
	}
}

// Offer is a pending proposal: the proposer wants to take over the target's
// unit at Price and hand their own unit to the target. Offers are kept in
// insertion order and are not deduplicated; the same pair may have several
// outstanding offers at once.
type Offer struct {
	ID       string
	Proposer string
	Target   string
	Price    Amount
}

// Settlement describes the outcome of responding to an offer. Units and
// prices refer to the pre-swap unit identities: ProposerUnit is the unit the
// proposer occupied when the offer was answered, and ProposerPrice is that
// unit's price afterwards (its occupant depends on the action taken).
type Settlement struct {
	Action        Action
	Proposer      string
	Target        string
	ProposerUnit  string
	TargetUnit    string
	ProposerPrice Amount
	TargetPrice   Amount

	// Invalidated holds the other pending offers removed because an accepted
	// swap moved one of the housemates they referenced. Empty on decline.
	Invalidated []Offer
}

// Snapshot is a consistent view of the whole session, captured under the
// engine lock in one piece so dashboards never render a torn state.
type Snapshot struct {
	TotalRent    Amount
	Participants []string
	Assignment   map[string]string
	Prices       map[string]Amount
	Satisfaction map[string]Satisfaction
	Available    []string
	Offers       []Offer
}

// Unit returns the unit currently assigned to the participant, or "" if the
// name is unknown.
func (s Snapshot) Unit(participant string) string {
	return s.Assignment[participant]
}
