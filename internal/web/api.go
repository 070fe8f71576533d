package web

import (
	"encoding/json"
	"net/http"
)

// The JSON endpoints are read-only and sessionless. Prices cross the wire
// as formatted strings so clients never re-do money arithmetic in floats.

type participantState struct {
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Price string `json:"price"`
	State string `json:"state"`
}

type stateResponse struct {
	TotalRent    string             `json:"total_rent"`
	Participants []participantState `json:"participants"`
	Available    []string           `json:"available"`
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()

	resp := stateResponse{
		TotalRent: snap.TotalRent.String(),
		Available: snap.Available,
	}
	for _, person := range snap.Participants {
		unit := snap.Unit(person)
		resp.Participants = append(resp.Participants, participantState{
			Name:  person,
			Unit:  unit,
			Price: snap.Prices[unit].String(),
			State: displayState(snap.Satisfaction[person]),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type offerEntry struct {
	ID           string `json:"id"`
	Proposer     string `json:"proposer"`
	ProposerUnit string `json:"proposer_unit"`
	Target       string `json:"target"`
	TargetUnit   string `json:"target_unit"`
	Price        string `json:"price"`
}

func (s *Server) handleAPIOffers(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()

	offers := make([]offerEntry, 0, len(snap.Offers))
	for _, offer := range snap.Offers {
		offers = append(offers, offerEntry{
			ID:           offer.ID,
			Proposer:     offer.Proposer,
			ProposerUnit: snap.Unit(offer.Proposer),
			Target:       offer.Target,
			TargetUnit:   snap.Unit(offer.Target),
			Price:        offer.Price.String(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(offers)
}
