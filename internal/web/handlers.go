package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/sxcben/unit-repartition-project/internal/engine"
)

// currentParticipant resolves the session cookie to a housemate that exists
// in the running session. A cookie from an earlier boot may name someone who
// no longer participates; it is treated as no session at all.
func (s *Server) currentParticipant(r *http.Request) (string, bool) {
	name, ok := s.sessions.participant(r)
	if !ok || !s.engine.IsParticipant(name) {
		return "", false
	}
	return name, true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	name, ok := s.currentParticipant(r)
	if !ok {
		s.render(w, http.StatusOK, chooserTmpl, buildChooser(snap))
		return
	}
	s.render(w, http.StatusOK, dashboardTmpl, buildDashboard(snap, name))
}

func (s *Server) handleChoose(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("user")
	if err := s.engine.ClaimIdentity(name); err != nil {
		s.renderError(w, err)
		return
	}
	if err := s.sessions.setCookie(w, name); err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	s.logger.Info("identity claimed", zap.String("participant", name))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSetState(w http.ResponseWriter, r *http.Request) {
	name, ok := s.currentParticipant(r)
	if !ok {
		s.renderForbidden(w)
		return
	}

	state, err := engine.ParseSatisfaction(r.PostFormValue("state"))
	if err != nil {
		s.renderError(w, err)
		return
	}
	if err := s.engine.SetSatisfaction(name, state); err != nil {
		s.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleProposeSwap(w http.ResponseWriter, r *http.Request) {
	name, ok := s.currentParticipant(r)
	if !ok {
		s.renderForbidden(w)
		return
	}

	target := r.PostFormValue("target")
	offered, err := engine.ParseAmount(r.PostFormValue("price"))
	if err != nil {
		s.renderError(w, fmt.Errorf("%w: %v", engine.ErrInvalidPrice, err))
		return
	}
	offer, err := s.engine.ProposeSwap(name, target, offered)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.logger.Info("swap proposed",
		zap.String("proposer", name),
		zap.String("target", target),
		zap.Stringer("price", offer.Price))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRespondSwap(w http.ResponseWriter, r *http.Request) {
	name, ok := s.currentParticipant(r)
	if !ok {
		s.renderForbidden(w)
		return
	}

	action, err := engine.ParseAction(r.PostFormValue("action"))
	if err != nil {
		s.render(w, http.StatusBadRequest, errorTmpl, errorView{Title: "Error", Message: "Unknown action."})
		return
	}
	settled, err := s.engine.RespondSwap(name, r.PostFormValue("proposer"), action)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.logger.Info("swap settled",
		zap.String("action", string(settled.Action)),
		zap.String("proposer", settled.Proposer),
		zap.String("target", settled.Target),
		zap.Int("invalidated_offers", len(settled.Invalidated)))
	if s.notifier != nil {
		s.notifier.SwapSettled(settled)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// View construction

func displayState(s engine.Satisfaction) string {
	if s == engine.Undecided {
		return "undecided"
	}
	return string(s)
}

func buildChooser(snap engine.Snapshot) chooserView {
	return chooserView{
		Title:            "Choose your identity",
		TotalRent:        snap.TotalRent.String(),
		ParticipantCount: len(snap.Participants),
		Available:        snap.Available,
	}
}

func buildDashboard(snap engine.Snapshot, user string) dashboardView {
	view := dashboardView{
		Title:     "Room Swap Dashboard",
		User:      user,
		TotalRent: snap.TotalRent.String(),
	}
	for _, person := range snap.Participants {
		unit := snap.Unit(person)
		view.Roster = append(view.Roster, rosterRow{
			Person: person,
			Unit:   unit,
			Price:  snap.Prices[unit].String(),
			State:  displayState(snap.Satisfaction[person]),
		})
		if person != user {
			view.Others = append(view.Others, person)
		}
	}
	for _, offer := range snap.Offers {
		if offer.Target == user {
			view.Incoming = append(view.Incoming, incomingOffer{
				Proposer: offer.Proposer,
				Price:    offer.Price.String(),
			})
		}
		view.Book = append(view.Book, bookRow{
			Proposer:     offer.Proposer,
			ProposerUnit: snap.Unit(offer.Proposer),
			Target:       offer.Target,
			TargetUnit:   snap.Unit(offer.Target),
			Price:        offer.Price.String(),
		})
	}
	return view
}

// Rendering and error mapping

func (s *Server) render(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("template execution failed", zap.Error(err))
	}
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	s.render(w, statusForError(err), errorTmpl, errorView{
		Title:   "Error",
		Message: messageForError(err),
	})
}

func (s *Server) renderForbidden(w http.ResponseWriter) {
	s.render(w, http.StatusForbidden, errorTmpl, errorView{
		Title:   "Forbidden",
		Message: "Please choose your identity first.",
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, engine.ErrUnknownParticipant),
		errors.Is(err, engine.ErrInvalidTarget),
		errors.Is(err, engine.ErrInvalidPrice),
		errors.Is(err, engine.ErrInvalidState),
		errors.Is(err, engine.ErrNoSuchOffer),
		errors.Is(err, engine.ErrConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messageForError(err error) string {
	switch {
	case errors.Is(err, engine.ErrAlreadyClaimed):
		return "That name has already been claimed. Someone else may be using the app."
	case errors.Is(err, engine.ErrUnknownParticipant):
		return "Invalid or unavailable user name."
	case errors.Is(err, engine.ErrInvalidTarget):
		return "Invalid swap request."
	case errors.Is(err, engine.ErrInvalidPrice):
		return "Invalid price value."
	case errors.Is(err, engine.ErrInvalidState):
		return "Invalid satisfaction state."
	case errors.Is(err, engine.ErrNoSuchOffer):
		return "No such pending request."
	default:
		return "Something went wrong."
	}
}
