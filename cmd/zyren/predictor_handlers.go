package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/zyren-ai/zyren/internal/models"
	"github.com/zyren-ai/zyren/internal/predict"
	"github.com/zyren-ai/zyren/internal/session"
)

// GET /api/predictor -> current state and tables
func (s *server) handlePredictor(w http.ResponseWriter, r *http.Request) {
	st := s.state(r)
	st.Lock()
	snap := st.Engine.Snapshot()
	st.Unlock()
	writeJSON(w, snap)
}

// PUT /api/predictor/draft -> keep partial input while the user types
func (s *server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req models.RosterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.engineOp(w, r, "draft", func(e *predict.Engine) error {
		if err := e.Stage(req.Names); err != nil {
			return err
		}
		return e.Assign(req.Known)
	})
}

// POST /api/predictor/roster -> validate and build both tables
func (s *server) handleRoster(w http.ResponseWriter, r *http.Request) {
	var req models.RosterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.engineOp(w, r, "submit", func(e *predict.Engine) error {
		_, err := e.SubmitRoster(predict.Roster{Names: req.Names, Known: req.Known})
		return err
	})
}

// POST /api/predictor/extend -> five more rounds
func (s *server) handleExtend(w http.ResponseWriter, r *http.Request) {
	s.engineOp(w, r, "extend", func(e *predict.Engine) error {
		_, err := e.Extend()
		return err
	})
}

// POST /api/predictor/override {mode, round|label} -> mark a round as Creep
func (s *server) handleOverride(w http.ResponseWriter, r *http.Request) {
	var req models.OverrideRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, err := predict.ParseMode(req.Mode)
	if err != nil {
		s.metrics.PredictorOp("override", "invalid")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.engineOp(w, r, "override", func(e *predict.Engine) error {
		index, err := overrideIndex(req, e)
		if err != nil {
			return err
		}
		_, err = e.Override(mode, index)
		return err
	})
}

var errMissingRound = errors.New("round or label is required")

func overrideIndex(req models.OverrideRequest, e *predict.Engine) (int, error) {
	switch {
	case req.Round != nil:
		return predict.RoundIndex(strconv.Itoa(*req.Round), e.Config().Scheme)
	case req.Label != "":
		return predict.RoundIndex(req.Label, e.Config().Scheme)
	}
	return 0, errMissingRound
}

// POST /api/predictor/reset -> back to an empty predictor
func (s *server) handlePredictorReset(w http.ResponseWriter, r *http.Request) {
	s.engineOp(w, r, "reset", func(e *predict.Engine) error {
		e.Reset()
		return nil
	})
}

// engineOp runs fn under the session lock and answers with the resulting
// snapshot, or with the error mapped to a status code.
func (s *server) engineOp(w http.ResponseWriter, r *http.Request, op string, fn func(*predict.Engine) error) {
	st := s.state(r)
	st.Lock()
	defer st.Unlock()

	if err := fn(st.Engine); err != nil {
		s.engineError(w, st, op, err)
		return
	}
	s.metrics.PredictorOp(op, "ok")
	snap := st.Engine.Snapshot()
	s.log.Debug("predictor: "+op, "session", st.ID, "state", snap.State, "rounds", snap.RoundCount)
	writeJSON(w, snap)
}

func (s *server) engineError(w http.ResponseWriter, st *session.State, op string, err error) {
	var verr *predict.ValidationError
	if errors.As(err, &verr) {
		s.metrics.PredictorOp(op, "invalid")
		writeErrorBody(w, models.ErrorBody{Message: err.Error(), Status: http.StatusUnprocessableEntity, Field: verr.Field})
		return
	}

	s.metrics.PredictorOp(op, "rejected")
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, predict.ErrNotReady), errors.Is(err, predict.ErrAlreadyReady):
		code = http.StatusConflict
	case errors.Is(err, predict.ErrRoundOutOfRange), errors.Is(err, predict.ErrUnknownMode), errors.Is(err, errMissingRound):
		code = http.StatusBadRequest
	}
	s.log.Warn("predictor: "+op+" rejected", "session", st.ID, "state", st.Engine.State(), "error", err)
	writeError(w, code, err.Error())
}
