package controllers

import (
	"net/http"

	"unveil_server/middleware"
	"unveil_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// MatchController handles match lifecycle: creation at the pairing
// boundary, the unlock flow, and post-unlock ratings.
type MatchController struct {
	MatchService *services.MatchService
	Log          *zap.SugaredLogger
}

func NewMatchController(service *services.MatchService, log *zap.SugaredLogger) *MatchController {
	return &MatchController{MatchService: service, Log: log}
}

type createMatchRequest struct {
	ParticipantA string  `json:"participantA" validate:"required"`
	ParticipantB string  `json:"participantB" validate:"required"`
	Score        float64 `json:"score" validate:"min=0,max=100"`
}

// CreateMatch records a match decided by the upstream pairing service.
func (c *MatchController) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, c.Log, err)
		return
	}

	m, err := c.MatchService.CreateMatch(r.Context(), req.ParticipantA, req.ParticipantB, req.Score)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusCreated, m)
}

// GetMatch returns the caller's view of a match with the derived
// unlock state and progress.
func (c *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.UserID(r.Context())

	m, snapshot, err := c.MatchService.GetMatchFor(r.Context(), matchID, userID)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"match":  m,
		"unlock": snapshot,
	})
}

// RequestUnlock opens an unlock request; if the counterpart already has
// one pending this acts as acceptance.
func (c *MatchController) RequestUnlock(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := middleware.UserID(r.Context())

	m, err := c.MatchService.RequestUnlock(r.Context(), matchID, userID)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"match":  m,
		"unlock": c.MatchService.Policy.Snapshot(m),
	})
}

type respondUnlockRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// RespondUnlock accepts or rejects the pending unlock request.
func (c *MatchController) RespondUnlock(w http.ResponseWriter, r *http.Request) {
	var req respondUnlockRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, c.Log, err)
		return
	}

	matchID := mux.Vars(r)["matchId"]
	userID := middleware.UserID(r.Context())

	m, err := c.MatchService.RespondToUnlock(r.Context(), matchID, userID, *req.Accept)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"match":  m,
		"unlock": c.MatchService.Policy.Snapshot(m),
	})
}

type submitRatingRequest struct {
	Value *int `json:"value" validate:"required,min=0,max=10"`
}

// SubmitRating records the caller's post-unlock rating. The response
// reveals the resulting state, never the counterpart's rating.
func (c *MatchController) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req submitRatingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, c.Log, err)
		return
	}

	matchID := mux.Vars(r)["matchId"]
	userID := middleware.UserID(r.Context())

	outcome, err := c.MatchService.SubmitRating(r.Context(), matchID, userID, *req.Value)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}
