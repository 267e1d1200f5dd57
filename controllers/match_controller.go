package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"pawlink_server/models"
	"pawlink_server/services"

	"github.com/gorilla/mux"
)

// MatchAPI is the slice of MatchService the controller uses
type MatchAPI interface {
	ExpressInterest(ctx context.Context, ownerID, petID, targetPetID string) (models.Match, error)
	Respond(ctx context.Context, ownerID, matchID, petID, action string) (models.Match, error)
	GetMatchesForPet(ctx context.Context, petID string) ([]models.MatchWithPets, error)
	AuthorizeChat(ctx context.Context, matchID, userID string) (models.MatchWithPets, error)
}

// MatchController handles HTTP requests for match lifecycle actions
type MatchController struct {
	Matches MatchAPI
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matches MatchAPI) *MatchController {
	return &MatchController{Matches: matches}
}

// HandleExpressInterest creates a pending match from one pet towards another
func (mc *MatchController) HandleExpressInterest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		OwnerID     string `json:"ownerId"`
		PetID       string `json:"petId"`
		TargetPetID string `json:"targetPetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.OwnerID == "" || request.PetID == "" || request.TargetPetID == "" {
		http.Error(w, `{"error": "Missing required fields: ownerId, petId or targetPetId"}`, http.StatusBadRequest)
		return
	}

	match, err := mc.Matches.ExpressInterest(r.Context(), request.OwnerID, request.PetID, request.TargetPetID)
	if err != nil {
		if errors.Is(err, services.ErrSelfMatch) {
			http.Error(w, `{"error": "Cannot match pets of the same owner"}`, http.StatusBadRequest)
			return
		}
		writeGuardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, match)
}

// HandleRespond records the pending side's accept/reject decision
func (mc *MatchController) HandleRespond(w http.ResponseWriter, r *http.Request) {
	var request struct {
		OwnerID string `json:"ownerId"`
		MatchID string `json:"matchId"`
		PetID   string `json:"petId"`
		Action  string `json:"action"` // accept | reject
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.OwnerID == "" || request.MatchID == "" || request.PetID == "" {
		http.Error(w, `{"error": "Missing required fields: ownerId, matchId or petId"}`, http.StatusBadRequest)
		return
	}

	var action string
	switch request.Action {
	case "accept":
		action = models.SideStatusAccepted
	case "reject":
		action = models.SideStatusRejected
	default:
		http.Error(w, `{"error": "action must be accept or reject"}`, http.StatusBadRequest)
		return
	}

	match, err := mc.Matches.Respond(r.Context(), request.OwnerID, request.MatchID, request.PetID, action)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyResponded) {
			http.Error(w, `{"error": "This side has already responded"}`, http.StatusConflict)
			return
		}
		writeGuardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, match)
}

// HandleGetMatches lists matches for a pet
func (mc *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	petID := r.URL.Query().Get("petId")
	if petID == "" {
		http.Error(w, `{"error": "petId is required"}`, http.StatusBadRequest)
		return
	}

	matches, err := mc.Matches.GetMatchesForPet(r.Context(), petID)
	if err != nil {
		writeGuardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// HandleGetMatch fetches a single match through the chat access guard,
// resolving myPet/otherPet for the calling user.
func (mc *MatchController) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := r.URL.Query().Get("userId")
	if matchID == "" || userID == "" {
		http.Error(w, `{"error": "matchId and userId are required"}`, http.StatusBadRequest)
		return
	}

	match, err := mc.Matches.AuthorizeChat(r.Context(), matchID, userID)
	if err != nil {
		writeGuardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, match)
}
