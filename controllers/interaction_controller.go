package controllers

import (
	"encoding/json"
	"net/http"

	"amoria_server/services"
)

// InteractionController handles HTTP requests for like/pass interactions
type InteractionController struct {
	InteractionService *services.InteractionService
}

// NewInteractionController creates a new InteractionController instance
func NewInteractionController(interactionService *services.InteractionService) *InteractionController {
	return &InteractionController{InteractionService: interactionService}
}

type pairRequest struct {
	ProfileID       string `json:"profileId"`
	TargetProfileID string `json:"targetProfileId"`
}

func decodePair(w http.ResponseWriter, r *http.Request) (pairRequest, bool) {
	var request pairRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return request, false
	}
	if request.ProfileID == "" || request.TargetProfileID == "" {
		http.Error(w, "profileId and targetProfileId are required", http.StatusBadRequest)
		return request, false
	}
	return request, true
}

// HandleLike records a like and reports whether it completed a match
func (ic *InteractionController) HandleLike(w http.ResponseWriter, r *http.Request) {
	request, ok := decodePair(w, r)
	if !ok {
		return
	}

	isMatch, err := ic.InteractionService.Like(r.Context(), request.ProfileID, request.TargetProfileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isMatch": isMatch})
}

// HandleUnlike removes a like
func (ic *InteractionController) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	request, ok := decodePair(w, r)
	if !ok {
		return
	}

	if err := ic.InteractionService.Unlike(r.Context(), request.ProfileID, request.TargetProfileID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Like removed"})
}

// HandlePass hides a profile, retracting any likes between the two
func (ic *InteractionController) HandlePass(w http.ResponseWriter, r *http.Request) {
	request, ok := decodePair(w, r)
	if !ok {
		return
	}

	if err := ic.InteractionService.Pass(r.Context(), request.ProfileID, request.TargetProfileID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile hidden"})
}

// HandleUnpass unhides a profile
func (ic *InteractionController) HandleUnpass(w http.ResponseWriter, r *http.Request) {
	request, ok := decodePair(w, r)
	if !ok {
		return
	}

	if err := ic.InteractionService.Unpass(r.Context(), request.ProfileID, request.TargetProfileID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile unhidden"})
}

// HandleMarkMatchSeen clears the is-new flag on both sides of a match
func (ic *InteractionController) HandleMarkMatchSeen(w http.ResponseWriter, r *http.Request) {
	request, ok := decodePair(w, r)
	if !ok {
		return
	}

	if err := ic.InteractionService.MarkMatchAsSeen(r.Context(), request.ProfileID, request.TargetProfileID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Match marked as seen"})
}

// HandleGetLikesSent returns the profile's sent likes with match annotations
func (ic *InteractionController) HandleGetLikesSent(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		http.Error(w, "profileId is required", http.StatusBadRequest)
		return
	}

	likes, err := ic.InteractionService.GetLikesSent(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}

// HandleGetLikesReceivedCount returns how many profiles like the caller
func (ic *InteractionController) HandleGetLikesReceivedCount(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		http.Error(w, "profileId is required", http.StatusBadRequest)
		return
	}

	count, err := ic.InteractionService.GetLikesReceivedCount(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// HandleGetMatches returns the profile's mutual likes
func (ic *InteractionController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		http.Error(w, "profileId is required", http.StatusBadRequest)
		return
	}

	matches, err := ic.InteractionService.GetMatches(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// HandleGetNewMatchesCount returns how many matches are still unseen
func (ic *InteractionController) HandleGetNewMatchesCount(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		http.Error(w, "profileId is required", http.StatusBadRequest)
		return
	}

	count, err := ic.InteractionService.GetNewMatchesCount(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// HandleGetHiddenProfiles returns the ids the caller has passed on
func (ic *InteractionController) HandleGetHiddenProfiles(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		http.Error(w, "profileId is required", http.StatusBadRequest)
		return
	}

	ids, err := ic.InteractionService.GetHiddenProfileIDs(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"hiddenProfileIds": ids})
}
