package controllers

import (
	"encoding/json"
	"net/http"

	"amoria_server/services"
)

// UserProfileController handles HTTP requests for the profile reads the core
// exposes plus the profile-level callable toggle
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// HandleGetProfile fetches one profile
func (pc *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")
	if profileID == "" {
		http.Error(w, "profileId is required", http.StatusBadRequest)
		return
	}

	profile, err := pc.UserProfileService.GetProfile(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleSetCallable flips the profile-level callable flag
func (pc *UserProfileController) HandleSetCallable(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ProfileID  string `json:"profileId"`
		IsCallable *bool  `json:"isCallable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ProfileID == "" || request.IsCallable == nil {
		http.Error(w, "profileId and isCallable are required", http.StatusBadRequest)
		return
	}

	if err := pc.UserProfileService.SetCallable(r.Context(), request.ProfileID, *request.IsCallable); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Callable flag updated"})
}
