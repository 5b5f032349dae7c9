package controllers

import (
	"net/http"

	"unveil_server/middleware"
	"unveil_server/models"
	"unveil_server/services"

	"go.uber.org/zap"
)

// UserProfileController manages the caller's own profile slice.
type UserProfileController struct {
	ProfileService *services.UserProfileService
	Log            *zap.SugaredLogger
}

func NewUserProfileController(service *services.UserProfileService, log *zap.SugaredLogger) *UserProfileController {
	return &UserProfileController{ProfileService: service, Log: log}
}

// GetProfile returns the caller's profile slice.
func (c *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	p, err := c.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

type upsertProfileRequest struct {
	Name      string   `json:"name" validate:"required,max=128"`
	PhotoKeys []string `json:"photoKeys" validate:"max=9,dive,max=512"`
}

// UpsertProfile creates or replaces the caller's profile slice.
func (c *UserProfileController) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req upsertProfileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, c.Log, err)
		return
	}

	p, err := c.ProfileService.UpsertProfile(r.Context(), &models.UserProfile{
		UserID:    middleware.UserID(r.Context()),
		Name:      req.Name,
		PhotoKeys: req.PhotoKeys,
	})
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// DeleteProfile removes the caller's profile slice.
func (c *UserProfileController) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if err := c.ProfileService.DeleteProfile(r.Context(), userID); err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
