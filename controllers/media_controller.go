package controllers

import (
	"net/http"

	"unveil_server/middleware"
	"unveil_server/services"

	"go.uber.org/zap"
)

// MediaController resolves photo visibility for a match and issues
// upload URLs for the caller's own photos.
type MediaController struct {
	MediaService *services.MediaService
	MatchService *services.MatchService
	Log          *zap.SugaredLogger
}

func NewMediaController(media *services.MediaService, matches *services.MatchService, log *zap.SugaredLogger) *MediaController {
	return &MediaController{MediaService: media, MatchService: matches, Log: log}
}

// GetMatchPhotos returns the gated view of the counterpart's photos:
// count only before unlock, presigned URLs after.
func (c *MediaController) GetMatchPhotos(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		respondError(w, c.Log, errMissingMatchID)
		return
	}

	userID := middleware.UserID(r.Context())
	m, _, err := c.MatchService.GetMatchFor(r.Context(), matchID, userID)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	reveal, err := c.MediaService.CounterpartPhotos(r.Context(), m, userID)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, reveal)
}

type uploadURLRequest struct {
	FileName string `json:"fileName" validate:"required,max=256"`
	FileType string `json:"fileType" validate:"required,max=128"`
}

// CreateUploadURL presigns a PUT for a new profile photo.
func (c *MediaController) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, c.Log, err)
		return
	}

	userID := middleware.UserID(r.Context())
	url, key, err := c.MediaService.GenerateUploadURL(r.Context(), userID, req.FileName, req.FileType)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"uploadUrl": url,
		"photoKey":  key,
	})
}
