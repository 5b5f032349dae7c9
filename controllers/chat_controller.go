package controllers

import (
	"net/http"
	"strconv"

	"unveil_server/middleware"
	"unveil_server/services"

	"go.uber.org/zap"
)

// ChatController handles the message log endpoints. The acting user
// always comes from the auth context, never the request body.
type ChatController struct {
	ChatService *services.ChatService
	Log         *zap.SugaredLogger
}

func NewChatController(service *services.ChatService, log *zap.SugaredLogger) *ChatController {
	return &ChatController{ChatService: service, Log: log}
}

type sendMessageRequest struct {
	MatchID     string `json:"matchId" validate:"required"`
	Content     string `json:"content" validate:"required,max=2000"`
	AISuggested bool   `json:"aiSuggested"`
}

// SendMessage appends a message to the match's channel.
func (c *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, c.Log, err)
		return
	}

	senderID := middleware.UserID(r.Context())
	msg, err := c.ChatService.AppendMessage(r.Context(), req.MatchID, senderID, req.Content, req.AISuggested)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// GetMessages serves an ordinal page: initial load with after=0,
// reconnect catch-up with the client's last-known ordinal.
func (c *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		respondError(w, c.Log, errMissingMatchID)
		return
	}

	after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	userID := middleware.UserID(r.Context())
	page, err := c.ChatService.GetMessagesSince(r.Context(), matchID, userID, after, limit)
	if err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

type markReadRequest struct {
	MatchID     string `json:"matchId" validate:"required"`
	UptoOrdinal int64  `json:"uptoOrdinal" validate:"required,min=1"`
}

// MarkRead advances the caller's read cursor.
func (c *ChatController) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, c.Log, err)
		return
	}

	userID := middleware.UserID(r.Context())
	if err := c.ChatService.MarkRead(r.Context(), req.MatchID, userID, req.UptoOrdinal); err != nil {
		respondError(w, c.Log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
