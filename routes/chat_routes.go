package routes

import (
	"unveil_server/controllers"
	"unveil_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterChatRoutes sets up routes for chat operations under /chat.
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, log *zap.SugaredLogger) {
	controller := controllers.NewChatController(chatService, log)

	chatRouter := r.PathPrefix("/chat").Subrouter()
	chatRouter.HandleFunc("/message", controller.SendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.GetMessages).Methods("GET")
	chatRouter.HandleFunc("/messages/mark-read", controller.MarkRead).Methods("POST")
}
