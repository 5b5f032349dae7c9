package routes

import (
	"unveil_server/controllers"
	"unveil_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterMediaRoutes sets up photo resolution routes under /media.
func RegisterMediaRoutes(r *mux.Router, mediaService *services.MediaService, matchService *services.MatchService, log *zap.SugaredLogger) {
	controller := controllers.NewMediaController(mediaService, matchService, log)

	mediaRouter := r.PathPrefix("/media").Subrouter()
	mediaRouter.HandleFunc("/photos", controller.GetMatchPhotos).Methods("GET")
	mediaRouter.HandleFunc("/upload-url", controller.CreateUploadURL).Methods("POST")
}
