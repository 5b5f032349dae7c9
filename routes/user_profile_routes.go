package routes

import (
	"unveil_server/controllers"
	"unveil_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterUserProfileRoutes sets up the profile slice routes under /profile.
func RegisterUserProfileRoutes(r *mux.Router, profileService *services.UserProfileService, log *zap.SugaredLogger) {
	controller := controllers.NewUserProfileController(profileService, log)

	profileRouter := r.PathPrefix("/profile").Subrouter()
	profileRouter.HandleFunc("", controller.GetProfile).Methods("GET")
	profileRouter.HandleFunc("", controller.UpsertProfile).Methods("PUT")
	profileRouter.HandleFunc("", controller.DeleteProfile).Methods("DELETE")
}
