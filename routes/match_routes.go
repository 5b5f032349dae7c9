package routes

import (
	"unveil_server/controllers"
	"unveil_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterMatchRoutes sets up match lifecycle routes under /matches.
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, log *zap.SugaredLogger) {
	controller := controllers.NewMatchController(matchService, log)

	matchRouter := r.PathPrefix("/matches").Subrouter()
	matchRouter.HandleFunc("", controller.CreateMatch).Methods("POST")
	matchRouter.HandleFunc("/{matchId}", controller.GetMatch).Methods("GET")
	matchRouter.HandleFunc("/{matchId}/unlock/request", controller.RequestUnlock).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/unlock/respond", controller.RespondUnlock).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/rating", controller.SubmitRating).Methods("POST")
}
