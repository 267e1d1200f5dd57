package routes

import (
	"pawlink_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for the match lifecycle under /api/match
func RegisterMatchRoutes(r *mux.Router, matches controllers.MatchAPI) {
	controller := controllers.NewMatchController(matches)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.HandleFunc("/interest", controller.HandleExpressInterest).Methods("POST")
	matchRouter.HandleFunc("/respond", controller.HandleRespond).Methods("POST")
	matchRouter.HandleFunc("/{matchId}", controller.HandleGetMatch).Methods("GET")
	matchRouter.HandleFunc("", controller.HandleGetMatches).Methods("GET") // /api/match?petId=
}
