package routes

import (
	"pawlink_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterPetRoutes sets up routes for pet profiles under /api/pets
func RegisterPetRoutes(r *mux.Router, pets controllers.PetAPI) {
	controller := controllers.NewPetController(pets)

	petRouter := r.PathPrefix("/api/pets").Subrouter()
	petRouter.HandleFunc("", controller.HandleCreatePet).Methods("POST")
	petRouter.HandleFunc("", controller.HandleGetPetsByOwner).Methods("GET") // /api/pets?ownerId=
	petRouter.HandleFunc("/{petId}", controller.HandleGetPet).Methods("GET")
	petRouter.HandleFunc("/{petId}/photos", controller.HandleUpdatePhotos).Methods("PUT")
}
