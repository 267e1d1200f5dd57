package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"pawlink_server/models"

	"github.com/gorilla/mux"
)

// PetAPI is the slice of PetProfileService the controller uses
type PetAPI interface {
	CreatePet(ctx context.Context, pet models.Pet) (models.Pet, error)
	GetPet(ctx context.Context, petID string) (models.Pet, error)
	GetPetsByOwner(ctx context.Context, ownerID string) ([]models.Pet, error)
	UpdatePhotos(ctx context.Context, petID string, photos []string) error
}

// PetController handles HTTP requests for pet profiles
type PetController struct {
	Pets PetAPI
}

// NewPetController creates a new PetController instance
func NewPetController(pets PetAPI) *PetController {
	return &PetController{Pets: pets}
}

// HandleCreatePet stores a new pet profile
func (pc *PetController) HandleCreatePet(w http.ResponseWriter, r *http.Request) {
	var pet models.Pet
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if pet.OwnerID == "" || pet.Name == "" {
		http.Error(w, `{"error": "Missing required fields: ownerId or name"}`, http.StatusBadRequest)
		return
	}

	created, err := pc.Pets.CreatePet(r.Context(), pet)
	if err != nil {
		http.Error(w, `{"error": "Failed to create pet profile"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleGetPet fetches a pet profile by id
func (pc *PetController) HandleGetPet(w http.ResponseWriter, r *http.Request) {
	petID := mux.Vars(r)["petId"]

	pet, err := pc.Pets.GetPet(r.Context(), petID)
	if err != nil {
		writeGuardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pet)
}

// HandleGetPetsByOwner lists the pets belonging to an owner
func (pc *PetController) HandleGetPetsByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerId")
	if ownerID == "" {
		http.Error(w, `{"error": "ownerId is required"}`, http.StatusBadRequest)
		return
	}

	pets, err := pc.Pets.GetPetsByOwner(r.Context(), ownerID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch pets"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"pets": pets})
}

// HandleUpdatePhotos replaces the photo key list on a pet profile
func (pc *PetController) HandleUpdatePhotos(w http.ResponseWriter, r *http.Request) {
	petID := mux.Vars(r)["petId"]

	var request struct {
		Photos []string `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if err := pc.Pets.UpdatePhotos(r.Context(), petID, request.Photos); err != nil {
		http.Error(w, `{"error": "Failed to update photos"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
