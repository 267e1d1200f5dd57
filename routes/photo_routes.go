package routes

import (
	"pawlink_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterPhotoRoutes sets up presigned-URL routes under /api/photos
func RegisterPhotoRoutes(r *mux.Router, photos controllers.PhotoAPI) {
	controller := controllers.NewPhotoController(photos)

	photoRouter := r.PathPrefix("/api/photos").Subrouter()
	photoRouter.HandleFunc("/upload-url", controller.HandleUploadURL).Methods("POST")
	photoRouter.HandleFunc("/read-url", controller.HandleReadURL).Methods("POST")
}
