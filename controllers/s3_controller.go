package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

// PhotoAPI issues presigned URLs for pet photo storage
type PhotoAPI interface {
	GenerateUploadURL(ctx context.Context, fileName, fileType string) (string, string, error)
	GenerateReadURL(ctx context.Context, key string) (string, error)
}

// PhotoController handles presigned-URL requests for pet photos
type PhotoController struct {
	Photos PhotoAPI
}

// NewPhotoController creates a new PhotoController instance
func NewPhotoController(photos PhotoAPI) *PhotoController {
	return &PhotoController{Photos: photos}
}

// HandleUploadURL generates a presigned URL for uploading a photo
func (pc *PhotoController) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if payload.FileName == "" || payload.FileType == "" {
		http.Error(w, `{"error": "Missing required fields: fileName or fileType"}`, http.StatusBadRequest)
		return
	}

	url, key, err := pc.Photos.GenerateUploadURL(r.Context(), payload.FileName, payload.FileType)
	if err != nil {
		log.Printf("❌ Error generating upload URL: %v", err)
		http.Error(w, `{"error": "Failed to generate upload URL"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

// HandleReadURL generates a presigned URL for reading a stored photo
func (pc *PhotoController) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	url, err := pc.Photos.GenerateReadURL(r.Context(), payload.Key)
	if err != nil {
		http.Error(w, `{"error": "Failed to generate read URL"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
