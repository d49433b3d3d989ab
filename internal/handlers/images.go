package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/auth"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/helpers"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/storage"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/upload"
	"github.com/thecodedsurveyor/ai-chat-sub003/models"
	"gorm.io/gorm"
)

// UploadImageHandler forwards the buffer validated by upload.Single to
// object storage and records it.
func UploadImageHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB, bucket *storage.Bucket) {
	// Grab user ID from the middleware context
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	file, ok := upload.FromContext(r.Context())
	if !ok {
		http.Error(w, "No image provided", http.StatusBadRequest)
		return
	}

	imageID := helpers.GenerateID()
	key := fmt.Sprintf("images/%s/originals/%s_%s", userID, imageID, file.OriginalName)

	etag, err := bucket.Put(r.Context(), key, file.MimeType, file.Buffer)
	if err != nil {
		log.Println("Failed to upload image to R2:", err)
		http.Error(w, "Failed to upload image", http.StatusInternalServerError)
		return
	}
	log.Printf("Image uploaded to R2: %s, ETag: %s\n", key, etag)

	image := &models.Image{
		Model:     models.Model{ID: imageID},
		UserID:    &userID,
		Filename:  file.OriginalName,
		ObjectKey: key,
		MimeType:  file.MimeType,
		Size:      file.Size,
	}
	if err := db.WithContext(r.Context()).Create(image).Error; err != nil {
		log.Println("Error adding image to database:", err)
		http.Error(w, "Error adding image to database", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Image uploaded successfully",
		"id":      image.ID,
		"url":     bucket.URL(key),
	})
}

func GetImagesForUserHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB, bucket *storage.Bucket) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	var images []models.Image
	if err := db.WithContext(r.Context()).Where("user_id = ?", userID).Order("created_at").Find(&images).Error; err != nil {
		log.Println("Error fetching images:", err)
		http.Error(w, "Error fetching images", http.StatusInternalServerError)
		return
	}

	imageURLs := make([]string, 0, len(images))
	for _, image := range images {
		imageURLs = append(imageURLs, bucket.URL(image.ObjectKey))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":    "Fetched images successfully",
		"image_urls": imageURLs,
	})
}

func GetImageByIDHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB, bucket *storage.Bucket) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	// Only the owner may see an image
	var image models.Image
	if err := db.WithContext(r.Context()).Where("id = ? AND user_id = ?", id, userID).First(&image).Error; err != nil {
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Fetched image successfully",
		"url":     bucket.URL(image.ObjectKey),
	})
}
