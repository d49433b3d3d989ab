package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/markbates/goth/gothic"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/auth"
	"github.com/thecodedsurveyor/ai-chat-sub003/models"
	"gorm.io/gorm"
)

func UserLoginHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	user, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		log.Println("OAuth callback failed:", err)
		http.Error(w, "Authentication failed", http.StatusUnauthorized)
		return
	}

	dbUser, err := findOrCreateUser(db.WithContext(r.Context()), user.Name, user.Email)
	if err != nil {
		log.Println("Database error:", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	if _, err := auth.StartSession(w, r, db, dbUser.ID); err != nil {
		log.Println("Failed to save session:", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func findOrCreateUser(db *gorm.DB, name, email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{Name: name, Email: email}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func LogoutHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	if err := auth.EndSession(w, r, db); err != nil {
		log.Println("Failed to end session:", err)
	}
	gothic.Logout(w, r)
	w.WriteHeader(http.StatusNoContent)
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ChatCount int64  `json:"chat_count"`
	Images    int64  `json:"images"`
}

func GetUserHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	db = db.WithContext(r.Context())

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	res := userResponse{ID: user.ID, Name: user.Name, Email: user.Email}

	var analytics models.ChatAnalytics
	if err := db.Where("user_id = ?", id).Limit(1).Find(&analytics).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	res.ChatCount = analytics.ChatCount

	if err := db.Model(&models.Image{}).Where("user_id = ?", id).Count(&res.Images).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
