package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/thecodedsurveyor/ai-chat-sub003/internal/auth"
	"github.com/thecodedsurveyor/ai-chat-sub003/internal/helpers"
	"github.com/thecodedsurveyor/ai-chat-sub003/models"
	"gorm.io/gorm"
)

type chatResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	ConversationID string    `json:"conversation_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateChatHandler opens a chat with a dated default title and its first
// conversation.
func CreateChatHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	chat := models.Chat{UserID: userID, Title: helpers.GenerateChatTitle()}
	conversation := models.Conversation{UserID: userID}
	err := db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		conversation.ChatID = chat.ID
		if err := tx.Create(&conversation).Error; err != nil {
			return err
		}
		return recordChat(tx, userID)
	})
	if err != nil {
		log.Println("Failed to create chat:", err)
		http.Error(w, "Failed to create chat", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(chatResponse{
		ID:             chat.ID,
		Title:          chat.Title,
		ConversationID: conversation.ID,
		CreatedAt:      chat.CreatedAt,
	})
}

func ListChatsHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	var chats []models.Chat
	if err := db.WithContext(r.Context()).Where("user_id = ?", userID).Order("created_at desc").Find(&chats).Error; err != nil {
		log.Println("Error fetching chats:", err)
		http.Error(w, "Error fetching chats", http.StatusInternalServerError)
		return
	}

	res := make([]chatResponse, 0, len(chats))
	for _, c := range chats {
		res = append(res, chatResponse{ID: c.ID, Title: c.Title, CreatedAt: c.CreatedAt})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"chats": res})
}

func recordChat(tx *gorm.DB, userID string) error {
	analytics := models.ChatAnalytics{UserID: userID}
	if err := tx.Where("user_id = ?", userID).FirstOrCreate(&analytics).Error; err != nil {
		return err
	}
	return tx.Model(&analytics).Updates(map[string]any{
		"chat_count":     gorm.Expr("chat_count + ?", 1),
		"last_active_at": time.Now().UTC(),
	}).Error
}
