package models

import (
	"time"

	"github.com/thecodedsurveyor/ai-chat-sub003/internal/helpers"
	"gorm.io/gorm"
)

// Model is gorm.Model with a UUID string key.
type Model struct {
	ID        string `gorm:"type:uuid;primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = helpers.GenerateID()
	}
	return nil
}

type User struct {
	Model
	Name  string `gorm:"size:255;not null"`
	Email string `gorm:"size:255;not null;unique"`
}

// Session is a login session; the cookie only carries its ID.
type Session struct {
	Model
	UserID    string    `gorm:"type:uuid;not null;index"`
	User      *User     `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE;"`
	ExpiresAt time.Time `gorm:"not null"`
}

type Chat struct {
	Model
	UserID string `gorm:"type:uuid;not null;index"`
	User   *User  `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE;"`
	Title  string `gorm:"size:255;not null"`
}

type Conversation struct {
	Model
	ChatID string `gorm:"type:uuid;not null;index"`
	Chat   *Chat  `json:"chat,omitempty" gorm:"constraint:OnUpdate:CASCADE;"`
	UserID string `gorm:"type:uuid;not null;index"`
	User   *User  `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE;"`
}

type Message struct {
	Model
	ConversationID string        `gorm:"type:uuid;not null;index"`
	Conversation   *Conversation `json:"conversation,omitempty" gorm:"constraint:OnUpdate:CASCADE;"`
	Role           string        `gorm:"size:50;not null"`
	Content        string        `gorm:"type:text;not null"`
}

// ChatAnalytics holds per-user usage counters.
type ChatAnalytics struct {
	Model
	UserID       string `gorm:"type:uuid;not null;uniqueIndex"`
	User         *User  `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE;"`
	ChatCount    int64  `gorm:"not null;default:0"`
	MessageCount int64  `gorm:"not null;default:0"`
	LastActiveAt time.Time
}

func (ChatAnalytics) TableName() string {
	return "chat_analytics"
}

type Image struct {
	Model
	UserID    *string `gorm:"type:uuid;index"`
	User      *User   `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Filename  string
	ObjectKey string
	MimeType  string
	Size      int64
}

// All lists every model in dependency order for migrations.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Chat{},
		&Conversation{},
		&Message{},
		&ChatAnalytics{},
		&Image{},
	}
}
