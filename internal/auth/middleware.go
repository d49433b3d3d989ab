package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/markbates/goth/gothic"
	"github.com/thecodedsurveyor/ai-chat-sub003/models"
	"gorm.io/gorm"
)

const (
	SessionName  = "gothic_session"
	sessionIDKey = "session_id"

	SessionTTL = 30 * 24 * time.Hour
)

var ErrNoSession = errors.New("no active session")

type contextKey string

const userIDKey contextKey = "userID"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// UserMiddleware resolves the session cookie to a live Session row and puts
// its user ID on the request context.
func UserMiddleware(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := CurrentSession(r, db)
			if err != nil {
				http.Error(w, "Not Authorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), session.UserID)))
		})
	}
}

// CurrentSession loads the unexpired session named by the request cookie.
func CurrentSession(r *http.Request, db *gorm.DB) (*models.Session, error) {
	cookie, err := gothic.Store.Get(r, SessionName)
	if err != nil {
		return nil, err
	}
	sessionID, ok := cookie.Values[sessionIDKey].(string)
	if !ok || sessionID == "" {
		return nil, ErrNoSession
	}

	var session models.Session
	err = db.WithContext(r.Context()).
		Where("id = ? AND expires_at > ?", sessionID, time.Now().UTC()).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &session, nil
}

// StartSession persists a session for userID and writes its ID to the
// cookie.
func StartSession(w http.ResponseWriter, r *http.Request, db *gorm.DB, userID string) (*models.Session, error) {
	cookie, err := gothic.Store.Get(r, SessionName)
	if err != nil && cookie == nil {
		return nil, err
	}

	session := &models.Session{
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(SessionTTL),
	}
	if err := db.WithContext(r.Context()).Create(session).Error; err != nil {
		return nil, err
	}

	cookie.Values[sessionIDKey] = session.ID
	if err := cookie.Save(r, w); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession deletes the current session row and expires the cookie.
func EndSession(w http.ResponseWriter, r *http.Request, db *gorm.DB) error {
	cookie, err := gothic.Store.Get(r, SessionName)
	if err != nil && cookie == nil {
		return err
	}
	if sessionID, ok := cookie.Values[sessionIDKey].(string); ok && sessionID != "" {
		if err := db.WithContext(r.Context()).Delete(&models.Session{}, "id = ?", sessionID).Error; err != nil {
			return err
		}
	}

	cookie.Options.MaxAge = -1
	delete(cookie.Values, sessionIDKey)
	return cookie.Save(r, w)
}
