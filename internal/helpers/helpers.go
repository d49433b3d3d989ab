// Package helpers holds the small formatting and ID functions shared by the
// chat handlers and models.
package helpers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	timeLayout     = "3:04 PM"
	dateLayout     = "1/2/2006"
	longDateLayout = "January 2, 2006"
)

// FormatTime renders t as "3:45 PM".
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// FormatDate renders t as "1/5/2024".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ChatTitle renders the default title for a chat started at t,
// e.g. "Chat with AI – January 5, 2024 at 3:45 PM".
func ChatTitle(t time.Time) string {
	return fmt.Sprintf("Chat with AI – %s at %s", t.Format(longDateLayout), FormatTime(t))
}

func CurrentTime() string {
	return FormatTime(time.Now())
}

func CurrentDate() string {
	return FormatDate(time.Now())
}

func GenerateChatTitle() string {
	return ChatTitle(time.Now())
}

// GenerateID returns a random (v4) UUID string.
func GenerateID() string {
	return uuid.NewString()
}
