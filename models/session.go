package models

import (
	"fmt"
	"time"
)

// titleSnippetLen is the number of leading prompt runes kept in a session title.
const titleSnippetLen = 30

// ChatSession buckets one user's conversation for a single calendar day.
type ChatSession struct {
	ID                 int64     `json:"session_id" db:"id"`
	UserID             int64     `json:"user_id" db:"user_id"`
	Title              string    `json:"title" db:"title"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	ExpiresAt          time.Time `json:"expires_at" db:"expires_at"`
	DeletionEligibleAt time.Time `json:"deletion_eligible_at" db:"deletion_eligible_at"`
	IsDeleted          bool      `json:"is_deleted" db:"is_deleted"`
}

// ChatMessage is one turn inside a session. Messages are immutable once
// written; assistant messages always follow the user message that prompted
// them.
type ChatMessage struct {
	ID            int64     `json:"message_id" db:"id"`
	SessionID     int64     `json:"session_id" db:"session_id"`
	Content       string    `json:"content" db:"content"`
	IsUserMessage bool      `json:"is_user_message" db:"is_user_message"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
}

// SessionTitle derives the title for a new daily session from its seed
// prompt: the first 30 characters of the prompt (with an ellipsis if
// truncated) plus a human-readable date label.
func SessionTitle(seedPrompt string, day time.Time) string {
	snippet := seedPrompt
	if runes := []rune(seedPrompt); len(runes) > titleSnippetLen {
		snippet = string(runes[:titleSnippetLen]) + "..."
	}
	return fmt.Sprintf("%s - Daily Chat: %s", snippet, day.Format("2006-01-02"))
}

// DayWindow returns the inclusive [00:00:00, 23:59:59] bounds of the calendar
// day containing t, in t's location.
func DayWindow(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
	return start, end
}

// TranscriptMessage is the read-model projection of a ChatMessage.
type TranscriptMessage struct {
	Content       string `json:"content"`
	IsUserMessage bool   `json:"is_user_message"`
}

// SessionTranscript is one session with its ordered messages.
type SessionTranscript struct {
	SessionID int64               `json:"session_id"`
	Title     string              `json:"title"`
	Messages  []TranscriptMessage `json:"messages"`
}

// ChatHistory is every session transcript a user owns.
type ChatHistory struct {
	UserID   int64               `json:"user_id"`
	Username string              `json:"username"`
	Sessions []SessionTranscript `json:"sessions"`
}
