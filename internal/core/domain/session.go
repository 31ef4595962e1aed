package domain

import (
	"errors"
	"time"
)

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

var ErrInvalidSession = errors.New("invalid session")

// Turn is one message in a conversation transcript. Never mutated after creation.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session binds an opaque token to a user identity and a bounded transcript.
// Sessions live in process memory only and die with the process.
type Session struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeen   time.Time `json:"last_seen"`
	Transcript []Turn    `json:"transcript"`
}
