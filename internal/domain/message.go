package domain

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type MessageKind string

const (
	KindText       MessageKind = "text"
	KindTimer      MessageKind = "timer"
	KindFlashcard  MessageKind = "flashcard"
	KindMotivation MessageKind = "motivation"
	KindNotice     MessageKind = "notice"
)

// CardFace is the pair of sides attached to a flashcard chat message.
type CardFace struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ChatMessage is one entry in the coaching transcript.
type ChatMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Kind      MessageKind `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Flashcard *CardFace   `json:"flashcard,omitempty"`
}
