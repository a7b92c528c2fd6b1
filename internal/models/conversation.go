package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// MaxInterviewQuestions caps the number of AI turns before the interview is
// closed with a final feedback message.
const MaxInterviewQuestions = 10

type ChatMessage struct {
	Sender string `bson:"sender" json:"sender"` // "user" | "ai"
	Text   string `bson:"text" json:"text"`
}

// Conversation is one interview-practice session. SessionID is the only
// external handle; Turn guards concurrent message-list replacement.
type Conversation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    string             `bson:"user_id" json:"user_id"`

	JobRole string `bson:"job_role" json:"job_role"`
	CVText  string `bson:"cv_text" json:"-"`
	CVID    string `bson:"cv_id,omitempty" json:"cv_id,omitempty"`

	Messages []ChatMessage `bson:"messages" json:"messages"`

	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	Finished     bool      `bson:"finished" json:"finished"`
	MaxQuestions int       `bson:"max_questions" json:"max_questions"`

	Turn int64 `bson:"turn" json:"-"`
}

// AIMessageCount reports how many turns the interviewer has taken so far.
func (c *Conversation) AIMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Sender == SenderAI {
			n++
		}
	}
	return n
}

// SessionSummary is the listing projection of a conversation.
type SessionSummary struct {
	ID           string    `json:"id"`
	JobRole      string    `json:"job_role"`
	CreatedAt    time.Time `json:"created_at"`
	Finished     bool      `json:"finished"`
	MessageCount int       `json:"message_count"`
}
