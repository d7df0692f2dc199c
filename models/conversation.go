package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is the single message thread between a therapist's user
// account and a client's user account.
type Conversation struct {
	gorm.Model
	TherapistUserID uint      `json:"therapist_user_id" gorm:"index;uniqueIndex:idx_conversation_pair"`
	TherapistUser   User      `json:"therapist_user" gorm:"foreignKey:TherapistUserID"`
	ClientUserID    uint      `json:"client_user_id" gorm:"index;uniqueIndex:idx_conversation_pair"`
	ClientUser      User      `json:"client_user" gorm:"foreignKey:ClientUserID"`
	Messages        []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// Message is immutable once created; ordering is by timestamp.
type Message struct {
	gorm.Model
	ConversationID uint      `json:"conversation_id" gorm:"index"`
	AuthorID       uint      `json:"author_id" gorm:"index"`
	Author         User      `json:"author" gorm:"foreignKey:AuthorID"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}
