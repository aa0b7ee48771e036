package dto

import (
	"time"
)

type CreateNoteRequest struct {
	Text        string `json:"text" validate:"required,min=5,max=255"`
	RecipientId int64  `json:"recipientId" validate:"required,gt=0"`
}

// UpdateNoteRequest is a partial update: nil fields are left untouched.
type UpdateNoteRequest struct {
	Text *string `json:"text" validate:"omitempty,min=5,max=255"`
	Read *bool   `json:"read"`
}

// ParticipantResponse is the reduced view of a Person embedded in a note.
type ParticipantResponse struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type NoteResponse struct {
	Id        int64               `json:"id"`
	Text      string              `json:"text"`
	Sender    ParticipantResponse `json:"sender"`
	Recipient ParticipantResponse `json:"recipient"`
	Read      bool                `json:"read"`
	Date      time.Time           `json:"date"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// NoteDeliveryMessage is queued after a note is persisted so that the
// recipient can be notified out of band.
type NoteDeliveryMessage struct {
	NoteId         int64     `json:"note_id"`
	Text           string    `json:"text"`
	SenderId       int64     `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	SenderEmail    string    `json:"sender_email"`
	RecipientId    int64     `json:"recipient_id"`
	RecipientEmail string    `json:"recipient_email"`
	SentAt         time.Time `json:"sent_at"`
}
