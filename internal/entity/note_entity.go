package entity

import (
	"time"
)

// Note is a directed message. Sender and Recipient are only populated when
// the note was loaded together with its participants.
type Note struct {
	Id          int64
	Text        string
	SenderId    int64
	Sender      *Person
	RecipientId int64
	Recipient   *Person
	Read        bool
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (n *Note) IsSentBy(personId int64) bool {
	return n.SenderId == personId
}
