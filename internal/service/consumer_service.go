package service

import (
	"context"
	"encoding/json"
	"fmt"

	"recados-be/internal/dto"
	"recados-be/internal/pkg/logger"
	"recados-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
)

const NoteReceivedMessage = "note_received"

// RealtimeSender pushes a message to the live sessions of a person.
type RealtimeSender interface {
	SendToPerson(ctx context.Context, personID int64, msgType string, data interface{}) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	emailService mailer.IEmailService
	realtime     RealtimeSender
	logger       logger.ILogger
}

// NewConsumerService delivers queued notes by email and, when realtime is
// not nil, to the recipient's open sessions.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	emailService mailer.IEmailService,
	realtime RealtimeSender,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		emailService: emailService,
		realtime:     realtime,
		logger:       log,
	}
}

// Consume subscribes and returns; messages are handled on a goroutine until
// ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: delivery is best effort and never retried.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.NoteDeliveryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal delivery", map[string]interface{}{"error": err})
		return
	}

	subject := fmt.Sprintf("You received a note from %s - %s", payload.SenderName, payload.SenderEmail)
	if err := cs.emailService.SendEmail(payload.RecipientEmail, subject, payload.Text); err != nil {
		cs.logger.Warn("ConsumerService", "Failed to email note", map[string]interface{}{
			"note_id": payload.NoteId,
			"to":      payload.RecipientEmail,
			"error":   err.Error(),
		})
	} else {
		cs.logger.Info("ConsumerService", "Note emailed", map[string]interface{}{"note_id": payload.NoteId})
	}

	if cs.realtime == nil {
		return
	}
	err := cs.realtime.SendToPerson(ctx, payload.RecipientId, NoteReceivedMessage, map[string]interface{}{
		"noteId": payload.NoteId,
		"text":   payload.Text,
		"sender": dto.ParticipantResponse{Id: payload.SenderId, Name: payload.SenderName},
		"date":   payload.SentAt,
	})
	if err != nil {
		cs.logger.Warn("ConsumerService", "Failed to push note to sessions", map[string]interface{}{
			"note_id": payload.NoteId,
			"error":   err.Error(),
		})
	}
}
