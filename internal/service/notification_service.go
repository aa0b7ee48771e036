package service

import (
	"context"
	"encoding/json"

	"recados-be/internal/dto"
)

// deliveryNotifier queues note deliveries on the in-process bus; the
// consumer service does the actual sending.
type deliveryNotifier struct {
	publisher IPublisherService
}

func NewDeliveryNotifier(publisher IPublisherService) NoteNotifier {
	return &deliveryNotifier{publisher: publisher}
}

func (n *deliveryNotifier) Notify(ctx context.Context, msg dto.NoteDeliveryMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return n.publisher.Publish(ctx, payload)
}
