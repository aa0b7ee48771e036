package service

import (
	"context"
	"errors"
	"time"

	"recados-be/internal/dto"
	"recados-be/internal/entity"
	"recados-be/internal/pkg/apperror"
	"recados-be/internal/pkg/logger"
	"recados-be/internal/repository/specification"
	"recados-be/internal/repository/unitofwork"
	"recados-be/pkg/events"

	"gorm.io/gorm"
)

// PersonLookup is the read-only view of persons the note service needs.
// FindById returns (nil, nil) when the person does not exist.
type PersonLookup interface {
	FindById(ctx context.Context, id int64) (*entity.Person, error)
}

// NoteNotifier hands a persisted note over for out-of-band delivery.
type NoteNotifier interface {
	Notify(ctx context.Context, msg dto.NoteDeliveryMessage) error
}

type INoteService interface {
	List(ctx context.Context, page dto.PaginationRequest) ([]*dto.NoteResponse, error)
	Get(ctx context.Context, id int64) (*dto.NoteResponse, error)
	Create(ctx context.Context, callerId int64, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, callerId int64, id int64, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Remove(ctx context.Context, callerId int64, id int64) (*dto.NoteResponse, error)
}

type noteService struct {
	uowFactory     unitofwork.RepositoryFactory
	persons        PersonLookup
	notifier       NoteNotifier
	eventPublisher events.Publisher
	logger         logger.ILogger
	now            func() time.Time
}

// NewNoteService wires the note exchange. eventPublisher may be nil.
func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	persons PersonLookup,
	notifier NoteNotifier,
	eventPublisher events.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:     uowFactory,
		persons:        persons,
		notifier:       notifier,
		eventPublisher: eventPublisher,
		logger:         log,
		now:            time.Now,
	}
}

func (s *noteService) List(ctx context.Context, page dto.PaginationRequest) ([]*dto.NoteResponse, error) {
	limit, offset := page.Resolve()
	if limit < 1 || offset < 0 {
		return nil, apperror.Validation("limit must be at least 1 and offset must not be negative")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.WithParticipants{},
		specification.OrderBy{Field: "id", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		res = append(res, toNoteResponse(note))
	}
	return res, nil
}

func (s *noteService) Get(ctx context.Context, id int64) (*dto.NoteResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (s *noteService) find(ctx context.Context, id int64) (*entity.Note, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.WithParticipants{},
	)
	if err != nil {
		return nil, err
	}
	return apperror.RequireFound(note, "Note not found")
}

func (s *noteService) Create(ctx context.Context, callerId int64, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	sender, err := s.persons.FindById(ctx, callerId)
	if err != nil {
		return nil, err
	}
	recipient, err := s.persons.FindById(ctx, req.RecipientId)
	if err != nil {
		return nil, err
	}

	if sender, err = apperror.RequireFound(sender, "sender not found"); err != nil {
		return nil, err
	}
	if recipient, err = apperror.RequireFound(recipient, "recipient not found"); err != nil {
		return nil, err
	}

	note := &entity.Note{
		Text:        req.Text,
		SenderId:    sender.Id,
		Sender:      sender,
		RecipientId: recipient.Id,
		Recipient:   recipient,
		Read:        false,
		Date:        s.now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return nil, err
	}

	s.dispatchDelivery(ctx, dto.NoteDeliveryMessage{
		NoteId:         note.Id,
		Text:           note.Text,
		SenderId:       sender.Id,
		SenderName:     sender.Name,
		SenderEmail:    sender.Email,
		RecipientId:    recipient.Id,
		RecipientEmail: recipient.Email,
		SentAt:         note.Date,
	})
	s.publishEvent(ctx, events.NoteCreated, note)

	return toNoteResponse(note), nil
}

func (s *noteService) Update(ctx context.Context, callerId int64, id int64, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !note.IsSentBy(callerId) {
		return nil, apperror.Forbidden("not your note")
	}

	if req.Text != nil {
		note.Text = *req.Text
	}
	if req.Read != nil {
		note.Read = *req.Read
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		// removed by its sender after we loaded it
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Note not found")
		}
		return nil, err
	}

	s.publishEvent(ctx, events.NoteUpdated, note)
	return toNoteResponse(note), nil
}

func (s *noteService) Remove(ctx context.Context, callerId int64, id int64) (*dto.NoteResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !note.IsSentBy(callerId) {
		return nil, apperror.Forbidden("not your note")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NoteDeleted, note)
	return toNoteResponse(note), nil
}

// dispatchDelivery never blocks the caller and never fails the request.
func (s *noteService) dispatchDelivery(ctx context.Context, msg dto.NoteDeliveryMessage) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.Notify(ctx, msg); err != nil {
			s.logger.Warn("NoteService", "Note delivery dispatch failed", map[string]interface{}{
				"note_id": msg.NoteId,
				"error":   err.Error(),
			})
		}
	}()
}

func (s *noteService) publishEvent(ctx context.Context, eventType string, note *entity.Note) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.New(eventType, map[string]interface{}{
		"note_id":      note.Id,
		"sender_id":    note.SenderId,
		"recipient_id": note.RecipientId,
		"read":         note.Read,
	})

	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("NoteService", "Failed to publish event", map[string]interface{}{
				"type":  eventType,
				"error": err.Error(),
			})
		}
	}()
}

func toParticipant(id int64, p *entity.Person) dto.ParticipantResponse {
	if p == nil {
		return dto.ParticipantResponse{Id: id}
	}
	return dto.ParticipantResponse{Id: p.Id, Name: p.Name}
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:        note.Id,
		Text:      note.Text,
		Sender:    toParticipant(note.SenderId, note.Sender),
		Recipient: toParticipant(note.RecipientId, note.Recipient),
		Read:      note.Read,
		Date:      note.Date,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
