package service

import (
	"context"
	"errors"
	"sync"

	"recados-be/internal/dto"
	"recados-be/internal/entity"
	"recados-be/internal/repository/contract"
	"recados-be/internal/repository/specification"
	"recados-be/internal/repository/unitofwork"
	"recados-be/pkg/events"
)

type fakeNotifier struct {
	sent chan dto.NoteDeliveryMessage
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan dto.NoteDeliveryMessage, 16)}
}

func (f *fakeNotifier) Notify(ctx context.Context, msg dto.NoteDeliveryMessage) error {
	f.sent <- msg
	return f.err
}

type fakeEvents struct {
	mu    sync.Mutex
	types []string
}

func (f *fakeEvents) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, event.EventType())
	return errors.New("broker unavailable")
}

func (f *fakeEvents) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.types...)
}

// stalledEvents holds every Publish until release is closed.
type stalledEvents struct {
	started chan context.Context
	release chan struct{}
}

func newStalledEvents() *stalledEvents {
	return &stalledEvents{started: make(chan context.Context, 4), release: make(chan struct{})}
}

func (f *stalledEvents) Publish(ctx context.Context, event events.Event) error {
	f.started <- ctx
	<-f.release
	return nil
}

type sentEmail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent chan sentEmail
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan sentEmail, 16)}
}

func (f *fakeMailer) SendEmail(to, subject, body string) error {
	f.sent <- sentEmail{to: to, subject: subject, body: body}
	return f.err
}

type pushed struct {
	personID int64
	msgType  string
}

type fakeRealtime struct {
	sent chan pushed
}

func (f *fakeRealtime) SendToPerson(ctx context.Context, personID int64, msgType string, data interface{}) error {
	f.sent <- pushed{personID: personID, msgType: msgType}
	return nil
}

type memoryPictures struct {
	saved map[string][]byte
}

func (m *memoryPictures) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[name] = data
	return "/pictures/" + name, nil
}

// deletingFactory removes every note right after it is loaded, the way a
// concurrent Remove by its sender would.
type deletingFactory struct {
	unitofwork.RepositoryFactory
}

func (f deletingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return deletingUow{f.RepositoryFactory.NewUnitOfWork(ctx)}
}

type deletingUow struct {
	unitofwork.UnitOfWork
}

func (u deletingUow) NoteRepository() contract.NoteRepository {
	return deletingNotes{u.UnitOfWork.NoteRepository()}
}

type deletingNotes struct {
	contract.NoteRepository
}

func (r deletingNotes) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	note, err := r.NoteRepository.FindOne(ctx, specs...)
	if err != nil || note == nil {
		return note, err
	}
	return note, r.NoteRepository.Delete(ctx, note.Id)
}
