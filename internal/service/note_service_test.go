package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"recados-be/internal/dto"
	"recados-be/internal/entity"
	"recados-be/internal/pkg/apperror"
	"recados-be/internal/pkg/hashing"
	"recados-be/internal/pkg/logger"
	"recados-be/internal/repository/specification"
	"recados-be/internal/repository/unitofwork"
	"recados-be/internal/testutil"
	"recados-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type noteFixture struct {
	factory  unitofwork.RepositoryFactory
	notes    INoteService
	persons  IPersonService
	notifier *fakeNotifier
	events   *fakeEvents
	alice    *entity.Person
	bob      *entity.Person
}

func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()
	factory, _ := testutil.NewTestFactory(t)
	log := logger.NewNopLogger()

	persons := NewPersonService(factory, hashing.NewBcryptHasher(bcrypt.MinCost), &memoryPictures{}, nil, log)
	notifier := newFakeNotifier()
	evts := &fakeEvents{}

	return &noteFixture{
		factory:  factory,
		notes:    NewNoteService(factory, persons, notifier, evts, log),
		persons:  persons,
		notifier: notifier,
		events:   evts,
		alice:    testutil.SeedPerson(t, factory, "Alice", "a@x.com"),
		bob:      testutil.SeedPerson(t, factory, "Bob", "b@x.com"),
	}
}

func (f *noteFixture) send(t *testing.T, from, to *entity.Person, text string) *dto.NoteResponse {
	t.Helper()
	note, err := f.notes.Create(context.Background(), from.Id, &dto.CreateNoteRequest{Text: text, RecipientId: to.Id})
	require.NoError(t, err)
	return note
}

func (f *noteFixture) countNotes(t *testing.T) int {
	t.Helper()
	all, err := f.factory.NewUnitOfWork(context.Background()).NoteRepository().FindAll(context.Background())
	require.NoError(t, err)
	return len(all)
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool { return &v }

func TestNoteService_CreateShapesAndNotifies(t *testing.T) {
	f := newNoteFixture(t)

	note := f.send(t, f.alice, f.bob, "hello there")

	assert.NotZero(t, note.Id)
	assert.Equal(t, "hello there", note.Text)
	assert.False(t, note.Read)
	assert.Equal(t, dto.ParticipantResponse{Id: f.alice.Id, Name: "Alice"}, note.Sender)
	assert.Equal(t, dto.ParticipantResponse{Id: f.bob.Id, Name: "Bob"}, note.Recipient)
	assert.WithinDuration(t, time.Now(), note.Date, 5*time.Second)

	select {
	case msg := <-f.notifier.sent:
		assert.Equal(t, note.Id, msg.NoteId)
		assert.Equal(t, "b@x.com", msg.RecipientEmail)
		assert.Equal(t, "Alice", msg.SenderName)
		assert.Equal(t, "a@x.com", msg.SenderEmail)
		assert.Equal(t, "hello there", msg.Text)
	case <-time.After(time.Second):
		t.Fatal("delivery was not dispatched")
	}

	assert.Eventually(t, func() bool {
		return len(f.events.published()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{events.NoteCreated}, f.events.published())
}

func TestNoteService_CreateSurvivesNotificationFailure(t *testing.T) {
	f := newNoteFixture(t)
	f.notifier.err = errors.New("smtp down")

	note := f.send(t, f.alice, f.bob, "still stored")
	<-f.notifier.sent

	got, err := f.notes.Get(context.Background(), note.Id)
	require.NoError(t, err)
	assert.Equal(t, "still stored", got.Text)
}

func TestNoteService_CreateMissingParticipants(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	_, err := f.notes.Create(ctx, f.alice.Id, &dto.CreateNoteRequest{Text: "hello there", RecipientId: 999})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "recipient not found", err.Error())

	_, err = f.notes.Create(ctx, 999, &dto.CreateNoteRequest{Text: "hello there", RecipientId: f.bob.Id})
	require.Error(t, err)
	assert.Equal(t, "sender not found", err.Error())

	assert.Equal(t, 0, f.countNotes(t))
	assert.Len(t, f.notifier.sent, 0)
}

func TestNoteService_GetMissing(t *testing.T) {
	f := newNoteFixture(t)

	for _, id := range []int64{0, 1, 42} {
		_, err := f.notes.Get(context.Background(), id)
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
		assert.Equal(t, "Note not found", err.Error())
	}
}

func TestNoteService_OnlySenderMayChangeNote(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	note := f.send(t, f.alice, f.bob, "hello there")

	_, err := f.notes.Update(ctx, f.bob.Id, note.Id, &dto.UpdateNoteRequest{Text: strPtr("hijacked"), Read: boolPtr(true)})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Equal(t, "not your note", err.Error())

	_, err = f.notes.Remove(ctx, f.bob.Id, note.Id)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	unchanged, err := f.notes.Get(ctx, note.Id)
	require.NoError(t, err)
	assert.Equal(t, "hello there", unchanged.Text)
	assert.False(t, unchanged.Read)
}

func TestNoteService_UpdateAppliesOnlyPresentFields(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	note := f.send(t, f.alice, f.bob, "hello there")

	updated, err := f.notes.Update(ctx, f.alice.Id, note.Id, &dto.UpdateNoteRequest{Read: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Read)
	assert.Equal(t, "hello there", updated.Text)
	assert.Equal(t, "Alice", updated.Sender.Name)

	updated, err = f.notes.Update(ctx, f.alice.Id, note.Id, &dto.UpdateNoteRequest{Text: strPtr("changed text")})
	require.NoError(t, err)
	assert.True(t, updated.Read, "read is kept when absent from the patch")
	assert.Equal(t, "changed text", updated.Text)

	updated, err = f.notes.Update(ctx, f.alice.Id, note.Id, &dto.UpdateNoteRequest{Read: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Read)
}

func TestNoteService_UpdateIsIdempotent(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	note := f.send(t, f.alice, f.bob, "hello there")

	patch := &dto.UpdateNoteRequest{Text: strPtr("same text")}
	for i := 0; i < 2; i++ {
		_, err := f.notes.Update(ctx, f.alice.Id, note.Id, patch)
		require.NoError(t, err)

		stored, err := f.factory.NewUnitOfWork(ctx).NoteRepository().FindOne(ctx, specification.ByID{ID: note.Id})
		require.NoError(t, err)
		assert.Equal(t, "same text", stored.Text)
	}
}

func TestNoteService_UpdateMissing(t *testing.T) {
	f := newNoteFixture(t)

	_, err := f.notes.Update(context.Background(), f.alice.Id, 77, &dto.UpdateNoteRequest{Read: boolPtr(true)})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.notes.Remove(context.Background(), f.alice.Id, 77)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestNoteService_UpdateDoesNotRecreateRemovedNote(t *testing.T) {
	f := newNoteFixture(t)
	note := f.send(t, f.alice, f.bob, "hello there")

	racing := NewNoteService(deletingFactory{f.factory}, f.persons, nil, nil, logger.NewNopLogger())
	_, err := racing.Update(context.Background(), f.alice.Id, note.Id, &dto.UpdateNoteRequest{Read: boolPtr(true)})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.EqualError(t, err, "Note not found")
	assert.Equal(t, 0, f.countNotes(t))
}

func TestNoteService_RemoveReturnsSnapshot(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	note := f.send(t, f.alice, f.bob, "hello there")

	removed, err := f.notes.Remove(ctx, f.alice.Id, note.Id)
	require.NoError(t, err)
	assert.Equal(t, note.Id, removed.Id)
	assert.Equal(t, "hello there", removed.Text)
	assert.Equal(t, "Bob", removed.Recipient.Name)

	_, err = f.notes.Get(ctx, note.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestNoteService_ListPagination(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 4; i++ {
		ids = append(ids, f.send(t, f.alice, f.bob, fmt.Sprintf("note %d here", i)).Id)
	}

	first, err := f.notes.List(ctx, dto.PaginationRequest{Limit: intPtr(2), Offset: intPtr(0)})
	require.NoError(t, err)
	second, err := f.notes.List(ctx, dto.PaginationRequest{Limit: intPtr(2), Offset: intPtr(2)})
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)

	got := []int64{first[0].Id, first[1].Id, second[0].Id, second[1].Id}
	assert.Equal(t, []int64{ids[3], ids[2], ids[1], ids[0]}, got)
	assert.Equal(t, dto.ParticipantResponse{Id: f.alice.Id, Name: "Alice"}, first[0].Sender)
}

func TestNoteService_ListDefaultsAndBounds(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	empty, err := f.notes.List(ctx, dto.PaginationRequest{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)

	for i := 0; i < 12; i++ {
		f.send(t, f.alice, f.bob, fmt.Sprintf("note %d here", i))
	}

	page, err := f.notes.List(ctx, dto.PaginationRequest{})
	require.NoError(t, err)
	assert.Len(t, page, dto.DefaultPageLimit)

	page, err = f.notes.List(ctx, dto.PaginationRequest{Limit: intPtr(100000)})
	require.NoError(t, err)
	assert.Len(t, page, 12)

	_, err = f.notes.List(ctx, dto.PaginationRequest{Limit: intPtr(0)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.notes.List(ctx, dto.PaginationRequest{Offset: intPtr(-1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestNoteService_EndToEnd(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	a, b := f.alice, f.bob

	note, err := f.notes.Create(ctx, a.Id, &dto.CreateNoteRequest{Text: "hello there", RecipientId: b.Id})
	require.NoError(t, err)
	assert.Equal(t, "hello there", note.Text)
	assert.Equal(t, a.Id, note.Sender.Id)
	assert.Equal(t, b.Id, note.Recipient.Id)
	assert.False(t, note.Read)

	_, err = f.notes.Remove(ctx, b.Id, note.Id)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	read, err := f.notes.Update(ctx, a.Id, note.Id, &dto.UpdateNoteRequest{Read: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, read.Read)
	assert.Equal(t, "hello there", read.Text)
}
