package unitofwork

import (
	"context"

	"recados-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PersonRepository() contract.PersonRepository
	NoteRepository() contract.NoteRepository
}
