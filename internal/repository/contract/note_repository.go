package contract

import (
	"context"

	"recados-be/internal/entity"
	"recados-be/internal/repository/specification"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error // gorm.ErrRecordNotFound when the row is gone
	Delete(ctx context.Context, id int64) error
	DeleteByParticipant(ctx context.Context, personId int64) error // sent or received
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
}
