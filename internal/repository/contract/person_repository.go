package contract

import (
	"context"

	"recados-be/internal/entity"
	"recados-be/internal/repository/specification"
)

type PersonRepository interface {
	Create(ctx context.Context, person *entity.Person) error
	Update(ctx context.Context, person *entity.Person) error // gorm.ErrRecordNotFound when the row is gone
	Delete(ctx context.Context, id int64) error
	FindById(ctx context.Context, id int64) (*entity.Person, error) // nil when absent
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Person, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Person, error)
}
