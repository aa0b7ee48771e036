package implementation

import (
	"context"
	"errors"
	"time"

	"recados-be/internal/entity"
	"recados-be/internal/mapper"
	"recados-be/internal/model"
	"recados-be/internal/repository/contract"
	"recados-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PersonRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PersonMapper
}

func NewPersonRepository(db *gorm.DB) contract.PersonRepository {
	return &PersonRepositoryImpl{
		db:     db,
		mapper: mapper.NewPersonMapper(),
	}
}

func (r *PersonRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PersonRepositoryImpl) Create(ctx context.Context, person *entity.Person) error {
	m := r.mapper.ToModel(person)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*person = *r.mapper.ToEntity(m)
	return nil
}

// Update never re-inserts a removed person: zero matched rows is
// gorm.ErrRecordNotFound. Email and created_at are immutable.
func (r *PersonRepositoryImpl) Update(ctx context.Context, person *entity.Person) error {
	m := r.mapper.ToModel(person)
	m.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.Person{Id: person.Id}).
		Select("name", "password_hash", "route_policies", "active", "picture", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	person.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *PersonRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Person{}, id).Error
}

func (r *PersonRepositoryImpl) FindById(ctx context.Context, id int64) (*entity.Person, error) {
	return r.FindOne(ctx, specification.ByID{ID: id})
}

func (r *PersonRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Person, error) {
	var m model.Person
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PersonRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Person, error) {
	var models []*model.Person
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
