package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"recados-be/internal/dto"
	"recados-be/internal/entity"
	"recados-be/internal/pkg/apperror"
	"recados-be/internal/pkg/hashing"
	"recados-be/internal/pkg/logger"
	"recados-be/internal/pkg/storage"
	"recados-be/internal/repository/specification"
	"recados-be/internal/repository/unitofwork"
	"recados-be/pkg/events"

	"gorm.io/gorm"
)

const (
	MinPictureSize = 1024
	MaxPictureSize = 10 * 1024 * 1024
)

var pictureExtensions = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type IPersonService interface {
	PersonLookup
	Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error)
	FindAll(ctx context.Context) ([]*dto.PersonResponse, error)
	FindOne(ctx context.Context, id int64) (*dto.PersonResponse, error)
	Update(ctx context.Context, callerId int64, id int64, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error)
	Remove(ctx context.Context, callerId int64, id int64) (*dto.PersonResponse, error)
	UploadPicture(ctx context.Context, callerId int64, data []byte) (*dto.PersonResponse, error)
}

type personService struct {
	uowFactory     unitofwork.RepositoryFactory
	hasher         hashing.IHasher
	pictures       storage.PictureStorage
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewPersonService(
	uowFactory unitofwork.RepositoryFactory,
	hasher hashing.IHasher,
	pictures storage.PictureStorage,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IPersonService {
	return &personService{
		uowFactory:     uowFactory,
		hasher:         hasher,
		pictures:       pictures,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *personService) FindById(ctx context.Context, id int64) (*entity.Person, error) {
	return s.uowFactory.NewUnitOfWork(ctx).PersonRepository().FindById(ctx, id)
}

func (s *personService) Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.PersonRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	policies := make([]entity.RoutePolicy, 0, len(req.RoutePolicies))
	for _, p := range req.RoutePolicies {
		policies = append(policies, entity.RoutePolicy(p))
	}

	person := &entity.Person{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		RoutePolicies: policies,
		Active:        true,
	}
	if err := uow.PersonRepository().Create(ctx, person); err != nil {
		// lost a race with another registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, err
	}

	s.publishEvent(ctx, events.PersonCreated, person)

	return toPersonResponse(person), nil
}

func (s *personService) FindAll(ctx context.Context) ([]*dto.PersonResponse, error) {
	persons, err := s.uowFactory.NewUnitOfWork(ctx).PersonRepository().FindAll(ctx,
		specification.OrderBy{Field: "id", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PersonResponse, 0, len(persons))
	for _, p := range persons {
		res = append(res, toPersonResponse(p))
	}
	return res, nil
}

func (s *personService) FindOne(ctx context.Context, id int64) (*dto.PersonResponse, error) {
	person, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPersonResponse(person), nil
}

func (s *personService) find(ctx context.Context, id int64) (*entity.Person, error) {
	person, err := s.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	return apperror.RequireFound(person, "person not found")
}

func (s *personService) Update(ctx context.Context, callerId int64, id int64, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error) {
	person, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if person.Id != callerId {
		return nil, apperror.Forbidden("you are not this person")
	}

	if req.Name != nil {
		person.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		person.PasswordHash = hash
	}

	if err := s.save(ctx, person); err != nil {
		return nil, err
	}
	return toPersonResponse(person), nil
}

// Remove deletes the person together with every note they sent or received.
func (s *personService) Remove(ctx context.Context, callerId int64, id int64) (*dto.PersonResponse, error) {
	person, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if person.Id != callerId {
		return nil, apperror.Forbidden("you are not this person")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().DeleteByParticipant(ctx, person.Id); err != nil {
		return nil, err
	}
	if err := uow.PersonRepository().Delete(ctx, person.Id); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return toPersonResponse(person), nil
}

// UploadPicture stores the caller's picture as <callerId>.<ext>. The type is
// sniffed from the content, not trusted from the upload.
func (s *personService) UploadPicture(ctx context.Context, callerId int64, data []byte) (*dto.PersonResponse, error) {
	if len(data) < MinPictureSize {
		return nil, apperror.BadRequest("file too small")
	}
	if len(data) > MaxPictureSize {
		return nil, apperror.Validation("file too large (max 10MB)")
	}

	contentType := http.DetectContentType(data)
	ext, ok := pictureExtensions[contentType]
	if !ok {
		return nil, apperror.Validation("file must be a jpeg, png, gif or webp image")
	}

	person, err := s.find(ctx, callerId)
	if err != nil {
		return nil, err
	}

	location, err := s.pictures.Save(ctx, fmt.Sprintf("%d.%s", callerId, ext), contentType, data)
	if err != nil {
		return nil, err
	}

	person.Picture = location
	if err := s.save(ctx, person); err != nil {
		return nil, err
	}
	return toPersonResponse(person), nil
}

// save maps a person removed since it was loaded to NotFound.
func (s *personService) save(ctx context.Context, person *entity.Person) error {
	err := s.uowFactory.NewUnitOfWork(ctx).PersonRepository().Update(ctx, person)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("person not found")
	}
	return err
}

func (s *personService) publishEvent(ctx context.Context, eventType string, person *entity.Person) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.New(eventType, map[string]interface{}{
		"person_id": person.Id,
		"email":     person.Email,
	})

	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PersonService", "Failed to publish event", map[string]interface{}{
				"type":  eventType,
				"error": err.Error(),
			})
		}
	}()
}

func toPersonResponse(p *entity.Person) *dto.PersonResponse {
	policies := make([]string, len(p.RoutePolicies))
	for i, rp := range p.RoutePolicies {
		policies[i] = string(rp)
	}
	return &dto.PersonResponse{
		Id:            p.Id,
		Name:          p.Name,
		Email:         p.Email,
		RoutePolicies: policies,
		Active:        p.Active,
		Picture:       p.Picture,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
