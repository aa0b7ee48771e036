package service

import (
	"context"

	"recados-be/internal/dto"
	"recados-be/internal/entity"
	"recados-be/internal/pkg/apperror"
	"recados-be/internal/pkg/hashing"
	"recados-be/internal/pkg/logger"
	"recados-be/internal/pkg/token"
	"recados-be/internal/repository/specification"
	"recados-be/internal/repository/unitofwork"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPairResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenPairResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	hasher     hashing.IHasher
	tokens     *token.Manager
	logger     logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	hasher hashing.IHasher,
	tokens *token.Manager,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		hasher:     hasher,
		tokens:     tokens,
		logger:     log,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPairResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	person, err := uow.PersonRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}

	// same answer for unknown email and wrong password
	if person == nil || !s.hasher.Compare(req.Password, person.PasswordHash) {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if !person.Active {
		return nil, apperror.Unauthorized("person is not active")
	}

	s.logger.Info("AuthService", "Login", map[string]interface{}{"person_id": person.Id})
	return s.issue(person)
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenPairResponse, error) {
	claims, err := s.tokens.Parse(req.RefreshToken, token.Refresh)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	person, err := s.uowFactory.NewUnitOfWork(ctx).PersonRepository().FindById(ctx, claims.PersonID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, apperror.Unauthorized("person not found")
	}
	if !person.Active {
		return nil, apperror.Unauthorized("person is not active")
	}

	return s.issue(person)
}

func (s *authService) issue(person *entity.Person) (*dto.TokenPairResponse, error) {
	access, err := s.tokens.Generate(person.Id, person.Email, token.Access)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Generate(person.Id, person.Email, token.Refresh)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}
