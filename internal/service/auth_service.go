package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booklog-be/internal/dto"
	"booklog-be/internal/entity"
	"booklog-be/internal/pkg/apperror"
	"booklog-be/internal/repository/specification"
	"booklog-be/internal/repository/unitofwork"
	"booklog-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserDTO, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.UserDTO, error)
	Me(ctx context.Context, identity entity.Identity) (*dto.UserDTO, error)
}

type authService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	guestEmail       string
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, guestEmail string) IAuthService {
	return &authService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		guestEmail:       strings.ToLower(guestEmail),
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserDTO, error) {
	if req.Email == s.guestEmail {
		return nil, apperror.FieldError("email", "is already registered")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.FieldError("email", "is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	hashStr := string(hash)

	now := time.Now()
	user := entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index still decides when two signups race.
	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.FieldError("email", "is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publisherService.Publish(ctx, events.New(EventUserSignedUp, map[string]interface{}{
		"user_id": user.Id.String(),
	}))

	return toUserDTO(&user), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}

	// Unknown email, the guest account and a wrong password all look the same.
	if user == nil || user.IsGuest || user.PasswordHash == nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	return toUserDTO(user), nil
}

func (s *authService) Me(ctx context.Context, identity entity.Identity) (*dto.UserDTO, error) {
	if identity.IsAnonymous() {
		return nil, apperror.Unauthorized("login required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUserID{UserID: identity.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("login required")
	}
	return toUserDTO(user), nil
}

func toUserDTO(user *entity.User) *dto.UserDTO {
	return &dto.UserDTO{
		Id:       user.Id,
		Email:    user.Email,
		FullName: user.FullName,
		IsGuest:  user.IsGuest,
	}
}
