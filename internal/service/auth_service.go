package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finquest-be/internal/dto"
	"finquest-be/internal/entity"
	"finquest-be/internal/pkg/logger"
	"finquest-be/internal/pkg/mailer"
	"finquest-be/internal/pkg/serverutils"
	"finquest-be/internal/repository/specification"
	"finquest-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.SafeUser, error)
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	tokens       *serverutils.TokenManager
	emailService mailer.IEmailService
	ranks        RankScheduler
	logger       logger.ILogger
}

// NewAuthService accepts a nil emailService when SMTP is not configured.
func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *serverutils.TokenManager,
	emailService mailer.IEmailService,
	ranks RankScheduler,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		tokens:       tokens,
		emailService: emailService,
		ranks:        ranks,
		logger:       log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		RankPercent:  100,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user.Id, user.Email)
	if err != nil {
		return nil, err
	}

	if s.emailService != nil {
		go func() {
			if err := s.emailService.SendWelcome(user.Email, user.Name); err != nil {
				s.logger.Warn("AuthService", "Failed to send welcome email", map[string]interface{}{
					"user_id": user.Id,
					"error":   err.Error(),
				})
			}
		}()
	}
	s.ranks.Enqueue(ctx, user.Id)

	return &dto.AuthResponse{Token: token, User: *toSafeUser(user)}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Id, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: *toSafeUser(user)}, nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.SafeUser, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toSafeUser(user), nil
}
