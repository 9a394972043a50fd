package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/authguard/internal/db"
	"github.com/authguard/internal/domain"
	"github.com/authguard/internal/logger"
	"github.com/authguard/internal/validation"
)

// dummyHash is compared against when the user does not exist so that unknown
// and known usernames take the same time to reject
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("authguard-dummy-password"), bcrypt.DefaultCost)

// userService implements the UserService interface
type userService struct {
	repo   domain.UserRepository
	logger *logger.Logger
	cost   int
}

// NewUserService creates a new user service
func NewUserService(repo domain.UserRepository, log *logger.Logger) domain.UserService {
	return newUserService(repo, log, bcrypt.DefaultCost)
}

func newUserService(repo domain.UserRepository, log *logger.Logger, cost int) *userService {
	if log == nil {
		log = logger.Default()
	}
	return &userService{repo: repo, logger: log, cost: cost}
}

// Register validates the sign-up form and stores a new account
func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*db.User, error) {
	username := strings.TrimSpace(req.Username)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, domain.WrapValidationError("username", err)
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, domain.WrapValidationError("password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrValidationFailed.Code, "password could not be hashed", err)
	}

	user := db.NewUser(username, string(hash))
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.WrapUserAlreadyExists(username, err)
		}
		s.logger.Error("failed to create user", logger.Err(err), logger.Properties{"username": username})
		return nil, domain.WrapDatabaseOperation("create user", err)
	}

	s.logger.Info("user registered", logger.Properties{"user_id": user.ID, "username": username})
	return user, nil
}

// Authenticate checks a username and password from the sign-in form
func (s *userService) Authenticate(ctx context.Context, username, password string) (*db.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrRequiredFieldMissing
	}

	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.logger.Debug("sign-in for unknown user", logger.Properties{"username": username})
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error("failed to load user", logger.Err(err), logger.Properties{"username": username})
		return nil, domain.WrapDatabaseOperation("get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Debug("sign-in with wrong password", logger.Properties{"username": username})
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
