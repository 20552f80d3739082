package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")
var ErrWeakPassword = errors.New("weak password")
var ErrInvalidCredentials = errors.New("incorrect email or password")

const passwordSpecialChars = "!@#$%^&*()_-+=№;%:?*"

// Accounts block after this many consecutive failed logins.
const maxLoginAttempts = 5

type RegisterInput struct {
	FullName string
	Sex      *string
	Email    string
	Password string
}

type ProfileUpdate struct {
	FullName *string
	Sex      *string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id uint64) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint64, in ProfileUpdate) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
	log  *zap.Logger
}

func NewUserService(repo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{repo: repo, log: log}
}

// checkPassword enforces the registration policy: 8-40 chars, at least one
// special char, more than two letters, and no part of the user's own name.
func checkPassword(fullName, password string) bool {
	if len(password) < 8 || len(password) > 40 {
		return false
	}
	lowered := strings.ToLower(password)
	for _, part := range strings.Fields(fullName) {
		if part != "" && strings.Contains(lowered, strings.ToLower(part)) {
			return false
		}
	}
	if !strings.ContainsAny(password, passwordSpecialChars) {
		return false
	}
	letters := 0
	for _, r := range password {
		if unicode.IsUpper(r) || unicode.IsLower(r) {
			letters++
		}
	}
	return letters > 2
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !checkPassword(in.FullName, in.Password) {
		s.log.Warn("weak password on registration", zap.String("email", email))
		return nil, ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FullName:       strings.TrimSpace(in.FullName),
		Sex:            in.Sex,
		Email:          email,
		HashedPassword: string(hashed),
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint64("user_id", user.ID), zap.String("email", email))
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a hash so missing users cost the same as wrong passwords.
			_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		user.LoginAttempts++
		if user.LoginAttempts >= maxLoginAttempts {
			user.IsActive = false
			s.log.Warn("user blocked after failed logins", zap.Uint64("user_id", user.ID))
		}
		if err := s.repo.Save(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if user.LoginAttempts != 0 {
		user.LoginAttempts = 0
		if err := s.repo.Save(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uint64, in ProfileUpdate) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Sex != nil {
		user.Sex = in.Sex
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
