package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"bookworm/internal/auth"
	apperrors "bookworm/internal/errors"
	"bookworm/internal/model"
	"bookworm/internal/repository"
)

// defaultAvatarURL is assigned to every new account.
const defaultAvatarURL = "https://api.dicebear.com/9.x/open-peeps/svg"

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (token string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	users repository.UserRepository
	jwt   *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwt *auth.JWTService) AuthService {
	return &authService{
		users: users,
		jwt:   jwt,
	}
}

// Register creates a new user and issues a token for it. The password is
// hashed by the model's persistence hook, never stored in plaintext.
func (s *authService) Register(ctx context.Context, email, username, password string) (string, *model.User, error) {
	existing, err := s.users.FindByEmailOrUsername(ctx, email, username)
	if err == nil && existing != nil {
		return "", nil, apperrors.ErrUserExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		Password:     password,
		ProfileImage: defaultAvatarURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Unique indexes still catch the race between the existence check
		// and the insert.
		if isDuplicateKey(err) {
			return "", nil, apperrors.ErrUserExists
		}
		log.Error().Err(err).Str("email", email).Msg("create user failed")
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwt.Generate(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// Login authenticates by email and password and issues a token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrUserNotFound
		}
		log.Error().Err(err).Str("email", email).Msg("lookup user failed")
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !user.CheckPassword(password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
