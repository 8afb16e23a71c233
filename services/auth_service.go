package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/dono45/dishsystem-by-tongyi/repository"
	"github.com/dono45/dishsystem-by-tongyi/utils"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns registration, login and token resolution.
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo *repository.UserRepository, secret string, ttl time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
		log:       log.With().Str("svc", "auth").Logger(),
	}
}

type RegisterIn struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a regular (non-admin) user. Username and email must be unused.
func (s *AuthService) Register(ctx context.Context, in RegisterIn) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, invalidInput("Username, email and password are required")
	}

	count, err := s.userRepo.CountByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("count username: %w", err)
	}
	if count > 0 {
		return nil, conflict("Username already exists")
	}
	count, err = s.userRepo.CountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("count email: %w", err)
	}
	if count > 0 {
		return nil, conflict("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Username or email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Authenticate checks the credential and issues a bearer token.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, *entity.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, newError(KindUnauthorized, "Invalid credentials")
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, newError(KindUnauthorized, "Invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// Resolve validates the token and returns the user id carried in its
// subject. A valid token whose subject is not an integer yields
// ErrInvalidIdentity; an integer that no user can have is Forbidden.
func (s *AuthService) Resolve(token string) (uint, error) {
	sub, err := utils.ParseSubject(token, s.jwtSecret)
	if err != nil {
		return 0, newError(KindUnauthorized, "Invalid or expired token")
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidIdentity
	}
	if id <= 0 {
		return 0, forbidden("User not found")
	}
	return uint(id), nil
}

// RequireUser resolves the token and loads its user. A user that no longer
// exists is Forbidden.
func (s *AuthService) RequireUser(ctx context.Context, token string) (*entity.User, error) {
	id, err := s.Resolve(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, forbidden("User not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *AuthService) RequireAdmin(ctx context.Context, token string) (*entity.User, error) {
	user, err := s.RequireUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, forbidden("Admin access required")
	}
	return user, nil
}

// ForgotPassword only checks that the email is known; nothing is sent.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return invalidInput("Email is required")
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Email not found")
		}
		return fmt.Errorf("find user: %w", err)
	}
	s.log.Info().Uint("user_id", user.ID).Msg("password reset requested")
	return nil
}

// UserView is the public shape of a user.
type UserView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

func NewUserView(u *entity.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
}
