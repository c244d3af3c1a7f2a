package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"campusbooking/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo       domain.UserRepository
	ids            domain.IDAllocator
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
	logger         *slog.Logger
}

// NewAuthService creates an AuthService with the given repository, hasher and token issuer.
func NewAuthService(
	userRepo domain.UserRepository,
	ids domain.IDAllocator,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	timeout time.Duration,
	logger *slog.Logger,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		ids:            ids,
		hasher:         hasher,
		issuer:         issuer,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
		logger:         logger,
	}
}

// SignUp registers a student or faculty account. Admins come only from EnsureAdmin.
func (s *authService) SignUp(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if role == "" {
		role = domain.RoleStudent
	}
	var problems []string
	if role != domain.RoleStudent && role != domain.RoleFaculty {
		problems = append(problems, "role must be student or faculty")
	}
	user, err := s.newUser(ctx, name, email, password, role, problems)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *authService) newUser(ctx context.Context, name, email, password string, role domain.Role, problems []string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		problems = append(problems, "name is required")
	}
	if !emailRegexp.MatchString(email) {
		problems = append(problems, "invalid email format")
	}
	if len(password) < minPasswordLen {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	id, err := s.ids.Next(ctx, domain.CategoryUser)
	if err != nil {
		return nil, fmt.Errorf("allocate user id: %w", err)
	}
	user := domain.NewUser(name, email, hash, role, time.Now().UTC())
	user.ID = id
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.CredentialHash, password); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	token, err := s.issuer.Issue(user.ID, user.Email, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn("admin seed email belongs to a non-admin account", "user_id", existing.ID)
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	user, err := s.newUser(ctx, name, email, password, domain.RoleAdmin, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin account created", "user_id", user.ID)
	return user, nil
}
