package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/file-management/internal/auth"
	"github.com/spec-kit/file-management/internal/config"
	"github.com/spec-kit/file-management/internal/domain"
	"github.com/spec-kit/file-management/internal/events"
	"github.com/spec-kit/file-management/internal/repository"
	apperrors "github.com/spec-kit/file-management/pkg/util/errorutil"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// loginFailure is reported for unknown users and wrong passwords alike.
var loginFailure = apperrors.IdentityError{Code: "login_failure", Description: "Invalid username or password."}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	issuer     *auth.TokenIssuer
	verifier   *auth.TokenVerifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	JTIGenerator auth.IdentifierSource
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	// Clock overrides the issue instant; nil means time.Now.
	Clock func() time.Time
}

// RegisterInput carries a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginResult is returned for a successful login.
type LoginResult struct {
	UserID    string
	Token     string
	ExpiresIn time.Duration
}

// NewAuthService builds the service, its token issuer and verifier. Invalid
// issuer configuration is returned as an error wrapping
// auth.ErrInvalidIssuerOptions.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	creds, err := auth.LoadSigningCredentials(cfg.Auth.SigningMethod, cfg.Auth.JWTSecret, cfg.Auth.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load signing credentials: %w", err)
	}

	opts := &auth.IssuerOptions{
		Issuer:             cfg.Auth.Issuer,
		Audience:           cfg.Auth.Audience,
		ValidFor:           cfg.Auth.ValidFor(),
		SigningCredentials: creds,
		JTIGenerator:       deps.JTIGenerator,
		Clock:              deps.Clock,
	}
	issuer, err := auth.NewTokenIssuer(opts)
	if err != nil {
		return nil, err
	}
	verifier, err := auth.NewTokenVerifierFor(opts, cfg.Auth.Leeway())
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}

	return &AuthService{
		users:      deps.UserRepo,
		issuer:     issuer,
		verifier:   verifier,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}, nil
}

// Register creates a new account. Password policy violations and duplicate
// user names are reported together as identity errors.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewIdentityErrors(apperrors.IdentityError{
			Code:        "InvalidEmail",
			Description: fmt.Sprintf("Email '%s' is invalid.", email),
		})
	}

	identityErrs := auth.CheckPasswordPolicy(in.Password)
	if _, err := s.users.GetByUserName(ctx, email); err == nil {
		identityErrs = append(identityErrs, duplicateUserName(email))
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if len(identityErrs) > 0 {
		return nil, apperrors.NewIdentityErrors(identityErrs...)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UserName:     email,
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win between the lookup and the insert.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.NewIdentityErrors(duplicateUserName(email))
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventAccountRegistered,
		UserName: user.UserName,
		UserID:   user.ID,
		Payload:  events.AccountRegisteredPayload{Email: user.Email},
	})
	return user, nil
}

// Login verifies credentials and issues an access token for the user.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	if userName == "" || password == "" {
		return nil, apperrors.NewIdentityErrors(loginFailure)
	}

	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.loginFailed(ctx, userName, "unknown_user")
			return nil, apperrors.NewIdentityErrors(loginFailure)
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.loginFailed(ctx, userName, "bad_password")
		return nil, apperrors.NewIdentityErrors(loginFailure)
	}

	identity := auth.BuildClaimsIdentity(user.UserName, user.ID)
	token, err := s.issuer.Issue(ctx, user.UserName, identity)
	if err != nil {
		s.loginFailed(ctx, userName, "token")
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTokenIssued,
		UserName: user.UserName,
		UserID:   user.ID,
		Payload:  events.TokenIssuedPayload{ExpiresIn: s.issuer.ValidFor()},
	})
	return &LoginResult{UserID: user.ID, Token: token, ExpiresIn: s.issuer.ValidFor()}, nil
}

// Verifier exposes the token verifier for middleware usage.
func (s *AuthService) Verifier() *auth.TokenVerifier {
	return s.verifier
}

func duplicateUserName(userName string) apperrors.IdentityError {
	return apperrors.IdentityError{
		Code:        "DuplicateUserName",
		Description: fmt.Sprintf("User name '%s' is already taken.", userName),
	}
}

func (s *AuthService) loginFailed(ctx context.Context, userName, reason string) {
	s.publish(ctx, events.Event{
		Type:     events.EventLoginFailed,
		UserName: userName,
		Payload:  events.LoginFailedPayload{Reason: reason},
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("audit event handler failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
