package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/heladeria/inventory-api/internal/auth"
	"github.com/heladeria/inventory-api/internal/core/domain"
	"github.com/heladeria/inventory-api/internal/core/ports"
)

// BootstrapAdminUsername is the account created by EnsureBootstrapAdmin.
const BootstrapAdminUsername = "admin"

const defaultSessionTTL = 24 * time.Hour

// AuthService implements credential checks, session and token logins, and
// identity resolution.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	tokens     *auth.TokenCodec
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, tokens *auth.TokenCodec, sessionTTL time.Duration, log zerolog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

func (s *AuthService) SessionTTL() time.Duration { return s.sessionTTL }

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        in.Roles,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// EnsureBootstrapAdmin creates the admin account with the given password when
// it does not exist yet. An empty password disables the bootstrap.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, password string) error {
	if password == "" {
		return nil
	}

	_, err := s.users.FindByUsername(ctx, BootstrapAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	_, err = s.Register(ctx, ports.RegisterInput{
		Username: BootstrapAdminUsername,
		Password: password,
		Roles:    domain.NewRoleSet(domain.RoleAdmin),
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}

// checkCredentials returns domain.ErrInvalidCredentials for both an unknown
// username and a wrong password.
func (s *AuthService) checkCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// AuthenticateSession checks credentials and starts a new session. A session
// the caller still presents from an earlier login is dropped first.
func (s *AuthService) AuthenticateSession(ctx context.Context, username, password, previousSessionID string) (*domain.Session, *domain.User, error) {
	user, err := s.checkCredentials(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	if previousSessionID != "" {
		if err := s.sessions.Delete(ctx, previousSessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			s.log.Warn().Err(err).Msg("failed to drop previous session")
		}
	}

	sess, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	return sess, user, nil
}

// AuthenticateToken checks credentials and returns a signed access token
// carrying the user's current roles.
func (s *AuthService) AuthenticateToken(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.checkCredentials(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs an access token for a user whose credentials were already
// checked, so a single login can hand out both a session and a token.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	_, token, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ResolveSession maps a session id to an Identity. Roles are read from the
// credential store on every call.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (domain.Identity, error) {
	if sessionID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Identity{}, domain.ErrUnauthenticated
		}
		return domain.Identity{}, fmt.Errorf("get session: %w", err)
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				s.log.Warn().Err(err).Msg("failed to drop orphaned session")
			}
			return domain.Identity{}, domain.ErrUnauthenticated
		}
		return domain.Identity{}, fmt.Errorf("find session user: %w", err)
	}

	return domain.Identity{
		UserID:    user.ID,
		Username:  user.Username,
		Roles:     user.Roles,
		Source:    domain.SourceSession,
		SessionID: sess.ID,
	}, nil
}

// ResolveToken maps an access token to an Identity. Roles come from the token
// as issued.
func (s *AuthService) ResolveToken(token string) (domain.Identity, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		UserID: claims.UserID,
		Roles:  claims.Roles,
		Source: domain.SourceToken,
	}, nil
}

// UpdateRoles replaces the roles of a user. Sessions see the change on their
// next request; tokens already issued keep their roles until they expire.
func (s *AuthService) UpdateRoles(ctx context.Context, userID int64, roles domain.RoleSet) (*domain.User, error) {
	if err := s.users.SetRoles(ctx, userID, roles); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", userID).Msg("user roles updated")
	return user, nil
}
