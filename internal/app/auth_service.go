package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"time"

	"acme/internal/domain"
	"acme/internal/form"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LoginPath is the login view, the destination after registration and
// account deletion.
const LoginPath = "/login"

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = 10

// sessionTTL is how long a session stays valid after sign-in.
const sessionTTL = 24 * time.Hour

var (
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// AuthErrorType is the kind of an authentication failure.
type AuthErrorType string

// The closed set of authentication failure kinds. Anything outside this set
// is an infrastructure fault and is never wrapped in an AuthError.
const (
	// CredentialsSignin means the submitted email/password pair was wrong.
	CredentialsSignin AuthErrorType = "CredentialsSignin"
	// CallbackRouteError means the credential check itself could not run.
	CallbackRouteError AuthErrorType = "CallbackRouteError"
)

// AuthError is an authentication-specific failure from the sign-in primitive.
type AuthError struct {
	Type AuthErrorType
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Err.Error()
	}
	return string(e.Type)
}

func (e *AuthError) Unwrap() error { return e.Err }

// AuthService handles registration, credential sign-in and sessions.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register validates raw registration form values and creates the account.
// The email-uniqueness pre-check is advisory: the store's own constraint is
// authoritative under races, and both paths surface the identical field
// error. On success the new user is signed in with the submitted plaintext
// credentials and the returned token carries the fresh session.
func (s *AuthService) Register(ctx context.Context, values url.Values) (*Result, string) {
	in, errs := form.ParseSignup(values)
	if _, bad := errs["email"]; !bad {
		taken, err := s.users.EmailTaken(ctx, in.Email)
		if err != nil {
			return persistFailed("Database Error: Failed to Create User."), ""
		}
		if taken {
			errs.Add("email", form.MsgEmailTaken)
		}
	}
	if len(errs) > 0 {
		return validationFailed(errs, "Missing Fields. Failed to Register User."), ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return persistFailed("Database Error: Failed to Create User."), ""
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			dup := form.Errors{}
			dup.Add("email", form.MsgEmailTaken)
			return validationFailed(dup, "Missing Fields. Failed to Register User."), ""
		}
		return persistFailed("Database Error: Failed to Create User."), ""
	}

	// The account is committed; a failed auto sign-in only means the user
	// lands on the login page without a session, which is where the
	// redirect takes them regardless.
	token, err := s.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		token = ""
	}

	return &Result{Kind: Succeeded, Invalidate: []string{LoginPath}, RedirectTo: LoginPath}, token
}

// SignIn is the credential session primitive: it checks the email/password
// pair and creates a session, returning its token. Wrong credentials and
// failed credential lookups come back as *AuthError; token generation and
// session persistence faults are returned as-is.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", &AuthError{Type: CallbackRouteError, Err: err}
	}
	if user == nil {
		return "", &AuthError{Type: CredentialsSignin}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", &AuthError{Type: CredentialsSignin}
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, user.ID, token, time.Now().Add(sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate accepts raw login form values and delegates to SignIn.
// Authentication failures are mapped to a user-facing message; any other
// failure is returned unconverted so the caller can treat it as a defect.
func (s *AuthService) Authenticate(ctx context.Context, values url.Values) (string, string, error) {
	token, err := s.SignIn(ctx, values.Get("email"), values.Get("password"))
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			if authErr.Type == CredentialsSignin {
				return "", "Invalid credentials.", nil
			}
			return "", "Something went wrong.", nil
		}
		return "", "", err
	}
	return token, "", nil
}

// SignOut invalidates a session.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// PurgeExpiredSessions removes sessions past their expiry. ValidateSession
// already rejects expired tokens lazily; the purge keeps rows for tokens
// that never come back from piling up.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

// ValidateSession resolves a session token to its user, enforcing expiry.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteAccount removes the account with the given email and signs the
// current session out. The identity is passed in by the caller; this service
// never reaches into cookies itself.
func (s *AuthService) DeleteAccount(ctx context.Context, email, token string) *Result {
	if err := s.users.DeleteByEmail(ctx, email); err != nil {
		return persistFailed("Database Error: Failed to Delete User.")
	}
	if token != "" {
		_ = s.SignOut(ctx, token)
	}
	return &Result{Kind: Succeeded, Message: "Deleted Account.", Invalidate: []string{LoginPath}, RedirectTo: LoginPath}
}

// SignInWithEmail creates a session for an identity already verified
// elsewhere (e.g. an OIDC provider), provisioning the account on first
// sign-in. Provisioned accounts get no usable password.
func (s *AuthService) SignInWithEmail(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		name := email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
		u := domain.User{ID: uuid.NewString(), Name: name, Email: email}
		if err := s.users.Create(ctx, u); err != nil && !errors.Is(err, domain.ErrEmailTaken) {
			return "", err
		}
		// Re-read in case a concurrent sign-in won the insert race.
		if user, err = s.users.GetByEmail(ctx, email); err != nil {
			return "", err
		}
		if user == nil {
			return "", ErrUserNotFound
		}
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, user.ID, token, time.Now().Add(sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
