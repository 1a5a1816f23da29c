package app

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"acme/internal/domain"
	"acme/internal/form"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	getByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id string) (*domain.User, error)
	createFn        func(ctx context.Context, u domain.User) error
	deleteByEmailFn func(ctx context.Context, email string) error
	emailTakenFn    func(ctx context.Context, email string) (bool, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) DeleteByEmail(ctx context.Context, email string) error {
	if m.deleteByEmailFn != nil {
		return m.deleteByEmailFn(ctx, email)
	}
	return nil
}

func (m *mockUserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	if m.emailTakenFn != nil {
		return m.emailTakenFn(ctx, email)
	}
	return false, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, userID, token string, expiresAt time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

func signupForm() url.Values {
	return url.Values{
		"name":     {"Ada Lovelace"},
		"email":    {"ada@example.com"},
		"password": {"correct horse"},
	}
}

func loginForm(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

func TestAuthService_Register_Success(t *testing.T) {
	ctx := context.Background()
	var created *domain.User
	users := &mockUserRepo{
		createFn: func(ctx context.Context, u domain.User) error {
			created = &u
			return nil
		},
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if created != nil && created.Email == email {
				return created, nil
			}
			return nil, nil
		},
	}
	var sessionUserID string
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID, token string, expiresAt time.Time) error {
			sessionUserID = userID
			return nil
		},
	}

	svc := NewAuthService(users, sessions)
	res, token := svc.Register(ctx, signupForm())

	if res.Kind != Succeeded {
		t.Fatalf("expected success, got kind %d message %q errors %v", res.Kind, res.Message, res.FieldErrors)
	}
	if res.RedirectTo != LoginPath {
		t.Errorf("expected redirect to %q, got %q", LoginPath, res.RedirectTo)
	}
	if len(res.Invalidate) != 1 || res.Invalidate[0] != LoginPath {
		t.Errorf("expected invalidation of %q, got %v", LoginPath, res.Invalidate)
	}
	if token == "" {
		t.Error("expected an auto sign-in session token")
	}

	if created == nil {
		t.Fatal("expected a stored account")
	}
	if created.PasswordHash == "correct horse" {
		t.Error("password must not be stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct horse")); err != nil {
		t.Errorf("stored hash does not verify the submitted password: %v", err)
	}
	if sessionUserID != created.ID {
		t.Errorf("auto sign-in created a session for %q, want %q", sessionUserID, created.ID)
	}
}

func TestAuthService_Register_PasswordTooShort(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{
		createFn: func(ctx context.Context, u domain.User) error {
			t.Fatal("create must not run")
			return nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	values := signupForm()
	values.Set("password", "1234567")
	res, _ := svc.Register(ctx, values)

	if res.Kind != ValidationFailed {
		t.Fatalf("expected validation failure, got kind %d", res.Kind)
	}
	if res.Message != "Missing Fields. Failed to Register User." {
		t.Errorf("unexpected message %q", res.Message)
	}
	if len(res.FieldErrors["password"]) == 0 {
		t.Error("expected a field error on password")
	}
}

func TestAuthService_Register_EmailTaken_PreCheck(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{
		emailTakenFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
		createFn: func(ctx context.Context, u domain.User) error {
			t.Fatal("create must not run when the pre-check fails")
			return nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	res, _ := svc.Register(ctx, signupForm())
	assertEmailTakenFailure(t, res)
}

func TestAuthService_Register_EmailTaken_StoreConstraint(t *testing.T) {
	ctx := context.Background()
	// The pre-check passes but a concurrent registration wins the insert
	// race: the constraint violation must surface identically.
	users := &mockUserRepo{
		createFn: func(ctx context.Context, u domain.User) error {
			return domain.ErrEmailTaken
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	res, _ := svc.Register(ctx, signupForm())
	assertEmailTakenFailure(t, res)
}

func assertEmailTakenFailure(t *testing.T, res *Result) {
	t.Helper()
	if res.Kind != ValidationFailed {
		t.Fatalf("expected validation failure, got kind %d message %q", res.Kind, res.Message)
	}
	if res.Message != "Missing Fields. Failed to Register User." {
		t.Errorf("unexpected message %q", res.Message)
	}
	found := false
	for _, msg := range res.FieldErrors["email"] {
		if msg == form.MsgEmailTaken {
			found = true
		}
	}
	if !found {
		t.Errorf("expected email error %q, got %v", form.MsgEmailTaken, res.FieldErrors)
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{
		createFn: func(ctx context.Context, u domain.User) error {
			return errors.New("connection refused")
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	res, token := svc.Register(ctx, signupForm())
	if res.Kind != PersistFailed || res.Message != "Database Error: Failed to Create User." {
		t.Errorf("unexpected result: kind %d message %q", res.Kind, res.Message)
	}
	if token != "" {
		t.Error("no session may be created when the insert fails")
	}
}

func TestAuthService_Authenticate_WrongCredentials(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	token, message, err := svc.Authenticate(ctx, loginForm("ada@example.com", "wrong"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if message != "Invalid credentials." {
		t.Errorf("expected %q, got %q", "Invalid credentials.", message)
	}
	if token != "" {
		t.Error("no token may be issued for wrong credentials")
	}
}

func TestAuthService_Authenticate_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{})

	_, message, err := svc.Authenticate(ctx, loginForm("nobody@example.com", "whatever"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if message != "Invalid credentials." {
		t.Errorf("expected %q, got %q", "Invalid credentials.", message)
	}
}

func TestAuthService_Authenticate_LookupFault(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	_, message, err := svc.Authenticate(ctx, loginForm("ada@example.com", "pw"))
	if err != nil {
		t.Fatalf("auth-kind failures must be converted, got %v", err)
	}
	if message != "Something went wrong." {
		t.Errorf("expected %q, got %q", "Something went wrong.", message)
	}
}

func TestAuthService_Authenticate_InfraErrorPropagates(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	boom := errors.New("session store down")
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID, token string, expiresAt time.Time) error {
			return boom
		},
	}
	svc := NewAuthService(users, sessions)

	_, message, err := svc.Authenticate(ctx, loginForm("ada@example.com", "right"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected the infrastructure error to propagate, got %v", err)
	}
	if message != "" {
		t.Errorf("infra errors must not be converted to a message, got %q", message)
	}
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()
	purged := false
	sessions := &mockSessionRepo{
		deleteExpiredFn: func(ctx context.Context) error {
			purged = true
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)

	if err := svc.PurgeExpiredSessions(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !purged {
		t.Error("expected the expired-session sweep to run")
	}

	boom := errors.New("connection refused")
	sessions.deleteExpiredFn = func(ctx context.Context) error { return boom }
	if err := svc.PurgeExpiredSessions(ctx); !errors.Is(err, boom) {
		t.Errorf("expected the store error to surface, got %v", err)
	}
}

func TestAuthService_ValidateSession_Expired(t *testing.T) {
	ctx := context.Background()
	deleted := ""
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
		deleteFn: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)

	_, err := svc.ValidateSession(ctx, "tok")
	if err != ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if deleted != "tok" {
		t.Error("expired session should be deleted")
	}
}

func TestAuthService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	var deletedEmail, deletedToken string
	users := &mockUserRepo{
		deleteByEmailFn: func(ctx context.Context, email string) error {
			deletedEmail = email
			return nil
		},
	}
	sessions := &mockSessionRepo{
		deleteFn: func(ctx context.Context, token string) error {
			deletedToken = token
			return nil
		},
	}
	svc := NewAuthService(users, sessions)

	res := svc.DeleteAccount(ctx, "ada@example.com", "tok")
	if res.Kind != Succeeded {
		t.Fatalf("expected success, got kind %d message %q", res.Kind, res.Message)
	}
	if deletedEmail != "ada@example.com" {
		t.Errorf("expected deletion of ada@example.com, got %q", deletedEmail)
	}
	if deletedToken != "tok" {
		t.Errorf("expected sign-out of tok, got %q", deletedToken)
	}
	if res.RedirectTo != LoginPath {
		t.Errorf("expected redirect to %q, got %q", LoginPath, res.RedirectTo)
	}
}

func TestAuthService_DeleteAccount_StoreFailure(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{
		deleteByEmailFn: func(ctx context.Context, email string) error {
			return errors.New("connection refused")
		},
	}
	sessions := &mockSessionRepo{
		deleteFn: func(ctx context.Context, token string) error {
			t.Fatal("the session must stay when the delete fails")
			return nil
		},
	}
	svc := NewAuthService(users, sessions)

	res := svc.DeleteAccount(ctx, "ada@example.com", "tok")
	if res.Kind != PersistFailed || res.Message != "Database Error: Failed to Delete User." {
		t.Errorf("unexpected result: kind %d message %q", res.Kind, res.Message)
	}
}

func TestAuthService_SignInWithEmail_Provisions(t *testing.T) {
	ctx := context.Background()
	var created *domain.User
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if created != nil {
				return created, nil
			}
			return nil, nil
		},
		createFn: func(ctx context.Context, u domain.User) error {
			created = &u
			return nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	token, err := svc.SignInWithEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if created == nil || created.Name != "ada" {
		t.Errorf("expected a provisioned user named after the mailbox, got %+v", created)
	}
	if created.PasswordHash != "" {
		t.Error("provisioned accounts must not get a usable password hash")
	}
}
