// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"acme/internal/domain"
)

// ErrCustomerNotFound mirrors the store's foreign-key enforcement on
// invoices.customer_id.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrInvalidInvoice mirrors the store's CHECK constraints on invoices.
var ErrInvalidInvoice = errors.New("invalid invoice")

// DB implements an in-memory database storage.
type DB struct {
	mu        sync.Mutex
	invoices  []domain.Invoice
	customers []domain.Customer
	users     []*domain.User
	sessions  map[string]*domain.Session
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.InvoiceRepository = (*DB)(nil)
var _ domain.CustomerRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- CustomerRepository ---

// AddCustomer seeds a customer row. Customers are read-only through the
// repository ports, so seeding is a memory-adapter extra for dev and tests.
func (db *DB) AddCustomer(c domain.Customer) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.customers = append(db.customers, c)
}

// ListCustomers returns all customers ordered by name.
func (db *DB) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Customer, len(db.customers))
	copy(out, db.customers)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- InvoiceRepository ---

// InsertInvoice adds an invoice, enforcing the same constraints the SQL schema
// would: an existing customer, a positive amount and a known status.
func (db *DB) InsertInvoice(ctx context.Context, inv domain.Invoice) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.findCustomer(inv.CustomerID) == nil {
		return ErrCustomerNotFound
	}
	if inv.AmountCents <= 0 || (inv.Status != domain.InvoiceStatusPending && inv.Status != domain.InvoiceStatusPaid) {
		return ErrInvalidInvoice
	}
	db.invoices = append(db.invoices, inv)
	return nil
}

// UpdateInvoice rewrites customer, amount and status of the invoice with the given
// ID. The date field is left untouched.
func (db *DB) UpdateInvoice(ctx context.Context, id, customerID string, amountCents int64, status domain.InvoiceStatus) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.findCustomer(customerID) == nil {
		return ErrCustomerNotFound
	}
	if amountCents <= 0 || (status != domain.InvoiceStatusPending && status != domain.InvoiceStatusPaid) {
		return ErrInvalidInvoice
	}
	for i := range db.invoices {
		if db.invoices[i].ID == id {
			db.invoices[i].CustomerID = customerID
			db.invoices[i].AmountCents = amountCents
			db.invoices[i].Status = status
			return nil
		}
	}
	// Matches UPDATE ... WHERE on a missing row: zero rows affected, no error.
	return nil
}

// DeleteInvoice removes the invoice with the given ID. Deleting a missing row is
// not an error, as in SQL.
func (db *DB) DeleteInvoice(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.invoices {
		if db.invoices[i].ID == id {
			db.invoices = append(db.invoices[:i], db.invoices[i+1:]...)
			return nil
		}
	}
	return nil
}

// GetInvoiceByID returns the invoice with the given ID, or nil if absent.
func (db *DB) GetInvoiceByID(ctx context.Context, id string) (*domain.Invoice, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.invoices {
		if db.invoices[i].ID == id {
			inv := db.invoices[i]
			return &inv, nil
		}
	}
	return nil, nil
}

// ListInvoices returns invoices joined with customer fields, newest first,
// optionally filtered by customer name or email.
func (db *DB) ListInvoices(ctx context.Context, query string, limit int) ([]domain.InvoiceWithCustomer, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	q := strings.ToLower(query)
	out := make([]domain.InvoiceWithCustomer, 0, limit)
	for i := range db.invoices {
		c := db.findCustomer(db.invoices[i].CustomerID)
		if c == nil {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.Email), q) {
			continue
		}
		out = append(out, domain.InvoiceWithCustomer{
			Invoice:       db.invoices[i],
			CustomerName:  c.Name,
			CustomerEmail: c.Email,
			CustomerImage: c.ImageURL,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (db *DB) findCustomer(id string) *domain.Customer {
	for i := range db.customers {
		if db.customers[i].ID == id {
			return &db.customers[i]
		}
	}
	return nil
}

// --- UserRepository ---

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// Create creates a new user, enforcing email uniqueness the way the SQL
// constraint would.
func (db *DB) Create(ctx context.Context, u domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	copied := u
	db.users = append(db.users, &copied)
	return nil
}

// DeleteByEmail removes the user with the given email.
func (db *DB) DeleteByEmail(ctx context.Context, email string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, u := range db.users {
		if u.Email == email {
			db.users = append(db.users[:i], db.users[i+1:]...)
			return nil
		}
	}
	return nil
}

// EmailTaken reports whether a user with the given email already exists.
func (db *DB) EmailTaken(ctx context.Context, email string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// --- SessionRepository ---

// SessionRepo implements session repository operations on the in-memory DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for token, s := range r.db.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}
