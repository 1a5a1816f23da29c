package app

import (
	"context"
	"net/url"
	"time"

	"acme/internal/domain"
	"acme/internal/form"

	"github.com/google/uuid"
)

// InvoicesPath is the canonical invoices listing view.
const InvoicesPath = "/dashboard/invoices"

// InvoiceService encapsulates the invoice mutation pipeline and the reads
// that back the invoice forms.
type InvoiceService struct {
	invoices  domain.InvoiceRepository
	customers domain.CustomerRepository
	now       func() time.Time
}

// NewInvoiceService creates an InvoiceService backed by the given repositories.
func NewInvoiceService(invoices domain.InvoiceRepository, customers domain.CustomerRepository) *InvoiceService {
	return &InvoiceService{invoices: invoices, customers: customers, now: time.Now}
}

// Create validates raw form values and inserts a new invoice. The issue date
// is the current day; the identifier is generated here. Store failures are
// converted to a message and never escape.
func (s *InvoiceService) Create(ctx context.Context, values url.Values) *Result {
	in, errs := form.ParseInvoice(values)
	if len(errs) > 0 {
		return validationFailed(errs, "Missing Fields. Failed to Create Invoice.")
	}

	inv := domain.Invoice{
		ID:          uuid.NewString(),
		CustomerID:  in.CustomerID,
		AmountCents: in.AmountCents,
		Status:      in.Status,
		Date:        s.now().Format("2006-01-02"),
	}
	if err := s.invoices.InsertInvoice(ctx, inv); err != nil {
		return persistFailed("Database Error: Failed to Create Invoice.")
	}

	return &Result{Kind: Succeeded, Invalidate: []string{InvoicesPath}, RedirectTo: InvoicesPath}
}

// Update validates raw form values and rewrites customer, amount and status
// of the invoice with the given identifier. The issue date is not re-derived.
func (s *InvoiceService) Update(ctx context.Context, id string, values url.Values) *Result {
	in, errs := form.ParseInvoice(values)
	if len(errs) > 0 {
		return validationFailed(errs, "Missing Fields. Failed to Update Invoice.")
	}

	if err := s.invoices.UpdateInvoice(ctx, id, in.CustomerID, in.AmountCents, in.Status); err != nil {
		return persistFailed("Database Error: Failed to Update Invoice.")
	}

	return &Result{Kind: Succeeded, Invalidate: []string{InvoicesPath}, RedirectTo: InvoicesPath}
}

// Delete removes the invoice with the given identifier. The listing is
// invalidated but the caller stays on the current view.
func (s *InvoiceService) Delete(ctx context.Context, id string) *Result {
	if err := s.invoices.DeleteInvoice(ctx, id); err != nil {
		return persistFailed("Database Error: Failed to Delete Invoice.")
	}
	return &Result{Kind: Succeeded, Message: "Deleted Invoice.", Invalidate: []string{InvoicesPath}}
}

// Get returns a single invoice for the edit form.
func (s *InvoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.invoices.GetInvoiceByID(ctx, id)
}

// List returns invoices joined with customer display fields, optionally
// filtered by a search query.
func (s *InvoiceService) List(ctx context.Context, query string, limit int) ([]domain.InvoiceWithCustomer, error) {
	return s.invoices.ListInvoices(ctx, query, limit)
}

// ListCustomers returns all customers for the invoice form dropdown.
func (s *InvoiceService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.ListCustomers(ctx)
}
