// Package domain contains the core business entities and interfaces.
package domain

import "context"

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

// Valid invoice statuses.
const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice represents a billable invoice for a customer. Amount is stored in
// integer cents to avoid floating-point rounding. Date is the issue day in
// YYYY-MM-DD form, set once at creation and never changed by updates.
type Invoice struct {
	ID          string        `json:"id"`
	CustomerID  string        `json:"customerId"`
	AmountCents int64         `json:"amount"`
	Status      InvoiceStatus `json:"status"`
	Date        string        `json:"date"`
}

// InvoiceWithCustomer is an invoice row joined with its customer's display
// fields, as shown on the invoices listing.
type InvoiceWithCustomer struct {
	Invoice
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerImage string `json:"customerImage"`
}

// InvoiceRepository is the port for invoice persistence. Referential
// integrity of CustomerID is enforced by the store, not by callers.
type InvoiceRepository interface {
	InsertInvoice(ctx context.Context, inv Invoice) error
	UpdateInvoice(ctx context.Context, id, customerID string, amountCents int64, status InvoiceStatus) error
	DeleteInvoice(ctx context.Context, id string) error
	GetInvoiceByID(ctx context.Context, id string) (*Invoice, error)
	ListInvoices(ctx context.Context, query string, limit int) ([]InvoiceWithCustomer, error)
}
