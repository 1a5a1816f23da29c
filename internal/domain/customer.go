package domain

import "context"

// Customer is a billable party referenced by invoices. Customers are
// read-only from this application's perspective.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl"`
}

// CustomerRepository is the port for customer reads.
type CustomerRepository interface {
	ListCustomers(ctx context.Context) ([]Customer, error)
}
