// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"acme/internal/domain"
)

// InsertInvoice creates a new invoice row. Referential integrity of customer_id is
// enforced by the foreign key.
func (d *DB) InsertInvoice(ctx context.Context, inv domain.Invoice) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO invoices (id, customer_id, amount, status, date) VALUES ($1, $2, $3, $4, $5)",
		inv.ID, inv.CustomerID, inv.AmountCents, inv.Status, inv.Date,
	)
	return err
}

// UpdateInvoice rewrites customer, amount and status of an invoice. The date column
// is deliberately left untouched.
func (d *DB) UpdateInvoice(ctx context.Context, id, customerID string, amountCents int64, status domain.InvoiceStatus) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE invoices SET customer_id = $1, amount = $2, status = $3 WHERE id = $4",
		customerID, amountCents, status, id,
	)
	return err
}

// DeleteInvoice removes an invoice by ID.
func (d *DB) DeleteInvoice(ctx context.Context, id string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	return err
}

// GetInvoiceByID retrieves a single invoice.
func (d *DB) GetInvoiceByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, customer_id, amount, status, date FROM invoices WHERE id = $1",
		id,
	).Scan(&inv.ID, &inv.CustomerID, &inv.AmountCents, &inv.Status, &inv.Date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoices returns invoices joined with customer display fields, newest first,
// optionally filtered by customer name or email.
func (d *DB) ListInvoices(ctx context.Context, query string, limit int) ([]domain.InvoiceWithCustomer, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT i.id, i.customer_id, i.amount, i.status, i.date, c.name, c.email, c.image_url
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE $1 = '' OR c.name ILIKE '%' || $1 || '%' OR c.email ILIKE '%' || $1 || '%'
		ORDER BY i.date DESC, i.id
		LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.InvoiceWithCustomer, 0, limit)
	for rows.Next() {
		var r domain.InvoiceWithCustomer
		if err := rows.Scan(&r.ID, &r.CustomerID, &r.AmountCents, &r.Status, &r.Date,
			&r.CustomerName, &r.CustomerEmail, &r.CustomerImage); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
