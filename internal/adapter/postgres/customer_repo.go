package postgres

import (
	"context"

	"acme/internal/domain"
)

// ListCustomers returns all customers ordered by name.
func (d *DB) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, name, email, image_url FROM customers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
