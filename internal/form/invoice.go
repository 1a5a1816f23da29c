package form

import (
	"net/url"
	"strings"

	"acme/internal/domain"

	"github.com/shopspring/decimal"
)

// Messages shown next to invoice form fields.
const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmountRange    = "Please enter an amount greater than $0."
	MsgSelectStatus   = "Please select a status."
)

// InvoiceInput is the typed, coerced result of a valid invoice form
// submission. The identifier and issue date are supplied by the pipeline,
// never by the caller.
type InvoiceInput struct {
	CustomerID  string
	AmountCents int64
	Status      domain.InvoiceStatus
}

// ParseInvoice validates raw invoice form values. The dollar amount is parsed
// as an exact decimal and converted to integer cents; values that are
// missing, non-numeric, not strictly positive, or finer than one cent are
// rejected.
func ParseInvoice(values url.Values) (InvoiceInput, Errors) {
	var in InvoiceInput
	errs := Errors{}

	in.CustomerID = strings.TrimSpace(values.Get("customerId"))
	if in.CustomerID == "" {
		errs.Add("customerId", MsgSelectCustomer)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(values.Get("amount")))
	if err != nil || !amount.IsPositive() {
		errs.Add("amount", MsgAmountRange)
	} else if cents := amount.Shift(2); !cents.IsInteger() {
		errs.Add("amount", MsgAmountRange)
	} else {
		in.AmountCents = cents.IntPart()
	}

	switch status := domain.InvoiceStatus(values.Get("status")); status {
	case domain.InvoiceStatusPending, domain.InvoiceStatusPaid:
		in.Status = status
	default:
		errs.Add("status", MsgSelectStatus)
	}

	if len(errs) > 0 {
		return InvoiceInput{}, errs
	}
	return in, nil
}
