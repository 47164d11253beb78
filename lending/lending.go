// Package lending applies loan repayments to scheduled installments.
package lending

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate go tool go-enum --marshal --names --values

// Status of an installment.
// ENUM(unpaid, partial, paid)
type Status int

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidPayment   = errors.New("payment must not be negative")
)

// Money is an amount in a currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func NewMoneyZero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// ParseMoney reads decimal amount, "12.50" for example.
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("bad amount '%s': %w", amount, err)
	}
	return NewMoney(d, currency), nil
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}

// Installment is a single scheduled repayment. Installments due the same
// day are ordered by sequence.
type Installment struct {
	ID       string
	Sequence int
	Due      time.Time
	Amount   Money
	Paid     Money
}

// Outstanding returns what is still owed on the installment, never negative.
func (i *Installment) Outstanding() Money {
	rest := i.Amount.Sub(i.Paid)
	if rest.Amount.IsNegative() {
		return NewMoneyZero(i.Amount.Currency)
	}
	return rest
}

func (i *Installment) Status() Status {
	switch {
	case i.Paid.Amount.GreaterThanOrEqual(i.Amount.Amount):
		return StatusPaid
	case i.Paid.IsPositive():
		return StatusPartial
	}
	return StatusUnpaid
}

// Applied is part of the payment which went to an installment.
type Applied struct {
	InstallmentID string
	Amount        Money
	Status        Status
}

// Allocation is the outcome of applying a payment.
type Allocation struct {
	// Applied lists installments which received money, in waterfall order.
	Applied []Applied
	// Installments are updated copies of all installments in waterfall order.
	Installments []Installment
	// Leftover is the part of the payment exceeding everything owed.
	Leftover Money
}

// Allocate applies payment to installments oldest first: each installment
// is paid off completely before the next one gets anything, the last one
// touched may end up partially paid. Input is not modified.
func Allocate(installments []Installment, payment Money) (*Allocation, error) {
	if payment.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayment, payment)
	}
	for i := range installments {
		in := &installments[i]
		if in.Amount.Currency != payment.Currency || (!in.Paid.IsZero() && in.Paid.Currency != payment.Currency) {
			return nil, fmt.Errorf("%w: installment %s is in %s, payment is in %s", ErrCurrencyMismatch, in.ID, in.Amount.Currency, payment.Currency)
		}
	}

	ordered := slices.Clone(installments)
	slices.SortStableFunc(ordered, func(a, b Installment) int {
		return cmp.Or(a.Due.Compare(b.Due), cmp.Compare(a.Sequence, b.Sequence))
	})

	res := &Allocation{Installments: ordered}
	remaining := payment
	for i := range ordered {
		if !remaining.IsPositive() {
			break
		}
		in := &ordered[i]
		owed := in.Outstanding()
		if !owed.IsPositive() {
			continue
		}
		apply := owed
		if remaining.Amount.LessThan(owed.Amount) {
			apply = remaining
		}
		in.Paid = NewMoney(in.Paid.Amount.Add(apply.Amount), payment.Currency)
		remaining = remaining.Sub(apply)
		res.Applied = append(res.Applied, Applied{InstallmentID: in.ID, Amount: apply, Status: in.Status()})
	}
	res.Leftover = remaining
	return res, nil
}

// Outstanding returns total owed over all installments.
func Outstanding(installments []Installment, currency string) Money {
	total := NewMoneyZero(currency)
	for i := range installments {
		total = total.Add(installments[i].Outstanding())
	}
	return total
}
