package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"chapterdoc/lending"
	"chapterdoc/state"
)

const dueLayout = "2006-01-02"

// schedule is YAML representation of loan installments.
type schedule struct {
	Currency     string                `yaml:"currency"`
	Installments []scheduleInstallment `yaml:"installments"`
}

type scheduleInstallment struct {
	ID       string `yaml:"id"`
	Sequence int    `yaml:"sequence,omitempty"`
	Due      string `yaml:"due"`
	Amount   string `yaml:"amount"`
	Paid     string `yaml:"paid,omitempty"`
}

func parseSchedule(data []byte) (*schedule, []lending.Installment, error) {
	var s schedule
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	if len(s.Currency) == 0 {
		return nil, nil, errors.New("schedule has no currency")
	}

	out := make([]lending.Installment, 0, len(s.Installments))
	for i, in := range s.Installments {
		if len(in.ID) == 0 {
			return nil, nil, fmt.Errorf("installment %d has no id", i)
		}
		due, err := time.Parse(dueLayout, in.Due)
		if err != nil {
			return nil, nil, fmt.Errorf("installment %s: bad due date: %w", in.ID, err)
		}
		amount, err := lending.ParseMoney(in.Amount, s.Currency)
		if err != nil {
			return nil, nil, fmt.Errorf("installment %s: %w", in.ID, err)
		}
		paid := lending.NewMoneyZero(s.Currency)
		if len(in.Paid) > 0 {
			if paid, err = lending.ParseMoney(in.Paid, s.Currency); err != nil {
				return nil, nil, fmt.Errorf("installment %s: %w", in.ID, err)
			}
		}
		out = append(out, lending.Installment{ID: in.ID, Sequence: in.Sequence, Due: due, Amount: amount, Paid: paid})
	}
	return &s, out, nil
}

// updated returns schedule carrying paid amounts of allocation.
func (s *schedule) updated(installments []lending.Installment) *schedule {
	paid := make(map[string]lending.Money, len(installments))
	for _, in := range installments {
		paid[in.ID] = in.Paid
	}
	out := &schedule{Currency: s.Currency, Installments: make([]scheduleInstallment, len(s.Installments))}
	for i, in := range s.Installments {
		if p, ok := paid[in.ID]; ok && !p.IsZero() {
			in.Paid = p.Amount.StringFixed(2)
		}
		out.Installments[i] = in
	}
	return out
}

// Repay applies payment to loan schedule oldest installment first and
// prints where the money went. With --write schedule file is updated.
func Repay(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("repay")

	name, amount := cmd.Args().Get(0), cmd.Args().Get(1)
	if len(name) == 0 || len(amount) == 0 {
		return errors.New("schedule file and payment amount are required")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("unable to read schedule: %w", err)
	}

	out, err := repay(data, amount, os.Stdout, log)
	if err != nil {
		return err
	}
	if !cmd.Bool("write") {
		return nil
	}
	if err := os.WriteFile(name, out, 0644); err != nil {
		return fmt.Errorf("unable to update schedule: %w", err)
	}
	log.Info("Schedule updated", zap.String("file", name))
	return nil
}

// repay prints allocation and returns updated schedule.
func repay(data []byte, amount string, w io.Writer, log *zap.Logger) ([]byte, error) {
	s, installments, err := parseSchedule(data)
	if err != nil {
		return nil, err
	}
	payment, err := lending.ParseMoney(amount, s.Currency)
	if err != nil {
		return nil, err
	}

	res, err := lending.Allocate(installments, payment)
	if err != nil {
		return nil, err
	}
	log.Debug("Payment allocated", zap.Stringer("payment", payment), zap.Int("installments", len(res.Applied)), zap.Stringer("leftover", res.Leftover))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTALLMENT\tDUE\tAPPLIED\tOUTSTANDING\tSTATUS")
	applied := make(map[string]lending.Money, len(res.Applied))
	for _, a := range res.Applied {
		applied[a.InstallmentID] = a.Amount
	}
	for i := range res.Installments {
		in := &res.Installments[i]
		a, ok := applied[in.ID]
		if !ok {
			a = lending.NewMoneyZero(s.Currency)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", in.ID, in.Due.Format(dueLayout), a, in.Outstanding(), in.Status())
	}
	fmt.Fprintf(tw, "leftover\t\t%s\t%s\t\n", res.Leftover, lending.Outstanding(res.Installments, s.Currency))
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return yaml.Marshal(s.updated(res.Installments))
}
