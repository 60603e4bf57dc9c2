package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/de-tools/cloud-atlas/pkg/models/domain"
)

const (
	MetricAmortizedCost    = "AmortizedCost"
	MetricUnblendedCost    = "UnblendedCost"
	MetricNetAmortizedCost = "NetAmortizedCost"
	MetricNetUnblendedCost = "NetUnblendedCost"
	MetricBlendedCost      = "BlendedCost"

	defaultCurrency = "USD"

	// memberWindowMonths is the trailing breakdown window used by the
	// full billing report.
	memberWindowMonths = 12
)

// ErrMalformedAmount marks a cost amount that could not be parsed as
// a decimal. The totals fold treats this as a failure; the per-account
// breakdown deliberately defaults missing amounts to zero instead.
var ErrMalformedAmount = errors.New("malformed cost amount")

type Gateway interface {
	QueryCost(ctx context.Context, q domain.CostQuery) ([]domain.CostBucket, error)
	CallerIdentity(ctx context.Context) (string, error)
}

type Reporter interface {
	LastMonthCost(ctx context.Context) (*domain.MonthlyCost, error)
	MemberAccountCosts(ctx context.Context, start, end time.Time) ([]domain.AccountCostPeriod, error)
	BillingReport(ctx context.Context) domain.BillingReport
}

type reporter struct {
	gw  Gateway
	now func() time.Time
}

func NewReporter(gw Gateway) Reporter {
	return &reporter{gw: gw, now: time.Now}
}

// NewReporterWithClock injects the clock the calendar window math runs
// against. Used by tests.
func NewReporterWithClock(gw Gateway, now func() time.Time) Reporter {
	return &reporter{gw: gw, now: now}
}

// LastMonthCost sums the four cost metrics over the previous full
// calendar month (UTC). The query bound is half-open and ends on the
// first day of the current month; EndDisplay is the last day of the
// previous month and never reaches the provider.
func (r *reporter) LastMonthCost(ctx context.Context) (*domain.MonthlyCost, error) {
	now := r.now().UTC()
	start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	metricNames := []string{
		MetricAmortizedCost,
		MetricUnblendedCost,
		MetricNetAmortizedCost,
		MetricNetUnblendedCost,
	}
	buckets, err := r.gw.QueryCost(ctx, domain.CostQuery{
		Start:   start,
		End:     end,
		Metrics: metricNames,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query last month cost: %w", err)
	}

	totals := make(map[string]*apd.Decimal, len(metricNames))
	for _, name := range metricNames {
		totals[name] = new(apd.Decimal)
	}

	// A single month normally yields one bucket, but the provider is
	// allowed to return more; fold over all of them.
	for _, bucket := range buckets {
		for _, name := range metricNames {
			amount, ok := bucket.Totals[name]
			if !ok || amount.Amount == "" {
				continue
			}
			if err := addAmount(totals[name], amount.Amount); err != nil {
				return nil, fmt.Errorf("%w: %s %q", ErrMalformedAmount, name, amount.Amount)
			}
		}
	}

	currency := defaultCurrency
	if len(buckets) > 0 {
		if amount, ok := buckets[0].Totals[MetricAmortizedCost]; ok && amount.Unit != "" {
			currency = amount.Unit
		}
	}

	return &domain.MonthlyCost{
		Start:            start,
		EndDisplay:       end.AddDate(0, 0, -1),
		AmortizedCost:    formatCents(totals[MetricAmortizedCost]),
		UnblendedCost:    formatCents(totals[MetricUnblendedCost]),
		NetAmortizedCost: formatCents(totals[MetricNetAmortizedCost]),
		NetUnblendedCost: formatCents(totals[MetricNetUnblendedCost]),
		Currency:         currency,
	}, nil
}

// MemberAccountCosts breaks the [start, end) range down per linked
// account at monthly granularity. Missing amounts count as zero.
func (r *reporter) MemberAccountCosts(
	ctx context.Context,
	start, end time.Time,
) ([]domain.AccountCostPeriod, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("invalid range: start %s is not before end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	buckets, err := r.gw.QueryCost(ctx, domain.CostQuery{
		Start:                start,
		End:                  end,
		Metrics:              []string{MetricBlendedCost, MetricUnblendedCost, MetricAmortizedCost},
		GroupByLinkedAccount: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query member account costs: %w", err)
	}

	periods := make([]domain.AccountCostPeriod, 0, len(buckets))
	for _, bucket := range buckets {
		period := domain.AccountCostPeriod{
			Start:    bucket.Start,
			End:      bucket.End,
			Accounts: make([]domain.AccountCost, 0, len(bucket.Groups)),
		}
		for _, group := range bucket.Groups {
			account := domain.AccountCost{
				BlendedCost:   roundAmount(group.Metrics[MetricBlendedCost]),
				UnblendedCost: roundAmount(group.Metrics[MetricUnblendedCost]),
				AmortizedCost: roundAmount(group.Metrics[MetricAmortizedCost]),
				Currency:      defaultCurrency,
			}
			if len(group.Keys) > 0 {
				account.AccountID = group.Keys[0]
			}
			if unit := group.Metrics[MetricBlendedCost].Unit; unit != "" {
				account.Currency = unit
			}
			period.Accounts = append(period.Accounts, account)
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// BillingReport assembles caller identity, last-month totals and the
// trailing per-account breakdown. Billing is diagnostic: failures are
// downgraded to a typed error report instead of being raised.
func (r *reporter) BillingReport(ctx context.Context) domain.BillingReport {
	caller, err := r.gw.CallerIdentity(ctx)
	if err != nil {
		return errorReport(fmt.Errorf("failed to resolve caller identity: %w", err))
	}

	lastMonth, err := r.LastMonthCost(ctx)
	if err != nil {
		return errorReport(err)
	}

	now := r.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	members, err := r.MemberAccountCosts(ctx,
		monthStart.AddDate(0, -memberWindowMonths, 0),
		time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		return errorReport(err)
	}

	return domain.BillingReport{
		Status:         domain.BillingStatusSuccess,
		CallerAccount:  caller,
		LastMonth:      lastMonth,
		MemberAccounts: members,
	}
}

func errorReport(err error) domain.BillingReport {
	return domain.BillingReport{
		Status:  domain.BillingStatusError,
		Message: fmt.Sprintf("failed to fetch cost data: %v", err),
	}
}

var decimalCtx = func() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Rounding = apd.RoundHalfUp
	return ctx
}()

func addAmount(total *apd.Decimal, amount string) error {
	var d apd.Decimal
	if _, _, err := d.SetString(amount); err != nil {
		return err
	}
	_, err := decimalCtx.Add(total, total, &d)
	return err
}

// formatCents rounds to two decimals, half away from zero. Rounding
// happens once at formatting time, never per bucket.
func formatCents(d *apd.Decimal) string {
	var rounded apd.Decimal
	if _, err := decimalCtx.Quantize(&rounded, d, -2); err != nil {
		return "0.00"
	}
	return rounded.Text('f')
}

// roundAmount is the zero-defaulting variant used by the per-account
// breakdown: an absent or malformed amount renders as "0.00".
func roundAmount(amount domain.CostAmount) string {
	var d apd.Decimal
	if amount.Amount == "" {
		return "0.00"
	}
	if _, _, err := d.SetString(amount.Amount); err != nil {
		return "0.00"
	}
	return formatCents(&d)
}
