package domain

import "time"

// CostQuery describes one cost-and-usage lookup. Start is inclusive,
// End exclusive (the provider contract is a half-open interval).
type CostQuery struct {
	Start                time.Time
	End                  time.Time
	Metrics              []string
	GroupByLinkedAccount bool
}

// CostAmount is a raw money figure as returned by the provider: a
// decimal string plus a currency unit.
type CostAmount struct {
	Amount string
	Unit   string
}

type CostGroup struct {
	Keys    []string
	Metrics map[string]CostAmount
}

// CostBucket is one time bucket of a cost query result. Totals is set
// for ungrouped queries, Groups for grouped ones.
type CostBucket struct {
	Start  time.Time
	End    time.Time
	Totals map[string]CostAmount
	Groups []CostGroup
}

// MonthlyCost holds the summed cost figures for one calendar month,
// formatted to two decimals. EndDisplay is the last day of the month;
// the query itself always runs against the half-open interval ending
// on the first day of the following month.
type MonthlyCost struct {
	Start            time.Time
	EndDisplay       time.Time
	AmortizedCost    string
	UnblendedCost    string
	NetAmortizedCost string
	NetUnblendedCost string
	Currency         string
}

type AccountCost struct {
	AccountID     string
	BlendedCost   string
	UnblendedCost string
	AmortizedCost string
	Currency      string
}

// AccountCostPeriod is the per-linked-account breakdown for one time
// bucket.
type AccountCostPeriod struct {
	Start    time.Time
	End      time.Time
	Accounts []AccountCost
}

// BillingReport is the full billing view. Billing is diagnostic: a
// failed report carries Status "error" and a message instead of
// propagating the failure.
type BillingReport struct {
	Status         string
	Message        string
	CallerAccount  string
	LastMonth      *MonthlyCost
	MemberAccounts []AccountCostPeriod
}

const (
	BillingStatusSuccess = "success"
	BillingStatusError   = "error"
)
