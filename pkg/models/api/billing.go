package api

import "github.com/de-tools/cloud-atlas/pkg/models/domain"

const dateLayout = "2006-01-02"

type MonthlyCost struct {
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	AmortizedCost    string `json:"amortizedCost"`
	UnblendedCost    string `json:"unblendedCost"`
	NetAmortizedCost string `json:"netAmortizedCost"`
	NetUnblendedCost string `json:"netUnblendedCost"`
	Currency         string `json:"currency"`
}

type AccountCost struct {
	AccountID     string `json:"accountId"`
	BlendedCost   string `json:"blendedCost"`
	UnblendedCost string `json:"unblendedCost"`
	AmortizedCost string `json:"amortizedCost"`
	Currency      string `json:"currency"`
}

type TimePeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AccountCostPeriod struct {
	TimePeriod TimePeriod    `json:"timePeriod"`
	Accounts   []AccountCost `json:"accounts"`
}

type BillingReportData struct {
	CallerAccount  string              `json:"callerAccount"`
	LastMonth      *MonthlyCost        `json:"lastMonth,omitempty"`
	MemberAccounts []AccountCostPeriod `json:"memberAccounts,omitempty"`
}

// BillingReport is the envelope for the billing endpoint. Billing
// failures render as Status "error" with a message instead of a
// transport-level error.
type BillingReport struct {
	Status  string             `json:"status"`
	Message string             `json:"message,omitempty"`
	Data    *BillingReportData `json:"data,omitempty"`
}

func NewMonthlyCost(c domain.MonthlyCost) MonthlyCost {
	return MonthlyCost{
		StartDate:        c.Start.Format(dateLayout),
		EndDate:          c.EndDisplay.Format(dateLayout),
		AmortizedCost:    c.AmortizedCost,
		UnblendedCost:    c.UnblendedCost,
		NetAmortizedCost: c.NetAmortizedCost,
		NetUnblendedCost: c.NetUnblendedCost,
		Currency:         c.Currency,
	}
}

func NewAccountCostPeriod(p domain.AccountCostPeriod) AccountCostPeriod {
	period := AccountCostPeriod{
		TimePeriod: TimePeriod{
			Start: p.Start.Format(dateLayout),
			End:   p.End.Format(dateLayout),
		},
		Accounts: make([]AccountCost, 0, len(p.Accounts)),
	}
	for _, a := range p.Accounts {
		period.Accounts = append(period.Accounts, AccountCost{
			AccountID:     a.AccountID,
			BlendedCost:   a.BlendedCost,
			UnblendedCost: a.UnblendedCost,
			AmortizedCost: a.AmortizedCost,
			Currency:      a.Currency,
		})
	}
	return period
}

func NewBillingReport(r domain.BillingReport) BillingReport {
	report := BillingReport{
		Status:  r.Status,
		Message: r.Message,
	}
	if r.Status != domain.BillingStatusSuccess {
		return report
	}
	data := &BillingReportData{CallerAccount: r.CallerAccount}
	if r.LastMonth != nil {
		lastMonth := NewMonthlyCost(*r.LastMonth)
		data.LastMonth = &lastMonth
	}
	for _, p := range r.MemberAccounts {
		data.MemberAccounts = append(data.MemberAccounts, NewAccountCostPeriod(p))
	}
	report.Data = data
	return report
}
