package forecast

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/funance/funance/spec"
)

// RunwaySource is one named pool of funds counted toward the runway.
type RunwaySource struct {
	Name  string
	Value decimal.Decimal
}

// RunwayReport answers how many months of spending the emergency fund
// covers against the stated goal.
type RunwayReport struct {
	Sources      []RunwaySource
	Total        decimal.Decimal
	GoalMonths   decimal.Decimal
	ActualMonths decimal.Decimal
}

// NewRunwayReport computes the runway report from the document's
// emergency-fund declaration.
func NewRunwayReport(ef *spec.EmergencyFund) (*RunwayReport, error) {
	monthly := decimal.NewFromFloat(ef.MonthlySpendingAssumption)
	if !monthly.IsPositive() {
		return nil, fmt.Errorf("monthly_spending_assumption must be positive: %s", monthly)
	}

	report := &RunwayReport{GoalMonths: decimal.NewFromFloat(ef.RunwayGoalMos)}
	for _, source := range ef.Sources {
		value := decimal.NewFromFloat(source.Value)
		report.Sources = append(report.Sources, RunwaySource{Name: source.Name, Value: value})
		report.Total = report.Total.Add(value)
	}
	report.ActualMonths = report.Total.Div(monthly)
	return report, nil
}

// MeetsGoal reports whether the fund covers at least the goal months.
func (r *RunwayReport) MeetsGoal() bool {
	return r.ActualMonths.GreaterThanOrEqual(r.GoalMonths)
}
