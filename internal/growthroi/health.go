package growthroi

const (
	TargetLTVCACRatio    = 3.0
	TargetGrowthROIPct   = 20.0
	MaxHealthyChurnRate  = 0.05
	TargetExpansionRate  = 0.10
	TargetReferralImpact = 0.15
	TargetConversionRate = 0.02
	GoodHealthPct        = 80.0
	ModerateHealthPct    = 50.0
)

const (
	recommendationGood     = "Your growth strategy is robust. Consider reinvesting in high-performing channels and further optimizing upsell and referral programs."
	recommendationModerate = "Your metrics are moderately healthy. Focus on improving churn and conversion rates, and consider targeted investments in product improvements."
	recommendationPoor     = "Your current metrics indicate significant room for improvement. Reassess your customer acquisition strategy, churn management, and invest in product enhancements."
)

// HealthCheck is one row of the health scorecard. Passes must be monotonic
// in the metric it tracks so that improving a metric never lowers the score.
type HealthCheck struct {
	Name   string
	Label  string
	Weight int
	Passes func(m Metrics, in Inputs) bool
}

var healthChecks = []HealthCheck{
	{
		Name:   "ltv_cac_ratio",
		Label:  "LTV:CAC ratio of at least 3:1",
		Weight: 1,
		Passes: func(m Metrics, _ Inputs) bool { return m.LTVCACRatio >= TargetLTVCACRatio },
	},
	{
		Name:   "growth_roi",
		Label:  "Growth ROI of at least 20%",
		Weight: 1,
		Passes: func(m Metrics, _ Inputs) bool { return m.GrowthROI >= TargetGrowthROIPct },
	},
	{
		Name:   "churn_rate",
		Label:  "Churn rate at or below 5%",
		Weight: 1,
		Passes: func(_ Metrics, in Inputs) bool { return in.ChurnRate <= MaxHealthyChurnRate },
	},
	{
		Name:   "expansion_revenue",
		Label:  "Expansion revenue of at least 10%",
		Weight: 1,
		Passes: func(_ Metrics, in Inputs) bool { return in.ExpansionRevenue >= TargetExpansionRate },
	},
	{
		Name:   "referral_revenue_impact",
		Label:  "Referral revenue impact of at least 15%",
		Weight: 1,
		Passes: func(_ Metrics, in Inputs) bool { return in.ReferralRevenueImpact >= TargetReferralImpact },
	},
}

// HealthChecks returns a copy of the scorecard rows in evaluation order.
func HealthChecks() []HealthCheck {
	out := make([]HealthCheck, len(healthChecks))
	copy(out, healthChecks)
	return out
}

func ScoreHealth(m Metrics, in Inputs) Health {
	return scoreWith(healthChecks, m, in)
}

func scoreWith(checks []HealthCheck, m Metrics, in Inputs) Health {
	h := Health{Checks: make([]CheckResult, 0, len(checks))}
	for _, c := range checks {
		passed := c.Passes(m, in)
		if passed {
			h.Score += c.Weight
		}
		h.MaxScore += c.Weight
		h.Checks = append(h.Checks, CheckResult{Name: c.Name, Label: c.Label, Weight: c.Weight, Passed: passed})
	}
	if h.MaxScore > 0 {
		h.Percentage = float64(h.Score) / float64(h.MaxScore) * 100
	}
	h.Tier = TierFor(h.Percentage)
	return h
}

func TierFor(percentage float64) Tier {
	switch {
	case percentage >= GoodHealthPct:
		return TierGood
	case percentage >= ModerateHealthPct:
		return TierModerate
	default:
		return TierPoor
	}
}

func Recommendation(t Tier) string {
	switch t {
	case TierGood:
		return recommendationGood
	case TierModerate:
		return recommendationModerate
	default:
		return recommendationPoor
	}
}
