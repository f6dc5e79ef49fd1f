package growthroi

// Range is an inclusive [Min, Max] bound on a rate, as a fraction.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Bounds are the input limits a caller enforces before calling the engine.
// Currency amounts are only held non-negative.
type Bounds struct {
	ChurnRate             Range `json:"churn_rate"`
	ConversionRate        Range `json:"conversion_rate"`
	ExpansionRevenue      Range `json:"expansion_revenue"`
	ReferralRevenueImpact Range `json:"referral_revenue_impact"`
}

var DefaultBounds = Bounds{
	ChurnRate:             Range{Min: 0, Max: 0.50},
	ConversionRate:        Range{Min: 0, Max: 0.30},
	ExpansionRevenue:      Range{Min: 0, Max: 0.30},
	ReferralRevenueImpact: Range{Min: 0, Max: 0.50},
}

func (b Bounds) Clamp(in Inputs) Inputs {
	in.CAC = nonNegative(in.CAC)
	in.LTV = nonNegative(in.LTV)
	in.TotalAdSpend = nonNegative(in.TotalAdSpend)
	in.RetentionCosts = nonNegative(in.RetentionCosts)
	in.ProductEngineeringCosts = nonNegative(in.ProductEngineeringCosts)
	in.ChurnRate = b.ChurnRate.clamp(in.ChurnRate)
	in.ConversionRate = b.ConversionRate.clamp(in.ConversionRate)
	in.ExpansionRevenue = b.ExpansionRevenue.clamp(in.ExpansionRevenue)
	in.ReferralRevenueImpact = b.ReferralRevenueImpact.clamp(in.ReferralRevenueImpact)
	return in
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// DefaultInputs are the calculator's starting values.
func DefaultInputs() Inputs {
	return Inputs{
		CAC:                     200,
		LTV:                     600,
		TotalAdSpend:            10000,
		RetentionCosts:          5000,
		ProductEngineeringCosts: 15000,
		ChurnRate:               0.05,
		ConversionRate:          0.025,
		ExpansionRevenue:        0.10,
		ReferralRevenueImpact:   0.15,
	}
}
