package growthroi

import (
	"math"
	"testing"
)

const eps = 1e-9

func sampleInputs() Inputs {
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

func diff(a, b float64) float64 {
	return math.Abs(a - b)
}

func TestComputeReferenceScenario(t *testing.T) {
	m := Compute(sampleInputs())
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"new_customers", m.NewCustomers, 1.25},
		{"base_revenue", m.BaseRevenue, 750},
		{"expansion_impact", m.ExpansionImpact, 75},
		{"referral_impact", m.ReferralImpact, 112.5},
		{"churn_loss", m.ChurnLoss, 37.5},
		{"total_revenue", m.TotalRevenue, 900},
		{"total_growth_investment", m.TotalGrowthInvestment, 30000},
		{"acquisition_retention_costs", m.AcquisitionRetentionCosts, 15000},
		// (900 - 15000) / 30000 * 100
		{"growth_roi", m.GrowthROI, -47},
		{"break_even_cac", m.BreakEvenCAC, 720},
		{"ltv_cac_ratio", m.LTVCACRatio, 3},
		{"profitable_revenue_from_ads", m.ProfitableRevenueFromAds, 250},
	}
	for _, c := range checks {
		if diff(c.got, c.want) > 1e-6 {
			t.Errorf("%s: got=%f want=%f", c.name, c.got, c.want)
		}
	}
	// ltv:cac, churn, expansion and referral pass; ROI does not.
	if m.HealthScore != 4 {
		t.Fatalf("unexpected health score: %d", m.HealthScore)
	}
	if m.HealthPercentage != 80 {
		t.Fatalf("unexpected health percentage: %f", m.HealthPercentage)
	}
	if m.RecommendationTier != TierGood {
		t.Fatalf("unexpected tier: %s", m.RecommendationTier)
	}
}

func TestComputeTotalRevenueIdentity(t *testing.T) {
	cases := []Inputs{
		sampleInputs(),
		{CAC: 50, LTV: 1200, TotalAdSpend: 40000, RetentionCosts: 1000, ProductEngineeringCosts: 0, ChurnRate: 0.3, ConversionRate: 0.1, ExpansionRevenue: 0.25, ReferralRevenueImpact: 0.4},
		{CAC: 999.99, LTV: 10, TotalAdSpend: 1, RetentionCosts: 1, ProductEngineeringCosts: 1, ChurnRate: 0.5, ConversionRate: 0.3, ExpansionRevenue: 0, ReferralRevenueImpact: 0},
	}
	for i, in := range cases {
		m := Compute(in)
		want := m.BaseRevenue + m.ExpansionImpact + m.ReferralImpact - m.ChurnLoss
		if diff(m.TotalRevenue, want) > eps {
			t.Fatalf("case %d: total revenue %f != components %f", i, m.TotalRevenue, want)
		}
	}
}

func TestComputeZeroCAC(t *testing.T) {
	in := sampleInputs()
	in.CAC = 0
	m := Compute(in)
	if m.NewCustomers != 0 || m.BaseRevenue != 0 {
		t.Fatalf("expected no customers or base revenue, got %+v", m)
	}
	if m.ExpansionImpact != 0 || m.ReferralImpact != 0 || m.ChurnLoss != 0 || m.TotalRevenue != 0 {
		t.Fatalf("expected zero revenue impacts, got %+v", m)
	}
	if m.LTVCACRatio != 0 {
		t.Fatalf("expected zero ltv:cac ratio, got %f", m.LTVCACRatio)
	}
	want := -(in.TotalAdSpend + in.RetentionCosts) / m.TotalGrowthInvestment * 100
	if diff(m.GrowthROI, want) > eps {
		t.Fatalf("unexpected roi: got=%f want=%f", m.GrowthROI, want)
	}
	if diff(m.GrowthROI, -50) > eps {
		t.Fatalf("expected -50%% roi for the reference costs, got %f", m.GrowthROI)
	}
}

func TestComputeZeroInvestment(t *testing.T) {
	in := sampleInputs()
	in.TotalAdSpend = 0
	in.RetentionCosts = 0
	in.ProductEngineeringCosts = 0
	m := Compute(in)
	if m.GrowthROI != 0 {
		t.Fatalf("expected zero roi, got %f", m.GrowthROI)
	}
	if math.IsNaN(m.GrowthROI) || math.IsInf(m.GrowthROI, 0) {
		t.Fatal("roi must be finite")
	}
}

func TestComputeBreakEvenDegenerateChurn(t *testing.T) {
	for _, churn := range []float64{1, 1.5, 10} {
		in := sampleInputs()
		in.ChurnRate = churn
		if got := Compute(in).BreakEvenCAC; got != 0 {
			t.Fatalf("churn=%f: expected zero break-even cac, got %f", churn, got)
		}
	}
	in := sampleInputs()
	in.ChurnRate = 0.99
	if got := Compute(in).BreakEvenCAC; got <= 0 {
		t.Fatalf("expected positive break-even cac below full churn, got %f", got)
	}
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	in := sampleInputs()
	before := in
	_ = Compute(in)
	_ = Evaluate(in, Options{})
	if in != before {
		t.Fatal("inputs were mutated")
	}
}
