package growthroi

// Compute evaluates every derived metric for in. Degenerate divisions
// resolve to 0 instead of failing: cac == 0 gives no new customers and no
// LTV:CAC ratio, a zero total investment gives a zero ROI and churn >= 1
// gives a zero break-even CAC.
func Compute(in Inputs) Metrics {
	m := computeRevenue(in)
	h := ScoreHealth(m, in)
	m.HealthScore = h.Score
	m.HealthPercentage = h.Percentage
	m.RecommendationTier = h.Tier
	return m
}

func computeRevenue(in Inputs) Metrics {
	var m Metrics
	if in.CAC > 0 {
		m.NewCustomers = in.TotalAdSpend * in.ConversionRate / in.CAC
		m.LTVCACRatio = in.LTV / in.CAC
	}
	m.BaseRevenue = m.NewCustomers * in.LTV
	m.ExpansionImpact = m.BaseRevenue * in.ExpansionRevenue
	m.ReferralImpact = m.BaseRevenue * in.ReferralRevenueImpact
	m.ChurnLoss = m.BaseRevenue * in.ChurnRate
	m.TotalRevenue = m.BaseRevenue + m.ExpansionImpact + m.ReferralImpact - m.ChurnLoss

	m.TotalGrowthInvestment = in.TotalAdSpend + in.RetentionCosts + in.ProductEngineeringCosts
	m.AcquisitionRetentionCosts = in.TotalAdSpend + in.RetentionCosts
	if m.TotalGrowthInvestment > 0 {
		m.GrowthROI = (m.TotalRevenue - m.AcquisitionRetentionCosts) / m.TotalGrowthInvestment * 100
	}

	if in.ChurnRate < 1 {
		m.BreakEvenCAC = in.LTV * (1 + in.ExpansionRevenue + in.ReferralRevenueImpact - in.ChurnRate)
	}
	m.ProfitableRevenueFromAds = in.TotalAdSpend * in.ConversionRate
	return m
}

