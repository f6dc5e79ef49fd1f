package growthroi

// Composition is the revenue breakdown chart data. Zero-valued components are
// dropped and churn is reported as a negative bar.
func Composition(m Metrics) RevenueComposition {
	all := []RevenueComponent{
		{Category: "Base Revenue", Value: m.BaseRevenue},
		{Category: "Expansion Impact", Value: m.ExpansionImpact},
		{Category: "Referral Impact", Value: m.ReferralImpact},
		{Category: "Churn Loss", Value: -m.ChurnLoss},
	}
	c := RevenueComposition{
		Components:    make([]RevenueComponent, 0, len(all)),
		TotalPositive: m.BaseRevenue + m.ExpansionImpact + m.ReferralImpact,
		ChurnLoss:     m.ChurnLoss,
	}
	for _, rc := range all {
		if rc.Value != 0 {
			c.Components = append(c.Components, rc)
		}
	}
	if c.TotalPositive != 0 {
		c.ChurnSharePct = m.ChurnLoss / c.TotalPositive * 100
	}
	return c
}
