package growthroi

import "fmt"

// Signals classifies each headline metric as positive, neutral or negative
// for display. It carries no engine semantics.
func Signals(m Metrics, in Inputs) []MetricSignal {
	return []MetricSignal{
		roiSignal(m),
		breakEvenSignal(m, in),
		ltvCACSignal(m),
		churnSignal(in),
		thresholdSignal("expansion_impact", in.ExpansionRevenue >= TargetExpansionRate,
			fmt.Sprintf("%.1f%% increase", in.ExpansionRevenue*100)),
		thresholdSignal("referral_impact", in.ReferralRevenueImpact >= TargetReferralImpact,
			fmt.Sprintf("%.1f%% of revenue", in.ReferralRevenueImpact*100)),
		thresholdSignal("profitable_revenue_from_ads", in.ConversionRate >= TargetConversionRate,
			fmt.Sprintf("%.2f%% conversion rate", in.ConversionRate*100)),
	}
}

func roiSignal(m Metrics) MetricSignal {
	s := MetricSignal{Metric: "growth_roi", Detail: "Needs improvement"}
	switch {
	case m.GrowthROI > TargetGrowthROIPct:
		s.Signal = SignalPositive
	case m.GrowthROI > 0:
		s.Signal = SignalNeutral
	default:
		s.Signal = SignalNegative
	}
	if m.GrowthROI > 0 {
		s.Detail = "Beyond simple LTV:CAC"
	}
	return s
}

func breakEvenSignal(m Metrics, in Inputs) MetricSignal {
	if in.CAC < m.BreakEvenCAC {
		return MetricSignal{Metric: "break_even_cac", Signal: SignalPositive, Detail: fmt.Sprintf("Below current CAC (%s)", formatUSD(in.CAC))}
	}
	return MetricSignal{Metric: "break_even_cac", Signal: SignalNegative, Detail: fmt.Sprintf("Above current CAC (%s)", formatUSD(in.CAC))}
}

func ltvCACSignal(m Metrics) MetricSignal {
	if m.LTVCACRatio >= TargetLTVCACRatio {
		return MetricSignal{Metric: "ltv_cac_ratio", Signal: SignalPositive, Detail: "Good"}
	}
	return MetricSignal{Metric: "ltv_cac_ratio", Signal: SignalNegative, Detail: "Needs improvement"}
}

func churnSignal(in Inputs) MetricSignal {
	s := MetricSignal{Metric: "churn_loss", Signal: SignalPositive, Detail: fmt.Sprintf("%.1f%% of potential revenue", in.ChurnRate*100)}
	if in.ChurnRate > MaxHealthyChurnRate {
		s.Signal = SignalNegative
	}
	return s
}

func thresholdSignal(metric string, met bool, detail string) MetricSignal {
	s := MetricSignal{Metric: metric, Signal: SignalNeutral, Detail: detail}
	if met {
		s.Signal = SignalPositive
	}
	return s
}

func TierSignal(t Tier) Signal {
	switch t {
	case TierGood:
		return SignalPositive
	case TierModerate:
		return SignalNeutral
	default:
		return SignalNegative
	}
}
