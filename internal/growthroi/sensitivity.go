package growthroi

import (
	"fmt"
	"strings"
)

const (
	DefaultSteps     = 10
	defaultLowScale  = 0.5
	defaultHighScale = 1.5
)

type Parameter string

const (
	ParamCAC                     Parameter = "cac"
	ParamLTV                     Parameter = "ltv"
	ParamTotalAdSpend            Parameter = "total_ad_spend"
	ParamRetentionCosts          Parameter = "retention_costs"
	ParamProductEngineeringCosts Parameter = "product_engineering_costs"
	ParamChurnRate               Parameter = "churn_rate"
	ParamConversionRate          Parameter = "conversion_rate"
	ParamExpansionRevenue        Parameter = "expansion_revenue"
	ParamReferralRevenueImpact   Parameter = "referral_revenue_impact"
)

type parameterField struct {
	get func(Inputs) float64
	set func(*Inputs, float64)
}

var parameterFields = map[Parameter]parameterField{
	ParamCAC: {
		get: func(in Inputs) float64 { return in.CAC },
		set: func(in *Inputs, v float64) { in.CAC = v },
	},
	ParamLTV: {
		get: func(in Inputs) float64 { return in.LTV },
		set: func(in *Inputs, v float64) { in.LTV = v },
	},
	ParamTotalAdSpend: {
		get: func(in Inputs) float64 { return in.TotalAdSpend },
		set: func(in *Inputs, v float64) { in.TotalAdSpend = v },
	},
	ParamRetentionCosts: {
		get: func(in Inputs) float64 { return in.RetentionCosts },
		set: func(in *Inputs, v float64) { in.RetentionCosts = v },
	},
	ParamProductEngineeringCosts: {
		get: func(in Inputs) float64 { return in.ProductEngineeringCosts },
		set: func(in *Inputs, v float64) { in.ProductEngineeringCosts = v },
	},
	ParamChurnRate: {
		get: func(in Inputs) float64 { return in.ChurnRate },
		set: func(in *Inputs, v float64) { in.ChurnRate = v },
	},
	ParamConversionRate: {
		get: func(in Inputs) float64 { return in.ConversionRate },
		set: func(in *Inputs, v float64) { in.ConversionRate = v },
	},
	ParamExpansionRevenue: {
		get: func(in Inputs) float64 { return in.ExpansionRevenue },
		set: func(in *Inputs, v float64) { in.ExpansionRevenue = v },
	},
	ParamReferralRevenueImpact: {
		get: func(in Inputs) float64 { return in.ReferralRevenueImpact },
		set: func(in *Inputs, v float64) { in.ReferralRevenueImpact = v },
	},
}

// ParseParameter accepts the snake_case parameter names. An empty string
// selects CAC.
func ParseParameter(raw string) (Parameter, error) {
	p := Parameter(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return ParamCAC, nil
	}
	if _, ok := parameterFields[p]; !ok {
		return "", fmt.Errorf("unknown sensitivity parameter %q", raw)
	}
	return p, nil
}

// Value reads the parameter from in. Unknown parameters read as 0.
func (p Parameter) Value(in Inputs) float64 {
	f, ok := parameterFields[p]
	if !ok {
		return 0
	}
	return f.get(in)
}

// With returns a copy of in with the parameter replaced by v.
func (p Parameter) With(in Inputs, v float64) Inputs {
	if f, ok := parameterFields[p]; ok {
		f.set(&in, v)
	}
	return in
}

// DefaultRange is 50% to 150% of the parameter's current value.
func DefaultRange(in Inputs, p Parameter) (low, high float64) {
	v := p.Value(in)
	return v * defaultLowScale, v * defaultHighScale
}

// Sweep samples steps linearly spaced values of p over [low, high], both
// endpoints included, and reports the growth ROI at each one. Every sample
// substitutes into the original in, so samples never depend on each other.
// The series is returned in ascending parameter order.
func Sweep(in Inputs, p Parameter, low, high float64, steps int) []SensitivityPoint {
	if steps <= 0 {
		return []SensitivityPoint{}
	}
	if low > high {
		low, high = high, low
	}
	out := make([]SensitivityPoint, 0, steps)
	for i := 0; i < steps; i++ {
		v := linspace(low, high, steps, i)
		out = append(out, SensitivityPoint{Value: v, GrowthROI: Compute(p.With(in, v)).GrowthROI})
	}
	return out
}

// SweepCAC is Sweep over CAC with the default 50%-150% range and 10 steps.
func SweepCAC(in Inputs) []SensitivityPoint {
	low, high := DefaultRange(in, ParamCAC)
	return Sweep(in, ParamCAC, low, high, DefaultSteps)
}

func linspace(low, high float64, n, i int) float64 {
	if n == 1 {
		return low
	}
	if i == n-1 {
		return high
	}
	step := (high - low) / float64(n-1)
	return low + float64(i)*step
}

// FindOptimum is a stable argmax over growth ROI: ties go to the earliest
// point. It reports false for an empty series.
func FindOptimum(series []SensitivityPoint) (SensitivityPoint, bool) {
	i, ok := optimumIndex(series)
	if !ok {
		return SensitivityPoint{}, false
	}
	return series[i], true
}

func optimumIndex(series []SensitivityPoint) (int, bool) {
	if len(series) == 0 {
		return 0, false
	}
	best := 0
	for i := 1; i < len(series); i++ {
		if series[i].GrowthROI > series[best].GrowthROI {
			best = i
		}
	}
	return best, true
}

func CompareOptimum(current, optimum float64) OptimumInsight {
	ins := OptimumInsight{Current: current, Optimum: optimum}
	switch {
	case optimum < current:
		ins.Direction = DirectionBelow
		ins.Difference = current - optimum
	case optimum > current:
		ins.Direction = DirectionAbove
		ins.Difference = optimum - current
	default:
		ins.Direction = DirectionEqual
	}
	return ins
}

// Signal colors the insight the way the calculator does: an optimum below
// the current value is good news, one above it is not.
func (i OptimumInsight) Signal() Signal {
	switch i.Direction {
	case DirectionBelow:
		return SignalPositive
	case DirectionAbove:
		return SignalNegative
	default:
		return SignalNeutral
	}
}

// Analyze runs Sweep and derives the optimum and insight. Zero low and high
// select DefaultRange, non-positive steps select DefaultSteps.
func Analyze(in Inputs, p Parameter, low, high float64, steps int) SensitivityAnalysis {
	if p == "" {
		p = ParamCAC
	}
	if low == 0 && high == 0 {
		low, high = DefaultRange(in, p)
	}
	return AnalyzeRange(in, p, low, high, steps)
}

// AnalyzeRange is Analyze without the default range, so [0, 0] sweeps zero.
func AnalyzeRange(in Inputs, p Parameter, low, high float64, steps int) SensitivityAnalysis {
	if p == "" {
		p = ParamCAC
	}
	if steps <= 0 {
		steps = DefaultSteps
	}
	if low > high {
		low, high = high, low
	}
	a := SensitivityAnalysis{
		Parameter:    p,
		Low:          low,
		High:         high,
		Points:       Sweep(in, p, low, high, steps),
		OptimumIndex: -1,
	}
	if i, ok := optimumIndex(a.Points); ok {
		a.HasOptimum = true
		a.Optimum = a.Points[i]
		a.OptimumIndex = i
		a.Insight = CompareOptimum(p.Value(in), a.Optimum.Value)
	}
	return a
}
