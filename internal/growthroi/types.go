package growthroi

const Disclaimer = "This is a rule-based growth ROI estimate, not financial advice. " +
	"Results depend entirely on the supplied inputs and assume revenue impacts scale linearly with base revenue."

// Inputs is one evaluation request. Rates are fractions, not percentages.
type Inputs struct {
	CAC                     float64 `json:"cac"`
	LTV                     float64 `json:"ltv"`
	TotalAdSpend            float64 `json:"total_ad_spend"`
	RetentionCosts          float64 `json:"retention_costs"`
	ProductEngineeringCosts float64 `json:"product_engineering_costs"`
	ChurnRate               float64 `json:"churn_rate"`
	ConversionRate          float64 `json:"conversion_rate"`
	ExpansionRevenue        float64 `json:"expansion_revenue"`
	ReferralRevenueImpact   float64 `json:"referral_revenue_impact"`
}

type Tier string

const (
	TierGood     Tier = "GOOD"
	TierModerate Tier = "MODERATE"
	TierPoor     Tier = "POOR"
)

type Signal string

const (
	SignalPositive Signal = "POSITIVE"
	SignalNeutral  Signal = "NEUTRAL"
	SignalNegative Signal = "NEGATIVE"
)

// Metrics is derived from exactly one Inputs value and is never mutated.
type Metrics struct {
	NewCustomers              float64 `json:"new_customers"`
	BaseRevenue               float64 `json:"base_revenue"`
	ExpansionImpact           float64 `json:"expansion_impact"`
	ReferralImpact            float64 `json:"referral_impact"`
	ChurnLoss                 float64 `json:"churn_loss"`
	TotalRevenue              float64 `json:"total_revenue"`
	TotalGrowthInvestment     float64 `json:"total_growth_investment"`
	AcquisitionRetentionCosts float64 `json:"acquisition_retention_costs"`
	GrowthROI                 float64 `json:"growth_roi"`
	BreakEvenCAC              float64 `json:"break_even_cac"`
	LTVCACRatio               float64 `json:"ltv_cac_ratio"`
	ProfitableRevenueFromAds  float64 `json:"profitable_revenue_from_ads"`
	HealthScore               int     `json:"health_score"`
	HealthPercentage          float64 `json:"health_percentage"`
	RecommendationTier        Tier    `json:"recommendation_tier"`
}

type CheckResult struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Weight int    `json:"weight"`
	Passed bool   `json:"passed"`
}

type Health struct {
	Score      int           `json:"score"`
	MaxScore   int           `json:"max_score"`
	Percentage float64       `json:"percentage"`
	Tier       Tier          `json:"tier"`
	Checks     []CheckResult `json:"checks"`
}

type MetricSignal struct {
	Metric string `json:"metric"`
	Signal Signal `json:"signal"`
	Detail string `json:"detail"`
}

type RevenueComponent struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

type RevenueComposition struct {
	Components    []RevenueComponent `json:"components"`
	TotalPositive float64            `json:"total_positive"`
	ChurnLoss     float64            `json:"churn_loss"`
	ChurnSharePct float64            `json:"churn_share_pct"`
}

type SensitivityPoint struct {
	Value     float64 `json:"value"`
	GrowthROI float64 `json:"growth_roi"`
}

type Direction string

const (
	DirectionBelow Direction = "BELOW"
	DirectionAbove Direction = "ABOVE"
	DirectionEqual Direction = "EQUAL"
)

// OptimumInsight says where the ROI-maximizing sample sits relative to the
// current value of the swept parameter.
type OptimumInsight struct {
	Current    float64   `json:"current"`
	Optimum    float64   `json:"optimum"`
	Direction  Direction `json:"direction"`
	Difference float64   `json:"difference"`
}

// SensitivityAnalysis is a sweep plus its optimum. OptimumIndex is the
// position of Optimum in Points, -1 when the series is empty.
type SensitivityAnalysis struct {
	Parameter    Parameter          `json:"parameter"`
	Low          float64            `json:"low"`
	High         float64            `json:"high"`
	Points       []SensitivityPoint `json:"points"`
	HasOptimum   bool               `json:"has_optimum"`
	Optimum      SensitivityPoint   `json:"optimum"`
	OptimumIndex int                `json:"optimum_index"`
	Insight      OptimumInsight     `json:"insight"`
}

type Evaluation struct {
	Inputs         Inputs              `json:"inputs"`
	Metrics        Metrics             `json:"metrics"`
	Health         Health              `json:"health"`
	Recommendation string              `json:"recommendation"`
	Signals        []MetricSignal      `json:"signals"`
	Composition    RevenueComposition  `json:"composition"`
	Sensitivity    SensitivityAnalysis `json:"sensitivity"`
}
