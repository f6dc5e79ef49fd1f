package growthroi

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reference URLs used in the report markdown.
const (
	ltvCACURL      = "https://www.investopedia.com/terms/c/customer-acquisition-cost.asp"
	churnRateURL   = "https://www.investopedia.com/terms/c/churnrate.asp"
	roiURL         = "https://www.investopedia.com/terms/r/returnoninvestment.asp"
	sensitivityURL = "https://www.investopedia.com/terms/s/sensitivityanalysis.asp"
)

type ReportOptions struct {
	ID          string
	Title       string
	GeneratedAt time.Time
	Commentary  string
}

type Report struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	GeneratedAt    time.Time  `json:"generated_at"`
	Tier           Tier       `json:"recommendation_tier"`
	Recommendation string     `json:"recommendation"`
	Commentary     string     `json:"commentary,omitempty"`
	Disclaimer     string     `json:"disclaimer"`
	Evaluation     Evaluation `json:"evaluation"`
	Markdown       string     `json:"report_markdown"`
}

func BuildReport(ev Evaluation, opts ReportOptions) Report {
	r := Report{
		ID:             strings.TrimSpace(opts.ID),
		Title:          strings.TrimSpace(opts.Title),
		GeneratedAt:    opts.GeneratedAt,
		Tier:           ev.Health.Tier,
		Recommendation: ev.Recommendation,
		Commentary:     strings.TrimSpace(opts.Commentary),
		Disclaimer:     Disclaimer,
		Evaluation:     ev,
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Title == "" {
		r.Title = "Growth ROI Report"
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	r.Markdown = buildMarkdown(r)
	return r
}

func buildMarkdown(r Report) string {
	ev := r.Evaluation
	m := ev.Metrics
	in := ev.Inputs

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", sanitize(r.Title))
	fmt.Fprintf(&b, "- Report ID: %s\n", r.ID)
	fmt.Fprintf(&b, "- Date: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Health score: %d/%d (%s)\n\n", ev.Health.Score, ev.Health.MaxScore, formatPct(ev.Health.Percentage, 0))
	fmt.Fprintf(&b, "%s\n\n", Disclaimer)

	fmt.Fprintf(&b, "## Recommendation\n\n")
	fmt.Fprintf(&b, "- Tier: `%s`\n", ev.Health.Tier)
	fmt.Fprintf(&b, "- %s\n\n", ev.Recommendation)
	if r.Commentary != "" {
		fmt.Fprintf(&b, "### Analyst Commentary\n\n%s\n\n", sanitize(r.Commentary))
	}
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "## ROI Analysis\n\n")
	fmt.Fprintf(&b, "| Metric | Value | Signal | Note |\n")
	fmt.Fprintf(&b, "|--------|-------|--------|------|\n")
	signals := signalIndex(ev.Signals)
	writeSignalRow(&b, "True Growth ROI", formatPct(m.GrowthROI, 2), signals["growth_roi"])
	writeSignalRow(&b, "Break-Even CAC", formatUSD(m.BreakEvenCAC), signals["break_even_cac"])
	writeSignalRow(&b, "Traditional LTV:CAC Ratio", fmt.Sprintf("%.2f", m.LTVCACRatio), signals["ltv_cac_ratio"])
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "[Growth ROI](%s) = ((Net Revenue - Acquisition & Retention Costs) / Total Growth Investment) x 100. "+
		"Break-even CAC is the highest acquisition cost the current churn, expansion and referral rates can carry. "+
		"A [LTV:CAC](%s) ratio of 3:1 or higher is the usual target.\n\n", roiURL, ltvCACURL)

	fmt.Fprintf(&b, "## Detailed Performance Metrics\n\n")
	fmt.Fprintf(&b, "| Metric | Value | Signal | Note |\n")
	fmt.Fprintf(&b, "|--------|-------|--------|------|\n")
	writeSignalRow(&b, "Revenue Lost to Churn", formatUSD(m.ChurnLoss), signals["churn_loss"])
	writeSignalRow(&b, "Expansion Revenue Impact", formatUSD(m.ExpansionImpact), signals["expansion_impact"])
	writeSignalRow(&b, "Referral Revenue Impact", formatUSD(m.ReferralImpact), signals["referral_impact"])
	writeSignalRow(&b, "Profitable Ad Revenue", formatUSD(m.ProfitableRevenueFromAds), signals["profitable_revenue_from_ads"])
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## Inputs\n\n")
	fmt.Fprintf(&b, "| Input | Value |\n|-------|-------|\n")
	fmt.Fprintf(&b, "| Customer Acquisition Cost (CAC) | %s |\n", formatUSD(in.CAC))
	fmt.Fprintf(&b, "| Customer Lifetime Value (LTV) | %s |\n", formatUSD(in.LTV))
	fmt.Fprintf(&b, "| Total Ad Spend | %s |\n", formatUSD(in.TotalAdSpend))
	fmt.Fprintf(&b, "| Retention Costs | %s |\n", formatUSD(in.RetentionCosts))
	fmt.Fprintf(&b, "| Product & Engineering Costs | %s |\n", formatUSD(in.ProductEngineeringCosts))
	fmt.Fprintf(&b, "| [Churn Rate](%s) | %s |\n", churnRateURL, formatRate(in.ChurnRate, 1))
	fmt.Fprintf(&b, "| Conversion Rate | %s |\n", formatRate(in.ConversionRate, 2))
	fmt.Fprintf(&b, "| Expansion Revenue | %s |\n", formatRate(in.ExpansionRevenue, 1))
	fmt.Fprintf(&b, "| Referral Revenue Impact | %s |\n\n", formatRate(in.ReferralRevenueImpact, 1))

	fmt.Fprintf(&b, "## Revenue Composition\n\n")
	fmt.Fprintf(&b, "| Component | Amount |\n|-----------|--------|\n")
	for _, c := range ev.Composition.Components {
		fmt.Fprintf(&b, "| %s | %s |\n", c.Category, formatUSD(c.Value))
	}
	fmt.Fprintf(&b, "| **Net Revenue** | **%s** |\n\n", formatUSD(m.TotalRevenue))
	fmt.Fprintf(&b, "- Total positive impact: %s\n", formatUSD(ev.Composition.TotalPositive))
	fmt.Fprintf(&b, "- Churn loss: %s (%s of positive revenue)\n", formatUSD(ev.Composition.ChurnLoss), formatPct(ev.Composition.ChurnSharePct, 1))
	fmt.Fprintf(&b, "- Total growth investment: %s (acquisition & retention: %s)\n\n",
		formatUSD(m.TotalGrowthInvestment), formatUSD(m.AcquisitionRetentionCosts))

	writeSensitivity(&b, ev.Sensitivity)

	fmt.Fprintf(&b, "## Health Scorecard\n\n")
	fmt.Fprintf(&b, "| Factor | Status |\n|--------|--------|\n")
	for _, c := range ev.Health.Checks {
		status := "Needs Improvement"
		if c.Passed {
			status = "Good"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", c.Label, status)
	}
	fmt.Fprintf(&b, "\n**Overall Health Score:** %d/%d (%s). Tiers: `GOOD` at 80%% or more, `MODERATE` from 50%%, `POOR` below.\n\n",
		ev.Health.Score, ev.Health.MaxScore, formatPct(ev.Health.Percentage, 0))

	fmt.Fprintf(&b, "## How This Report Works\n\n")
	fmt.Fprintf(&b, "New customers are ad spend x conversion rate / CAC. Base revenue is new customers x LTV; "+
		"expansion, referral and churn each move revenue by their rate applied to base revenue. "+
		"Degenerate inputs fall back to zero: a zero CAC yields no new customers, a zero total investment yields a zero ROI "+
		"and a churn rate of 100%% or more yields a zero break-even CAC.\n")
	return b.String()
}

func writeSensitivity(b *strings.Builder, a SensitivityAnalysis) {
	label := parameterLabel(a.Parameter)
	fmt.Fprintf(b, "## Sensitivity Analysis\n\n")
	fmt.Fprintf(b, "Growth ROI as %s moves from %s to %s, holding every other input fixed ([method](%s)).\n\n",
		label, formatParam(a.Parameter, a.Low), formatParam(a.Parameter, a.High), sensitivityURL)
	if len(a.Points) == 0 {
		fmt.Fprintf(b, "_No samples._\n\n")
		return
	}
	fmt.Fprintf(b, "| %s | Growth ROI |\n|---|---|\n", label)
	for i, p := range a.Points {
		marker := ""
		if a.HasOptimum && i == a.OptimumIndex {
			marker = " (optimum)"
		}
		fmt.Fprintf(b, "| %s | %s%s |\n", formatParam(a.Parameter, p.Value), formatPct(p.GrowthROI, 2), marker)
	}
	fmt.Fprintf(b, "\n")
	if !a.HasOptimum {
		return
	}
	in := a.Insight
	switch in.Direction {
	case DirectionBelow:
		fmt.Fprintf(b, "**Key Insight:** the optimum %s for maximum ROI is **%s**, **%s less** than the current value.\n\n",
			label, formatParam(a.Parameter, in.Optimum), formatParam(a.Parameter, in.Difference))
	case DirectionAbove:
		fmt.Fprintf(b, "**Key Insight:** the optimum %s for maximum ROI is **%s**, **%s more** than the current value.\n\n",
			label, formatParam(a.Parameter, in.Optimum), formatParam(a.Parameter, in.Difference))
	default:
		fmt.Fprintf(b, "**Key Insight:** the current %s of **%s** already maximizes ROI in this range.\n\n",
			label, formatParam(a.Parameter, in.Optimum))
	}
}

func writeSignalRow(b *strings.Builder, label, value string, s MetricSignal) {
	fmt.Fprintf(b, "| %s | %s | %s | %s |\n", label, value, signalBadge(s.Signal), sanitizeCell(s.Detail))
}

func signalIndex(signals []MetricSignal) map[string]MetricSignal {
	out := make(map[string]MetricSignal, len(signals))
	for _, s := range signals {
		out[s.Metric] = s
	}
	return out
}

func signalBadge(s Signal) string {
	switch s {
	case SignalPositive:
		return "▲ positive"
	case SignalNegative:
		return "▼ negative"
	case SignalNeutral:
		return "► neutral"
	default:
		return "—"
	}
}

func parameterLabel(p Parameter) string {
	switch p {
	case ParamCAC:
		return "CAC"
	case ParamLTV:
		return "LTV"
	case ParamTotalAdSpend:
		return "ad spend"
	case ParamRetentionCosts:
		return "retention costs"
	case ParamProductEngineeringCosts:
		return "product & engineering costs"
	case ParamChurnRate:
		return "churn rate"
	case ParamConversionRate:
		return "conversion rate"
	case ParamExpansionRevenue:
		return "expansion revenue"
	case ParamReferralRevenueImpact:
		return "referral revenue impact"
	default:
		return string(p)
	}
}

func isRateParameter(p Parameter) bool {
	switch p {
	case ParamChurnRate, ParamConversionRate, ParamExpansionRevenue, ParamReferralRevenueImpact:
		return true
	}
	return false
}

func formatParam(p Parameter, v float64) string {
	if isRateParameter(p) {
		return formatRate(v, 2)
	}
	return formatUSD(v)
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
}

func sanitizeCell(s string) string {
	s = sanitize(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
