package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joelkehle/growth-roi/internal/growthroi"
)

// Scenario is a named set of calculator inputs plus the sweep to run.
type Scenario struct {
	Name        string
	Inputs      growthroi.Inputs
	Sensitivity growthroi.Options
}

type scenarioFile struct {
	Name                    string   `yaml:"name"`
	CAC                     *float64 `yaml:"cac"`
	LTV                     *float64 `yaml:"ltv"`
	TotalAdSpend            *float64 `yaml:"total_ad_spend"`
	RetentionCosts          *float64 `yaml:"retention_costs"`
	ProductEngineeringCosts *float64 `yaml:"product_engineering_costs"`
	ChurnRate               *float64 `yaml:"churn_rate"`
	ChurnRatePct            *float64 `yaml:"churn_rate_pct"`
	ConversionRate          *float64 `yaml:"conversion_rate"`
	ConversionRatePct       *float64 `yaml:"conversion_rate_pct"`
	ExpansionRevenue        *float64 `yaml:"expansion_revenue"`
	ExpansionRevenuePct     *float64 `yaml:"expansion_revenue_pct"`
	ReferralImpact          *float64 `yaml:"referral_revenue_impact"`
	ReferralImpactPct       *float64 `yaml:"referral_revenue_impact_pct"`
	Sensitivity             struct {
		Parameter string   `yaml:"parameter"`
		Low       *float64 `yaml:"low"`
		High      *float64 `yaml:"high"`
		Steps     int      `yaml:"steps"`
	} `yaml:"sensitivity"`
}

func Load(path string) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a scenario document. Omitted inputs keep the calculator
// defaults; a *_pct field overrides its fractional twin.
func Parse(raw []byte) (Scenario, error) {
	var f scenarioFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}

	in := growthroi.DefaultInputs()
	setFloat(&in.CAC, f.CAC)
	setFloat(&in.LTV, f.LTV)
	setFloat(&in.TotalAdSpend, f.TotalAdSpend)
	setFloat(&in.RetentionCosts, f.RetentionCosts)
	setFloat(&in.ProductEngineeringCosts, f.ProductEngineeringCosts)
	setRate(&in.ChurnRate, f.ChurnRate, f.ChurnRatePct)
	setRate(&in.ConversionRate, f.ConversionRate, f.ConversionRatePct)
	setRate(&in.ExpansionRevenue, f.ExpansionRevenue, f.ExpansionRevenuePct)
	setRate(&in.ReferralRevenueImpact, f.ReferralImpact, f.ReferralImpactPct)

	param, err := growthroi.ParseParameter(f.Sensitivity.Parameter)
	if err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	if f.Sensitivity.Steps < 0 {
		return Scenario{}, fmt.Errorf("parse scenario: sensitivity steps must be positive, got %d", f.Sensitivity.Steps)
	}
	sweep := growthroi.Options{
		Parameter:  param,
		Steps:      f.Sensitivity.Steps,
		FixedRange: f.Sensitivity.Low != nil || f.Sensitivity.High != nil,
	}
	setFloat(&sweep.Low, f.Sensitivity.Low)
	setFloat(&sweep.High, f.Sensitivity.High)
	return Scenario{
		Name:        strings.TrimSpace(f.Name),
		Inputs:      in,
		Sensitivity: sweep,
	}, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setRate(dst *float64, fraction, pct *float64) {
	if pct != nil {
		*dst = *pct / 100
		return
	}
	setFloat(dst, fraction)
}
