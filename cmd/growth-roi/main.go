package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joelkehle/growth-roi/internal/commentary"
	"github.com/joelkehle/growth-roi/internal/growthroi"
	"github.com/joelkehle/growth-roi/internal/render"
	"github.com/joelkehle/growth-roi/internal/scenario"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

type cliConfig struct {
	scenarioPath string
	format       string
	outputPath   string
	title        string
	clamp        bool
	commentary   bool
	chromePath   string
	parameter    string
	low          float64
	high         float64
	steps        int
	fixedRange   bool
	inputs       growthroi.Inputs
	rates        map[string]*float64
}

func parseFlags(args []string) (*cliConfig, error) {
	def := growthroi.DefaultInputs()
	cfg := &cliConfig{rates: map[string]*float64{}}
	fs := flag.NewFlagSet("growth-roi", flag.ContinueOnError)
	fs.StringVar(&cfg.scenarioPath, "scenario", "", "Path to a YAML scenario file")
	fs.StringVar(&cfg.format, "format", "markdown", "Output format: markdown, json, html or pdf")
	fs.StringVar(&cfg.outputPath, "output", "", "Path to write the report (defaults to stdout; required for pdf)")
	fs.StringVar(&cfg.title, "title", "", "Report title")
	fs.BoolVar(&cfg.clamp, "clamp", false, "Clamp inputs to the calculator bounds")
	fs.BoolVar(&cfg.commentary, "commentary", false, "Add an analyst commentary section (needs ANTHROPIC_API_KEY)")
	fs.StringVar(&cfg.chromePath, "chrome-path", "", "Chromium binary used for pdf output")
	fs.StringVar(&cfg.parameter, "sweep", "", "Sensitivity parameter (default cac)")
	fs.Float64Var(&cfg.low, "sweep-low", 0, "Sensitivity range low (omit both bounds for 50%-150% of current)")
	fs.Float64Var(&cfg.high, "sweep-high", 0, "Sensitivity range high")
	fs.IntVar(&cfg.steps, "sweep-steps", 0, "Sensitivity sample count (default 10)")

	fs.Float64Var(&cfg.inputs.CAC, "cac", def.CAC, "Customer acquisition cost ($)")
	fs.Float64Var(&cfg.inputs.LTV, "ltv", def.LTV, "Customer lifetime value ($)")
	fs.Float64Var(&cfg.inputs.TotalAdSpend, "ad-spend", def.TotalAdSpend, "Total ad spend ($)")
	fs.Float64Var(&cfg.inputs.RetentionCosts, "retention-costs", def.RetentionCosts, "Retention costs ($)")
	fs.Float64Var(&cfg.inputs.ProductEngineeringCosts, "product-costs", def.ProductEngineeringCosts, "Product & engineering costs ($)")
	cfg.rates["churn"] = fs.Float64("churn", def.ChurnRate*100, "Churn rate (%)")
	cfg.rates["conversion"] = fs.Float64("conversion", def.ConversionRate*100, "Conversion rate (%)")
	cfg.rates["expansion"] = fs.Float64("expansion", def.ExpansionRevenue*100, "Expansion revenue (%)")
	cfg.rates["referral"] = fs.Float64("referral", def.ReferralRevenueImpact*100, "Referral revenue impact (%)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg.format = strings.ToLower(strings.TrimSpace(cfg.format))
	switch cfg.format {
	case "markdown", "json", "html":
	case "pdf":
		if cfg.outputPath == "" {
			return nil, errors.New("-format pdf requires -output")
		}
	default:
		return nil, fmt.Errorf("unsupported -format %q", cfg.format)
	}

	in := def
	var sweep growthroi.Options
	if cfg.scenarioPath != "" {
		sc, err := scenario.Load(cfg.scenarioPath)
		if err != nil {
			return nil, err
		}
		in = sc.Inputs
		sweep = sc.Sensitivity
		if cfg.title == "" {
			cfg.title = sc.Name
		}
	}

	// Explicit flags override the scenario file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cac":
			in.CAC = cfg.inputs.CAC
		case "ltv":
			in.LTV = cfg.inputs.LTV
		case "ad-spend":
			in.TotalAdSpend = cfg.inputs.TotalAdSpend
		case "retention-costs":
			in.RetentionCosts = cfg.inputs.RetentionCosts
		case "product-costs":
			in.ProductEngineeringCosts = cfg.inputs.ProductEngineeringCosts
		case "churn":
			in.ChurnRate = *cfg.rates["churn"] / 100
		case "conversion":
			in.ConversionRate = *cfg.rates["conversion"] / 100
		case "expansion":
			in.ExpansionRevenue = *cfg.rates["expansion"] / 100
		case "referral":
			in.ReferralRevenueImpact = *cfg.rates["referral"] / 100
		case "sweep":
			sweep.Parameter = growthroi.Parameter(cfg.parameter)
		case "sweep-low":
			sweep.Low = cfg.low
			sweep.FixedRange = true
		case "sweep-high":
			sweep.High = cfg.high
			sweep.FixedRange = true
		case "sweep-steps":
			sweep.Steps = cfg.steps
		}
	})
	p, err := growthroi.ParseParameter(string(sweep.Parameter))
	if err != nil {
		return nil, err
	}
	if sweep.Steps < 0 {
		return nil, errors.New("-sweep-steps must be >= 0")
	}
	sweep.Parameter = p
	cfg.parameter = string(p)
	cfg.low, cfg.high, cfg.steps, cfg.fixedRange = sweep.Low, sweep.High, sweep.Steps, sweep.FixedRange
	cfg.inputs = in
	return cfg, nil
}

func (c *cliConfig) options() growthroi.Options {
	return growthroi.Options{
		Parameter:  growthroi.Parameter(c.parameter),
		Low:        c.low,
		High:       c.high,
		Steps:      c.steps,
		FixedRange: c.fixedRange,
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	in := cfg.inputs
	if cfg.clamp {
		in = growthroi.DefaultBounds.Clamp(in)
	}
	ev := growthroi.Evaluate(in, cfg.options())

	var narrative string
	if cfg.commentary {
		caller, err := commentary.NewAnthropicCallerFromEnv()
		if err != nil {
			return err
		}
		narrative, err = commentary.NewWriter(caller).Write(ctx, ev)
		if err != nil {
			log.Printf("commentary skipped: %v", err)
			narrative = ""
		}
	}
	report := growthroi.BuildReport(ev, growthroi.ReportOptions{Title: cfg.title, Commentary: narrative})

	var out []byte
	switch cfg.format {
	case "markdown":
		out = []byte(report.Markdown)
	case "json":
		out, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		out = append(out, '\n')
	case "html":
		page, err := render.HTML(report.Title, report.Markdown)
		if err != nil {
			return err
		}
		out = []byte(page)
	case "pdf":
		out, err = render.NewChromiumPDFRenderer(cfg.chromePath).Render(ctx, report.Title, report.Markdown)
		if err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
	}
	return writeOutput(cfg.outputPath, stdout, out)
}

func writeOutput(path string, stdout io.Writer, blob []byte) error {
	if path == "" {
		_, err := stdout.Write(blob)
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}
