package commentary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joelkehle/growth-roi/internal/growthroi"
)

const maxAttempts = 3

// Writer turns a rule-based evaluation into a short narrative. The
// evaluation's tier stays authoritative; the narrative only explains it.
type Writer struct {
	caller LLMCaller
	sleep  func(context.Context, time.Duration) error
}

func NewWriter(caller LLMCaller) *Writer {
	return &Writer{caller: caller, sleep: sleepContext}
}

func (w *Writer) Write(ctx context.Context, ev growthroi.Evaluation) (string, error) {
	if w == nil || w.caller == nil {
		return "", errors.New("commentary caller not configured")
	}
	prompt := BuildPrompt(ev)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := w.caller.Generate(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if retryable(classifyTransportError(err)) && attempt < maxAttempts {
				if err := w.sleep(ctx, backoffDelay(attempt)); err != nil {
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("commentary transport failure: %w", err)
		}
		text := strings.TrimSpace(raw)
		if text == "" {
			if attempt < maxAttempts {
				continue
			}
			return "", errors.New("commentary failed: empty response")
		}
		return text, nil
	}
	return "", errors.New("commentary failed after retries")
}

func BuildPrompt(ev growthroi.Evaluation) string {
	m := ev.Metrics
	in := ev.Inputs
	var b strings.Builder
	fmt.Fprintf(&b, "Write two short paragraphs (under 150 words total) explaining these growth metrics and what to do next.\n\n")
	fmt.Fprintf(&b, "Inputs:\n")
	fmt.Fprintf(&b, "- CAC: $%.2f\n- LTV: $%.2f\n- Total ad spend: $%.2f\n- Retention costs: $%.2f\n- Product & engineering costs: $%.2f\n",
		in.CAC, in.LTV, in.TotalAdSpend, in.RetentionCosts, in.ProductEngineeringCosts)
	fmt.Fprintf(&b, "- Churn rate: %.1f%%\n- Conversion rate: %.2f%%\n- Expansion revenue: %.1f%%\n- Referral revenue impact: %.1f%%\n\n",
		in.ChurnRate*100, in.ConversionRate*100, in.ExpansionRevenue*100, in.ReferralRevenueImpact*100)
	fmt.Fprintf(&b, "Computed metrics:\n")
	fmt.Fprintf(&b, "- Growth ROI: %.2f%%\n- Break-even CAC: $%.2f\n- LTV:CAC ratio: %.2f\n- Net revenue: $%.2f\n- Revenue lost to churn: $%.2f\n\n",
		m.GrowthROI, m.BreakEvenCAC, m.LTVCACRatio, m.TotalRevenue, m.ChurnLoss)
	fmt.Fprintf(&b, "Health scorecard (%d/%d, tier %s):\n", ev.Health.Score, ev.Health.MaxScore, ev.Health.Tier)
	for _, c := range ev.Health.Checks {
		status := "needs improvement"
		if c.Passed {
			status = "good"
		}
		fmt.Fprintf(&b, "- %s: %s\n", c.Label, status)
	}
	if ev.Sensitivity.HasOptimum {
		fmt.Fprintf(&b, "\nSensitivity: ROI peaks at %s = %.2f (current %.2f, %s).\n",
			ev.Sensitivity.Parameter, ev.Sensitivity.Optimum.Value, ev.Sensitivity.Insight.Current, strings.ToLower(string(ev.Sensitivity.Insight.Direction)))
	}
	fmt.Fprintf(&b, "\nRule-based recommendation: %s\n", ev.Recommendation)
	fmt.Fprintf(&b, "\nRespond with plain prose only, no headings or lists.")
	return b.String()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
