package render

import (
	"strings"
	"testing"
)

func TestApplyPrintLayoutHooksAddsPageBreakBeforeHowThisReportWorks(t *testing.T) {
	in := "<h2>Recommendation</h2><p>x</p><h2>How This Report Works</h2><p>y</p>"
	out := applyPrintLayoutHooks(in)
	if !strings.Contains(out, `<h2 data-page-break-before="true">How This Report Works</h2>`) {
		t.Fatalf("expected page-break hook, got: %s", out)
	}
}

func TestApplyPrintLayoutHooksNoopWithoutHooks(t *testing.T) {
	in := "<h2>Recommendation</h2><p>x</p>"
	if out := applyPrintLayoutHooks(in); out != in {
		t.Fatalf("expected no change, got: %s", out)
	}
}

func TestApplyPrintLayoutHooksColorsSignals(t *testing.T) {
	out := applyPrintLayoutHooks("<td>▼ negative</td><td>▲ positive</td>")
	if !strings.Contains(out, `<span class="signal-negative">▼ negative</span>`) {
		t.Fatalf("expected negative signal span, got: %s", out)
	}
	if !strings.Contains(out, `<span class="signal-positive">▲ positive</span>`) {
		t.Fatalf("expected positive signal span, got: %s", out)
	}
}

func TestHTMLRendersTablesAndTitle(t *testing.T) {
	md := "# Growth ROI Report\n\n| Metric | Value |\n|---|---|\n| ROI | 5% |\n"
	doc, err := HTML("Q3 <plan>", md)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.Contains(doc, "<title>Q3 &lt;plan&gt;</title>") {
		t.Fatal("expected escaped title")
	}
	if !strings.Contains(doc, "<table>") || !strings.Contains(doc, "<td>ROI</td>") {
		t.Fatalf("expected GFM table, got: %s", doc)
	}
	if !strings.Contains(doc, ".report-html table") {
		t.Fatal("expected embedded stylesheet")
	}
}

func TestHTMLDefaultTitle(t *testing.T) {
	doc, err := HTML(" ", "text")
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.Contains(doc, "<title>Growth ROI Report</title>") {
		t.Fatal("expected default title")
	}
}

func TestNewChromiumPDFRendererKeepsExplicitPath(t *testing.T) {
	r := NewChromiumPDFRenderer("/opt/chrome/chrome")
	if r.chromePath != "/opt/chrome/chrome" {
		t.Fatalf("unexpected chrome path: %s", r.chromePath)
	}
	if r.timeout != defaultRenderTimeout {
		t.Fatalf("unexpected timeout: %s", r.timeout)
	}
}
