package growthroi

import "testing"

func TestSweepCACDefaultRange(t *testing.T) {
	in := sampleInputs()
	pts := SweepCAC(in)
	if len(pts) != DefaultSteps {
		t.Fatalf("expected %d points, got %d", DefaultSteps, len(pts))
	}
	if pts[0].Value != 100 {
		t.Fatalf("expected first sample at cac*0.5, got %f", pts[0].Value)
	}
	if pts[len(pts)-1].Value != 300 {
		t.Fatalf("expected last sample at cac*1.5, got %f", pts[len(pts)-1].Value)
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Value <= pts[i-1].Value {
			t.Fatalf("series not strictly ascending at %d: %f <= %f", i, pts[i].Value, pts[i-1].Value)
		}
	}
}

func TestSweepMatchesCompute(t *testing.T) {
	in := sampleInputs()
	for _, pt := range Sweep(in, ParamCAC, 50, 400, 7) {
		sample := in
		sample.CAC = pt.Value
		if want := Compute(sample).GrowthROI; diff(pt.GrowthROI, want) > eps {
			t.Fatalf("cac=%f: sweep roi %f != compute roi %f", pt.Value, pt.GrowthROI, want)
		}
	}
}

func TestSweepIsOrderIndependent(t *testing.T) {
	in := sampleInputs()
	a := Sweep(in, ParamCAC, 100, 300, 10)
	b := Sweep(in, ParamCAC, 300, 100, 10)
	if len(a) != len(b) {
		t.Fatalf("length mismatch %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	again := Sweep(in, ParamCAC, 100, 300, 10)
	for i := range a {
		if a[i] != again[i] {
			t.Fatalf("sweep not deterministic at %d", i)
		}
	}
}

func TestSweepStepEdgeCases(t *testing.T) {
	in := sampleInputs()
	if pts := Sweep(in, ParamCAC, 100, 300, 0); len(pts) != 0 {
		t.Fatalf("expected empty series, got %d points", len(pts))
	}
	one := Sweep(in, ParamCAC, 100, 300, 1)
	if len(one) != 1 || one[0].Value != 100 {
		t.Fatalf("unexpected single-step series: %+v", one)
	}
	two := Sweep(in, ParamCAC, 100, 300, 2)
	if len(two) != 2 || two[0].Value != 100 || two[1].Value != 300 {
		t.Fatalf("unexpected two-step series: %+v", two)
	}
}

func TestSweepIncludesZeroCAC(t *testing.T) {
	in := sampleInputs()
	pts := Sweep(in, ParamCAC, 0, 200, 3)
	zero := in
	zero.CAC = 0
	if pts[0].GrowthROI != Compute(zero).GrowthROI {
		t.Fatalf("zero cac sample should use the zero-customer fallback, got %f", pts[0].GrowthROI)
	}
}

func TestSweepOtherParameter(t *testing.T) {
	in := sampleInputs()
	pts := Sweep(in, ParamChurnRate, 0, 0.5, 6)
	if len(pts) != 6 {
		t.Fatalf("expected 6 points, got %d", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].GrowthROI >= pts[i-1].GrowthROI {
			t.Fatalf("higher churn should lower roi at %d", i)
		}
	}
}

func TestFindOptimum(t *testing.T) {
	series := []SensitivityPoint{
		{Value: 1, GrowthROI: -5},
		{Value: 2, GrowthROI: 10},
		{Value: 3, GrowthROI: 10},
		{Value: 4, GrowthROI: 3},
	}
	opt, ok := FindOptimum(series)
	if !ok {
		t.Fatal("expected optimum")
	}
	if opt.Value != 2 {
		t.Fatalf("ties must go to the first occurrence, got %f", opt.Value)
	}
	for _, p := range series {
		if p.GrowthROI > opt.GrowthROI {
			t.Fatalf("point %+v beats optimum %+v", p, opt)
		}
	}
	if _, ok := FindOptimum(nil); ok {
		t.Fatal("expected no optimum for empty series")
	}
}

func TestFindOptimumOnSweep(t *testing.T) {
	in := sampleInputs()
	pts := SweepCAC(in)
	opt, ok := FindOptimum(pts)
	if !ok {
		t.Fatal("expected optimum")
	}
	found := false
	for _, p := range pts {
		if p == opt {
			found = true
		}
		if p.GrowthROI > opt.GrowthROI {
			t.Fatalf("point %+v beats optimum %+v", p, opt)
		}
	}
	if !found {
		t.Fatal("optimum must be a sampled point")
	}
	// ROI falls as CAC rises here, so the cheapest sample wins.
	if opt.Value != 100 {
		t.Fatalf("expected optimum at lowest cac, got %f", opt.Value)
	}
}

func TestCompareOptimum(t *testing.T) {
	below := CompareOptimum(200, 100)
	if below.Direction != DirectionBelow || below.Difference != 100 || below.Signal() != SignalPositive {
		t.Fatalf("unexpected below insight: %+v", below)
	}
	above := CompareOptimum(200, 260)
	if above.Direction != DirectionAbove || above.Difference != 60 || above.Signal() != SignalNegative {
		t.Fatalf("unexpected above insight: %+v", above)
	}
	equal := CompareOptimum(200, 200)
	if equal.Direction != DirectionEqual || equal.Difference != 0 || equal.Signal() != SignalNeutral {
		t.Fatalf("unexpected equal insight: %+v", equal)
	}
}

func TestAnalyzeDefaults(t *testing.T) {
	a := Analyze(sampleInputs(), "", 0, 0, 0)
	if a.Parameter != ParamCAC || a.Low != 100 || a.High != 300 {
		t.Fatalf("unexpected defaults: %+v", a)
	}
	if len(a.Points) != DefaultSteps || !a.HasOptimum {
		t.Fatalf("unexpected analysis: %+v", a)
	}
	if a.Insight.Current != 200 || a.Insight.Direction != DirectionBelow || a.Insight.Difference != 100 {
		t.Fatalf("unexpected insight: %+v", a.Insight)
	}
}

func TestAnalyzeZeroCACHasNoSpread(t *testing.T) {
	in := sampleInputs()
	in.CAC = 0
	a := Analyze(in, ParamCAC, 0, 0, 0)
	if len(a.Points) != DefaultSteps {
		t.Fatalf("expected %d points, got %d", DefaultSteps, len(a.Points))
	}
	if a.Insight.Direction != DirectionEqual {
		t.Fatalf("expected equal insight for a degenerate range, got %s", a.Insight.Direction)
	}
}

func TestParseParameter(t *testing.T) {
	p, err := ParseParameter("")
	if err != nil || p != ParamCAC {
		t.Fatalf("empty should select cac, got %q err=%v", p, err)
	}
	p, err = ParseParameter(" Churn_Rate ")
	if err != nil || p != ParamChurnRate {
		t.Fatalf("unexpected parse: %q err=%v", p, err)
	}
	if _, err := ParseParameter("margin"); err == nil {
		t.Fatal("expected error for unknown parameter")
	}
}

func TestParameterWithLeavesOriginal(t *testing.T) {
	in := sampleInputs()
	out := ParamLTV.With(in, 1000)
	if in.LTV != 600 || out.LTV != 1000 {
		t.Fatalf("With must copy: in=%f out=%f", in.LTV, out.LTV)
	}
	if ParamLTV.Value(out) != 1000 {
		t.Fatal("Value should read the substituted field")
	}
	if Parameter("bogus").Value(in) != 0 {
		t.Fatal("unknown parameter should read as 0")
	}
}

func TestAnalyzeOptimumIndex(t *testing.T) {
	a := Analyze(sampleInputs(), ParamCAC, 0, 0, 0)
	if a.OptimumIndex != 0 || a.Points[a.OptimumIndex] != a.Optimum {
		t.Fatalf("expected optimum at index 0, got %d (%+v)", a.OptimumIndex, a.Optimum)
	}

	in := sampleInputs()
	in.CAC = 0
	flat := Analyze(in, ParamCAC, 0, 0, 0)
	if flat.OptimumIndex != 0 {
		t.Fatalf("ties must go to the first point, got index %d", flat.OptimumIndex)
	}

	defaulted := AnalyzeRange(sampleInputs(), ParamCAC, 1, 2, 0)
	if len(defaulted.Points) != DefaultSteps {
		t.Fatalf("non-positive steps should select the default, got %d", len(defaulted.Points))
	}
}

func TestAnalyzeRangeHonorsZeroRange(t *testing.T) {
	a := AnalyzeRange(sampleInputs(), ParamChurnRate, 0, 0, 3)
	if a.Low != 0 || a.High != 0 || len(a.Points) != 3 {
		t.Fatalf("expected a literal [0, 0] sweep, got %+v", a)
	}
	for _, p := range a.Points {
		if p.Value != 0 {
			t.Fatalf("expected every sample at 0, got %v", p.Value)
		}
	}

	ev := Evaluate(sampleInputs(), Options{Parameter: ParamChurnRate, Steps: 3, FixedRange: true})
	if ev.Sensitivity.High != 0 {
		t.Fatalf("FixedRange must skip the default range, got high %v", ev.Sensitivity.High)
	}
	ev = Evaluate(sampleInputs(), Options{Parameter: ParamChurnRate, Steps: 3})
	if ev.Sensitivity.High == 0 {
		t.Fatal("without FixedRange a zero range selects the default")
	}
}
