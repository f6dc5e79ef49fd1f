package growthroi

// Options selects the sensitivity sweep run by Evaluate. The zero value
// sweeps CAC from 50% to 150% of its current value in 10 steps. FixedRange
// makes Low and High literal, so both zero sweeps [0, 0].
type Options struct {
	Parameter  Parameter `json:"parameter,omitempty"`
	Low        float64   `json:"low,omitempty"`
	High       float64   `json:"high,omitempty"`
	Steps      int       `json:"steps,omitempty"`
	FixedRange bool      `json:"fixed_range,omitempty"`
}

func (o Options) analyze(in Inputs) SensitivityAnalysis {
	if o.FixedRange {
		return AnalyzeRange(in, o.Parameter, o.Low, o.High, o.Steps)
	}
	return Analyze(in, o.Parameter, o.Low, o.High, o.Steps)
}

func Evaluate(in Inputs, opts Options) Evaluation {
	m := Compute(in)
	h := ScoreHealth(m, in)
	return Evaluation{
		Inputs:         in,
		Metrics:        m,
		Health:         h,
		Recommendation: Recommendation(h.Tier),
		Signals:        Signals(m, in),
		Composition:    Composition(m),
		Sensitivity:    opts.analyze(in),
	}
}
