package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/growth-roi/internal/growthroi"
	"github.com/joelkehle/growth-roi/internal/render"
)

const (
	maxBodyBytes = 1 << 20
	tracerName   = "github.com/joelkehle/growth-roi/internal/httpapi"
)

// CommentaryWriter produces an optional narrative for a report.
type CommentaryWriter interface {
	Write(ctx context.Context, ev growthroi.Evaluation) (string, error)
}

type Options struct {
	PDF        render.PDFRenderer
	Commentary CommentaryWriter
	Logger     *slog.Logger
	Now        func() time.Time
}

type Server struct {
	pdf        render.PDFRenderer
	commentary CommentaryWriter
	logger     *slog.Logger
	now        func() time.Time
	tracer     trace.Tracer
	router     chi.Router
}

func NewServer(opts Options) *Server {
	s := &Server{
		pdf:        opts.PDF,
		commentary: opts.Commentary,
		logger:     opts.Logger,
		now:        opts.Now,
		tracer:     otel.Tracer(tracerName),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("module", "http")
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(accessLogMiddleware(s.logger))
	r.Use(recoverMiddleware(s.logger))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(w, newError(CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(w, &APIError{Code: CodeValidation, Message: "method not allowed", Status: http.StatusMethodNotAllowed})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/defaults", s.handleDefaults)
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/sensitivity", s.handleSensitivity)
		r.Post("/report", s.handleReport)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"inputs": growthroi.DefaultInputs(),
		"bounds": growthroi.DefaultBounds,
	})
}

type evaluateRequest struct {
	growthroi.Inputs
	Sensitivity growthroi.Options `json:"sensitivity"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "httpapi.evaluate")
	defer span.End()

	var req evaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		failSpan(span, err)
		writeAPIError(w, err)
		return
	}
	clamp, err := parseBool(r.URL.Query().Get("clamp"))
	if err != nil {
		failSpan(span, err)
		writeAPIError(w, err)
		return
	}
	ev, err := s.evaluate(ctx, req.Inputs, req.Sensitivity, clamp)
	if err != nil {
		failSpan(span, err)
		writeAPIError(w, err)
		return
	}
	span.SetAttributes(
		attribute.String("growthroi.tier", string(ev.Health.Tier)),
		attribute.Float64("growthroi.growth_roi", ev.Metrics.GrowthROI),
	)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "evaluation": ev})
}

// sensitivityRequest leaves Low and High nil to ask for the default range.
type sensitivityRequest struct {
	Inputs    growthroi.Inputs `json:"inputs"`
	Parameter string           `json:"parameter"`
	Low       *float64         `json:"low"`
	High      *float64         `json:"high"`
	Steps     int              `json:"steps"`
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "httpapi.sensitivity")
	defer span.End()

	var req sensitivityRequest
	if err := decodeBody(w, r, &req); err != nil {
		failSpan(span, err)
		writeAPIError(w, err)
		return
	}
	p, err := growthroi.ParseParameter(req.Parameter)
	if err != nil {
		apiErr := validationError("%v", err)
		failSpan(span, apiErr)
		writeAPIError(w, apiErr)
		return
	}
	if req.Steps < 0 {
		apiErr := validationError("steps must be >= 0")
		failSpan(span, apiErr)
		writeAPIError(w, apiErr)
		return
	}
	if err := validateInputs(req.Inputs); err != nil {
		failSpan(span, err)
		writeAPIError(w, err)
		return
	}
	opts := growthroi.Options{
		Parameter:  p,
		Steps:      req.Steps,
		FixedRange: req.Low != nil || req.High != nil,
	}
	if req.Low != nil {
		opts.Low = *req.Low
	}
	if req.High != nil {
		opts.High = *req.High
	}
	a := growthroi.Evaluate(req.Inputs, opts).Sensitivity
	if err := checkSensitivityFinite(a); err != nil {
		failSpan(span, err)
		writeAPIError(w, err)
		return
	}
	span.SetAttributes(
		attribute.String("growthroi.parameter", string(p)),
		attribute.Int("growthroi.steps", len(a.Points)),
	)
	payload := map[string]any{
		"ok":        true,
		"parameter": a.Parameter,
		"low":       a.Low,
		"high":      a.High,
		"points":    a.Points,
		"optimum":   nil,
		"insight":   nil,
	}
	if a.HasOptimum {
		payload["optimum"] = a.Optimum
		payload["insight"] = a.Insight
	}
	writeJSON(w, http.StatusOK, payload)
}

type reportRequest struct {
	Inputs      growthroi.Inputs  `json:"inputs"`
	Sensitivity growthroi.Options `json:"sensitivity"`
	Title       string            `json:"title"`
	Commentary  bool              `json:"commentary"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "httpapi.report")
	defer span.End()

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "markdown"
	}
	span.SetAttributes(attribute.String("growthroi.format", format))
	switch format {
	case "markdown", "json", "html", "pdf":
	default:
		apiErr := validationError("unsupported format %q", format)
		failSpan(span, apiErr)
		writeAPIError(w, apiErr)
		return
	}

	var req reportRequest
	if err := decodeBody(w, r, &req); err != nil {
		failSpan(span, err)
		writeAPIError(w, err)
		return
	}
	clamp, err := parseBool(r.URL.Query().Get("clamp"))
	if err != nil {
		failSpan(span, err)
		writeAPIError(w, err)
		return
	}
	ev, err := s.evaluate(ctx, req.Inputs, req.Sensitivity, clamp)
	if err != nil {
		failSpan(span, err)
		writeAPIError(w, err)
		return
	}

	var narrative string
	if req.Commentary {
		narrative = s.writeCommentary(ctx, ev)
	}
	report := growthroi.BuildReport(ev, growthroi.ReportOptions{
		Title:       req.Title,
		GeneratedAt: s.now(),
		Commentary:  narrative,
	})
	span.SetAttributes(
		attribute.String("growthroi.report_id", report.ID),
		attribute.String("growthroi.tier", string(report.Tier)),
	)

	switch format {
	case "json":
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "report": report})
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("X-Report-Id", report.ID)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, report.Markdown)
	case "html":
		page, err := render.HTML(report.Title, report.Markdown)
		if err != nil {
			s.logger.ErrorContext(ctx, "render html failed", "error", err, "report_id", report.ID)
			apiErr := newError(CodeInternal, "render html failed")
			failSpan(span, apiErr)
			writeAPIError(w, apiErr)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Report-Id", report.ID)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, page)
	case "pdf":
		if s.pdf == nil {
			apiErr := newError(CodeUnavailable, "pdf rendering not configured")
			failSpan(span, apiErr)
			writeAPIError(w, apiErr)
			return
		}
		blob, err := s.pdf.Render(ctx, report.Title, report.Markdown)
		if err != nil {
			s.logger.ErrorContext(ctx, "render pdf failed", "error", err, "report_id", report.ID)
			apiErr := newError(CodeUnavailable, "render pdf failed")
			failSpan(span, apiErr)
			writeAPIError(w, apiErr)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "growth-roi-"+report.ID+".pdf"))
		w.Header().Set("X-Report-Id", report.ID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(blob)
	}
}

func (s *Server) evaluate(ctx context.Context, in growthroi.Inputs, opts growthroi.Options, clamp bool) (growthroi.Evaluation, error) {
	if opts.Steps < 0 {
		return growthroi.Evaluation{}, validationError("sensitivity.steps must be >= 0")
	}
	p, err := growthroi.ParseParameter(string(opts.Parameter))
	if err != nil {
		return growthroi.Evaluation{}, validationError("%v", err)
	}
	opts.Parameter = p
	if clamp {
		in = growthroi.DefaultBounds.Clamp(in)
	} else if err := validateInputs(in); err != nil {
		return growthroi.Evaluation{}, err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("growthroi.clamped", clamp))
	ev := growthroi.Evaluate(in, opts)
	if err := checkFinite(ev); err != nil {
		return growthroi.Evaluation{}, err
	}
	return ev, nil
}

// checkFinite rejects inputs large enough to overflow a derived value, which
// JSON cannot carry.
func checkFinite(ev growthroi.Evaluation) error {
	m := ev.Metrics
	fields := []struct {
		name  string
		value float64
	}{
		{"new_customers", m.NewCustomers},
		{"base_revenue", m.BaseRevenue},
		{"expansion_impact", m.ExpansionImpact},
		{"referral_impact", m.ReferralImpact},
		{"churn_loss", m.ChurnLoss},
		{"total_revenue", m.TotalRevenue},
		{"total_growth_investment", m.TotalGrowthInvestment},
		{"acquisition_retention_costs", m.AcquisitionRetentionCosts},
		{"growth_roi", m.GrowthROI},
		{"break_even_cac", m.BreakEvenCAC},
		{"ltv_cac_ratio", m.LTVCACRatio},
		{"profitable_revenue_from_ads", m.ProfitableRevenueFromAds},
		{"composition.total_positive", ev.Composition.TotalPositive},
		{"composition.churn_share_pct", ev.Composition.ChurnSharePct},
	}
	for _, f := range fields {
		if !isFinite(f.value) {
			return validationError("inputs overflow: %s is not finite", f.name)
		}
	}
	return checkSensitivityFinite(ev.Sensitivity)
}

func checkSensitivityFinite(a growthroi.SensitivityAnalysis) error {
	if !isFinite(a.Low) || !isFinite(a.High) || !isFinite(a.Insight.Difference) {
		return validationError("inputs overflow: sensitivity range is not finite")
	}
	for _, p := range a.Points {
		if !isFinite(p.Value) || !isFinite(p.GrowthROI) {
			return validationError("inputs overflow: sensitivity growth_roi is not finite")
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// writeCommentary never fails the request; errors only drop the section.
func (s *Server) writeCommentary(ctx context.Context, ev growthroi.Evaluation) string {
	if s.commentary == nil {
		s.logger.WarnContext(ctx, "commentary requested but not configured",
			"request_id", requestIDFromContext(ctx))
		return ""
	}
	text, err := s.commentary.Write(ctx, ev)
	if err != nil {
		s.logger.WarnContext(ctx, "commentary failed", "error", err,
			"request_id", requestIDFromContext(ctx))
		return ""
	}
	return text
}

func validateInputs(in growthroi.Inputs) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"cac", in.CAC},
		{"ltv", in.LTV},
		{"total_ad_spend", in.TotalAdSpend},
		{"retention_costs", in.RetentionCosts},
		{"product_engineering_costs", in.ProductEngineeringCosts},
		{"churn_rate", in.ChurnRate},
		{"conversion_rate", in.ConversionRate},
		{"expansion_revenue", in.ExpansionRevenue},
		{"referral_revenue_impact", in.ReferralRevenueImpact},
	}
	for _, f := range fields {
		if f.value < 0 {
			return validationError("%s must be >= 0", f.name)
		}
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return validationError("request body required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return newError(CodeTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes))
		case errors.Is(err, io.EOF):
			return validationError("request body required")
		default:
			return validationError("invalid json: %v", err)
		}
	}
	if dec.More() {
		return validationError("invalid json: trailing data")
	}
	return nil
}

func parseBool(raw string) (bool, error) {
	if strings.TrimSpace(raw) == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, validationError("invalid boolean %q", raw)
	}
	return v, nil
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// writeJSON encodes before writing the header so an unencodable payload
// still gets an error status and body.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":    CodeInternal,
				"message": "encode response: " + err.Error(),
			},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeAPIError(w http.ResponseWriter, err error) {
	var ae *APIError
	if !errors.As(err, &ae) {
		ae = newError(CodeInternal, err.Error())
	}
	writeJSON(w, ae.Status, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    ae.Code,
			"message": ae.Message,
		},
	})
}
