package commentary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joelkehle/growth-roi/internal/growthroi"
)

type scriptedCaller struct {
	responses []string
	errs      []error
	prompts   []string
}

func (s *scriptedCaller) Generate(_ context.Context, prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", nil
}

func newTestWriter(c LLMCaller) (*Writer, *[]time.Duration) {
	var slept []time.Duration
	w := NewWriter(c)
	w.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return w, &slept
}

func TestWriterReturnsTrimmedText(t *testing.T) {
	c := &scriptedCaller{responses: []string{"  Churn is under control.  \n"}}
	w, _ := newTestWriter(c)
	got, err := w.Write(context.Background(), growthroi.Evaluate(growthroi.DefaultInputs(), growthroi.Options{}))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if got != "Churn is under control." {
		t.Fatalf("unexpected commentary: %q", got)
	}
	if len(c.prompts) != 1 {
		t.Fatalf("expected one call, got %d", len(c.prompts))
	}
}

func TestWriterRetriesTransientFailures(t *testing.T) {
	c := &scriptedCaller{
		errs:      []error{errors.New("POST: 429 Too Many Requests"), errors.New("status code: 503")},
		responses: []string{"", "", "ok"},
	}
	w, slept := newTestWriter(c)
	got, err := w.Write(context.Background(), growthroi.Evaluate(growthroi.DefaultInputs(), growthroi.Options{}))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if got != "ok" || len(c.prompts) != 3 {
		t.Fatalf("unexpected result %q after %d calls", got, len(c.prompts))
	}
	if len(*slept) != 2 || (*slept)[0] != time.Second || (*slept)[1] != 2*time.Second {
		t.Fatalf("unexpected backoff: %v", *slept)
	}
}

func TestWriterDoesNotRetryClientErrors(t *testing.T) {
	c := &scriptedCaller{errs: []error{errors.New("status code: 401 unauthorized")}}
	w, slept := newTestWriter(c)
	if _, err := w.Write(context.Background(), growthroi.Evaluation{}); err == nil {
		t.Fatal("expected error")
	}
	if len(c.prompts) != 1 || len(*slept) != 0 {
		t.Fatalf("client errors must not retry: calls=%d sleeps=%d", len(c.prompts), len(*slept))
	}
}

func TestWriterRejectsEmptyResponses(t *testing.T) {
	c := &scriptedCaller{responses: []string{"", " ", "\n"}}
	w, _ := newTestWriter(c)
	_, err := w.Write(context.Background(), growthroi.Evaluation{})
	if err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("expected empty response error, got %v", err)
	}
	if len(c.prompts) != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, len(c.prompts))
	}
}

func TestWriterWithoutCaller(t *testing.T) {
	var w *Writer
	if _, err := w.Write(context.Background(), growthroi.Evaluation{}); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestBuildPromptCarriesTierAndMetrics(t *testing.T) {
	p := BuildPrompt(growthroi.Evaluate(growthroi.DefaultInputs(), growthroi.Options{}))
	for _, want := range []string{"tier GOOD", "Growth ROI: -47.00%", "Break-even CAC: $720.00", "ROI peaks at cac = 100.00"} {
		if !strings.Contains(p, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestClassifyTransportError(t *testing.T) {
	cases := []struct {
		err  error
		want failureClass
	}{
		{context.DeadlineExceeded, failureTimeout},
		{errors.New("429 rate limited"), failureRateLimit},
		{errors.New("status code: 500"), failureServer},
		{errors.New("status code: 400"), failureClient},
		{errors.New("connection reset"), failureServer},
	}
	for _, c := range cases {
		if got := classifyTransportError(c.err); got != c.want {
			t.Errorf("%v: got %d want %d", c.err, got, c.want)
		}
	}
}

type fakeMessager struct {
	params anthropic.MessageNewParams
}

func (f *fakeMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = params
	return &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "text", Text: "hello"}}}, nil
}

func TestAnthropicCallerFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewAnthropicCallerFromEnv(); err == nil {
		t.Fatal("expected error without api key")
	}

	fake := &fakeMessager{}
	orig := newAnthropicClient
	newAnthropicClient = func(string) AnthropicMessager { return fake }
	t.Cleanup(func() { newAnthropicClient = orig })

	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	caller, err := NewAnthropicCallerFromEnv()
	if err != nil {
		t.Fatalf("new caller: %v", err)
	}
	got, err := caller.Generate(context.Background(), "explain")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected text: %q", got)
	}
	if fake.params.MaxTokens != 1024 {
		t.Fatalf("unexpected max tokens: %d", fake.params.MaxTokens)
	}
}
