package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"

	"github.com/weenlabs/ween/internal/places"
	"github.com/weenlabs/ween/internal/prompt"
)

var testLogger = log.New(io.Discard)

func TestClassifyStatusCodes(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "https://api.openai.com/v1/chat/completions", nil)
	apiErr := func(status int) *openai.Error {
		return &openai.Error{StatusCode: status, Request: req}
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"401", apiErr(http.StatusUnauthorized), ErrAuth},
		{"429", apiErr(http.StatusTooManyRequests), ErrRateLimited},
		{"500", apiErr(http.StatusInternalServerError), ErrNetwork},
		{"transport", errors.New("connection refused"), ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if !errors.Is(got, tt.want) {
				t.Fatalf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompleteWithoutCredential(t *testing.T) {
	c := NewClient(testLogger, "", "", "")
	_, err := c.Complete(context.Background(), []prompt.Message{})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("error = %v, want ErrMissingCredential", err)
	}
}

type scriptedCompleter struct {
	replies []string
	errs    []error
	calls   int
	seen    [][]prompt.Message
}

func (s *scriptedCompleter) Complete(_ context.Context, messages []prompt.Message) (string, error) {
	s.seen = append(s.seen, messages)
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "ok", nil
}

func TestDescriberHappyPath(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{"a cozy trattoria", "a bright sushi bar"}}
	d := NewDescriber(completer, testLogger)

	got, err := d.Describe(context.Background(), []places.Restaurant{
		{Name: "Gustoso", Vicinity: "Via Roma 1"},
		{Name: "Sakura", Vicinity: "Corso Buenos Aires 2"},
	})
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if got["Gustoso"] != "a cozy trattoria" || got["Sakura"] != "a bright sushi bar" {
		t.Fatalf("descriptions = %v", got)
	}
	if completer.calls != 2 {
		t.Fatalf("calls = %d, want 2", completer.calls)
	}
	// Each call carries the system prompt plus the named restaurant.
	if completer.seen[0][0].Content != describerSystemPrompt {
		t.Fatalf("system prompt missing: %+v", completer.seen[0])
	}
}

func TestDescriberStopsBatchOnTerminalFailure(t *testing.T) {
	authErr := fmt.Errorf("%w: bad key", ErrAuth)
	completer := &scriptedCompleter{
		replies: []string{"a cozy trattoria"},
		errs:    []error{nil, authErr, nil},
	}
	d := NewDescriber(completer, testLogger)

	got, err := d.Describe(context.Background(), []places.Restaurant{
		{Name: "Gustoso"},
		{Name: "Sakura"},
		{Name: "Corner Deli"},
	})
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("error = %v, want ErrAuth", err)
	}
	if len(got) != 1 {
		t.Fatalf("partial results = %v, want only the first", got)
	}
	if completer.calls != 2 {
		t.Fatalf("calls = %d, want 2 (batch stops at terminal failure)", completer.calls)
	}
}
