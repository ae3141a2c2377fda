package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/weenlabs/ween/internal/dialogue"
	"github.com/weenlabs/ween/internal/llm"
	"github.com/weenlabs/ween/internal/observability"
	"github.com/weenlabs/ween/internal/places"
	"github.com/weenlabs/ween/internal/prompt"
	"github.com/weenlabs/ween/internal/transcript"
)

var testMetrics = observability.NewMetrics("ween_engine_test")

type fakeCompleter struct {
	reply string
	err   error
	calls int
	seen  [][]prompt.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []prompt.Message) (string, error) {
	f.calls++
	f.seen = append(f.seen, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeSearcher struct {
	restaurants []places.Restaurant
	err         error
	calls       int
}

func (f *fakeSearcher) Nearby(context.Context, float64, float64) ([]places.Restaurant, error) {
	f.calls++
	return f.restaurants, f.err
}

type fakeLocator struct {
	loc places.LatLng
	err error
}

func (f *fakeLocator) Locate(context.Context) (places.LatLng, error) {
	return f.loc, f.err
}

func sampleRestaurants() []places.Restaurant {
	two := 2
	return []places.Restaurant{
		{Name: "Gustoso", Types: []string{"italian", "restaurant"}, PriceLevel: &two, Rating: 4.6},
		{Name: "Sakura", Types: []string{"japanese", "sushi"}, Rating: 4.3},
	}
}

func newTestEngine(completer llm.Completer, searcher places.Searcher, locator places.LocationProvider) *Engine {
	return New(completer, searcher, locator, transcript.NewInMemoryStore(), testMetrics, log.New(io.Discard))
}

func TestStartSessionWelcome(t *testing.T) {
	e := newTestEngine(&fakeCompleter{}, &fakeSearcher{}, &fakeLocator{})
	welcome := e.StartSession("s1")
	if welcome.Sender != dialogue.SenderBot || welcome.Text != welcomeText {
		t.Fatalf("welcome = %+v", welcome)
	}

	state, ok := e.Snapshot("s1")
	if !ok {
		t.Fatalf("no state after StartSession")
	}
	if len(state.Messages) != 1 || state.Messages[0].Text != welcomeText {
		t.Fatalf("messages = %+v", state.Messages)
	}
}

func TestProcessTurnSuccess(t *testing.T) {
	completer := &fakeCompleter{reply: "Try 🍝 Gustoso 🍝 on Via Roma!"}
	searcher := &fakeSearcher{restaurants: sampleRestaurants()}
	e := newTestEngine(completer, searcher, &fakeLocator{loc: places.LatLng{Lat: 45.46, Lng: 9.19}})
	e.StartSession("s1")

	reply, err := e.ProcessTurn(context.Background(), "s1", "i love italian food around here")
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if reply != completer.reply {
		t.Fatalf("reply = %q", reply)
	}

	state, _ := e.Snapshot("s1")

	// welcome, user turn, assistant reply; no thinking placeholder left.
	if len(state.Messages) != 3 {
		t.Fatalf("messages = %+v", state.Messages)
	}
	for _, m := range state.Messages {
		if m.Text == thinkingText {
			t.Fatalf("thinking placeholder left in transcript")
		}
	}

	dlg := state.Context.Dialogue()
	if len(dlg) != 2 || dlg[0].Role != dialogue.RoleUser || dlg[1].Role != dialogue.RoleAssistant {
		t.Fatalf("context dialogue = %+v", dlg)
	}
	if state.Memory.LikedCuisines[0] != "italian" {
		t.Fatalf("memory = %+v", state.Memory)
	}
	if state.InFlight {
		t.Fatalf("in-flight flag not released")
	}
	if searcher.calls != 1 {
		t.Fatalf("searcher calls = %d, want 1", searcher.calls)
	}
}

func TestProcessTurnReusesFetchedRestaurants(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	searcher := &fakeSearcher{restaurants: sampleRestaurants()}
	e := newTestEngine(completer, searcher, &fakeLocator{})
	e.StartSession("s1")

	if _, err := e.ProcessTurn(context.Background(), "s1", "pizza"); err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	if _, err := e.ProcessTurn(context.Background(), "s1", "sushi"); err != nil {
		t.Fatalf("second turn error = %v", err)
	}
	if searcher.calls != 1 {
		t.Fatalf("searcher calls = %d, want 1 (list cached for the session)", searcher.calls)
	}
}

func TestProcessTurnEmptySearchSkipsLLM(t *testing.T) {
	completer := &fakeCompleter{reply: "unused"}
	e := newTestEngine(completer, &fakeSearcher{}, &fakeLocator{})
	e.StartSession("s1")

	reply, err := e.ProcessTurn(context.Background(), "s1", "pizza")
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if reply != apologyNoRestaurants {
		t.Fatalf("reply = %q, want the no-restaurants apology", reply)
	}
	if completer.calls != 0 {
		t.Fatalf("LLM called %d times, want 0", completer.calls)
	}

	state, _ := e.Snapshot("s1")
	for _, m := range state.Messages {
		if m.Text == thinkingText {
			t.Fatalf("thinking placeholder left in transcript")
		}
	}
}

func TestProcessTurnLocationFailure(t *testing.T) {
	e := newTestEngine(&fakeCompleter{}, &fakeSearcher{}, &fakeLocator{err: places.ErrLocationUnavailable})
	e.StartSession("s1")

	reply, err := e.ProcessTurn(context.Background(), "s1", "pizza")
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if reply != apologyLocation {
		t.Fatalf("reply = %q, want the location apology", reply)
	}
}

func TestProcessTurnApologyMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", llm.ErrMissingCredential, apologyConfig},
		{"auth", fmt.Errorf("%w: bad key", llm.ErrAuth), apologyAuth},
		{"rate limited", fmt.Errorf("%w: slow down", llm.ErrRateLimited), apologyRateLimited},
		{"network", fmt.Errorf("%w: refused", llm.ErrNetwork), apologyNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(&fakeCompleter{err: tt.err}, &fakeSearcher{restaurants: sampleRestaurants()}, &fakeLocator{})
			e.StartSession("s1")

			reply, err := e.ProcessTurn(context.Background(), "s1", "pizza")
			if err != nil {
				t.Fatalf("ProcessTurn() error = %v, failures must surface as replies", err)
			}
			if reply != tt.want {
				t.Fatalf("reply = %q, want %q", reply, tt.want)
			}

			// A failed turn leaves no trace in the LLM context.
			state, _ := e.Snapshot("s1")
			if len(state.Context) != 0 {
				t.Fatalf("context = %+v, want empty after failed turn", state.Context)
			}
		})
	}
}

func TestProcessTurnFallsBackToFullListWhenFilterEmpty(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	e := newTestEngine(completer, &fakeSearcher{restaurants: sampleRestaurants()}, &fakeLocator{})
	e.StartSession("s1")

	// No candidate is typed "steak"; the filter result is empty and the
	// prompt must carry the full list instead.
	if _, err := e.ProcessTurn(context.Background(), "s1", "steak"); err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}

	var candidatesMsg string
	for _, m := range completer.seen[0] {
		if strings.Contains(m.Content, "restaurant options nearby") {
			candidatesMsg = m.Content
		}
	}
	if !strings.Contains(candidatesMsg, "Gustoso") || !strings.Contains(candidatesMsg, "Sakura") {
		t.Fatalf("candidates message missing full list: %q", candidatesMsg)
	}
}

func TestProcessTurnUnknownSession(t *testing.T) {
	e := newTestEngine(&fakeCompleter{}, &fakeSearcher{}, &fakeLocator{})
	if _, err := e.ProcessTurn(context.Background(), "missing", "hi"); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("error = %v, want ErrUnknownSession", err)
	}
}

func TestProcessTurnRejectsConcurrentTurn(t *testing.T) {
	e := newTestEngine(&fakeCompleter{reply: "ok"}, &fakeSearcher{restaurants: sampleRestaurants()}, &fakeLocator{})
	e.StartSession("s1")

	e.mu.Lock()
	e.states["s1"].InFlight = true
	e.mu.Unlock()

	if _, err := e.ProcessTurn(context.Background(), "s1", "pizza"); !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("error = %v, want ErrTurnInFlight", err)
	}
}

func TestProcessTurnMemorySummaryInjectedNextTurn(t *testing.T) {
	completer := &fakeCompleter{reply: "noted!"}
	e := newTestEngine(completer, &fakeSearcher{restaurants: sampleRestaurants()}, &fakeLocator{})
	e.StartSession("s1")

	if _, err := e.ProcessTurn(context.Background(), "s1", "i love italian food"); err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	if _, err := e.ProcessTurn(context.Background(), "s1", "which one is quietest"); err != nil {
		t.Fatalf("second turn error = %v", err)
	}

	found := false
	for _, m := range completer.seen[1] {
		if strings.HasPrefix(m.Content, "Based on our conversation") {
			found = true
		}
	}
	if !found {
		t.Fatalf("second prompt missing memory summary")
	}

	// The context holds at most one summary turn.
	state, _ := e.Snapshot("s1")
	count := 0
	for _, turn := range state.Context {
		if turn.Role == dialogue.RoleSystem {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("summary turns = %d, want 1", count)
	}
}

func TestEndSessionDropsState(t *testing.T) {
	e := newTestEngine(&fakeCompleter{}, &fakeSearcher{}, &fakeLocator{})
	e.StartSession("s1")
	e.EndSession("s1")
	if _, ok := e.Snapshot("s1"); ok {
		t.Fatalf("state survived EndSession")
	}
}

func TestProcessTurnRecordsTranscript(t *testing.T) {
	store := transcript.NewInMemoryStore()
	e := New(&fakeCompleter{reply: "sure!"}, &fakeSearcher{restaurants: sampleRestaurants()}, &fakeLocator{}, store, testMetrics, log.New(io.Discard))
	e.StartSession("s1")

	if _, err := e.ProcessTurn(context.Background(), "s1", "pizza"); err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}

	records, err := store.Recent(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %+v, want user+assistant pair", records)
	}
	if records[0].Role != string(dialogue.RoleUser) || records[1].Role != string(dialogue.RoleAssistant) {
		t.Fatalf("record roles = %q, %q", records[0].Role, records[1].Role)
	}
}
