// Package engine runs the per-turn dialogue loop: classify the utterance,
// fold it into preferences and memory, filter candidates, assemble the
// prompt, call the LLM, and fold the reply back into the conversation.
// Every failure is converted into a visible assistant message at the turn
// boundary; nothing propagates far enough to crash the loop.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/weenlabs/ween/internal/dialogue"
	"github.com/weenlabs/ween/internal/llm"
	"github.com/weenlabs/ween/internal/observability"
	"github.com/weenlabs/ween/internal/places"
	"github.com/weenlabs/ween/internal/prompt"
	"github.com/weenlabs/ween/internal/reliability"
	"github.com/weenlabs/ween/internal/transcript"
)

var (
	ErrUnknownSession = errors.New("engine: unknown session")
	// ErrTurnInFlight rejects a second submission while a turn is being
	// processed. One user submission at a time per dialogue.
	ErrTurnInFlight = errors.New("engine: turn already in flight")
)

// thinkingText is the placeholder shown while a turn is processing. It is
// removed by exact content match on every exit path.
const thinkingText = "Thinking..."

const welcomeText = "Hey there! 👋 I'm Ween, your AI restaurant assistant. 🍽️ Tell me what you're craving, and I'll find great places nearby! 📍 I can also help with details like hours ⏰, reviews ⭐, and menus 📖. What are you in the mood for today? 😋"

// Fixed user-safe apologies, one per failure class.
const (
	apologyNoRestaurants = "I couldn't find any restaurants near your location. Could you try again or be more specific about what you're looking for?"
	apologyLocation      = "I'm having trouble getting your location. Could you check your browser permissions and try again? Or you can tell me what area you're interested in."
	apologyConfig        = "I'm having trouble connecting right now. Please check your API key configuration."
	apologyAuth          = "I can't access my restaurant brain right now. There seems to be an authentication issue with my API key. 🔑"
	apologyRateLimited   = "I've reached my limit for restaurant searches at the moment. Please try again in a minute. ⏱️"
	apologyNetwork       = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment. 🙁"
)

// State is the complete dialogue state of one session, passed through the
// turn-processing steps as an explicit value. No ambient globals.
type State struct {
	Messages    []dialogue.DisplayMessage
	Context     dialogue.Context
	Preferences dialogue.Preferences
	Memory      dialogue.Memory
	Restaurants []places.Restaurant
	InFlight    bool
}

func (s State) clone() State {
	c := s
	c.Messages = append([]dialogue.DisplayMessage(nil), s.Messages...)
	c.Context = append(dialogue.Context(nil), s.Context...)
	c.Restaurants = append([]places.Restaurant(nil), s.Restaurants...)
	return c
}

// Engine owns one State per session and processes turns one at a time.
type Engine struct {
	mu     sync.Mutex
	states map[string]*State

	completer   llm.Completer
	searcher    places.Searcher
	locator     places.LocationProvider
	transcripts transcript.Store
	metrics     *observability.Metrics
	logger      *log.Logger

	// The interactive path fails fast; retries belong to the batch helper.
	strategy reliability.Strategy
}

func New(
	completer llm.Completer,
	searcher places.Searcher,
	locator places.LocationProvider,
	transcripts transcript.Store,
	metrics *observability.Metrics,
	logger *log.Logger,
) *Engine {
	return &Engine{
		states:      make(map[string]*State),
		completer:   completer,
		searcher:    searcher,
		locator:     locator,
		transcripts: transcripts,
		metrics:     metrics,
		logger:      logger,
		strategy:    reliability.FailFast{},
	}
}

// StartSession initializes dialogue state for a session and returns the
// welcome message.
func (e *Engine) StartSession(sessionID string) dialogue.DisplayMessage {
	welcome := dialogue.DisplayMessage{Sender: dialogue.SenderBot, Text: welcomeText}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.states[sessionID] = &State{Messages: []dialogue.DisplayMessage{welcome}}
	return welcome
}

// EndSession drops the dialogue state. Memory dies with the session.
func (e *Engine) EndSession(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.states, sessionID)
}

// Snapshot returns a copy of the session's current state.
func (e *Engine) Snapshot(sessionID string) (State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[sessionID]
	if !ok {
		return State{}, false
	}
	return st.clone(), true
}

// ProcessTurn runs one user submission through the full pipeline and
// returns the assistant's reply. LLM and search failures never surface as
// errors: they come back as the reply text, already phrased for the user.
// Only session-level problems (unknown session, a turn already in flight)
// return an error.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, input string) (string, error) {
	state, err := e.beginTurn(sessionID)
	if err != nil {
		return "", err
	}

	started := time.Now()
	analysis := dialogue.ClassifyTurn(input)

	state.Messages = append(state.Messages,
		dialogue.DisplayMessage{Sender: dialogue.SenderUser, Text: input},
		dialogue.DisplayMessage{Sender: dialogue.SenderBot, Text: thinkingText},
	)

	// The placeholder is cleared on every exit path, success or failure.
	defer func() {
		state.Messages = removeThinking(state.Messages)
		e.commit(sessionID, state)
		e.metrics.ObserveTurnLatency(time.Since(started))
	}()

	if len(state.Restaurants) == 0 {
		restaurants, fetchErr := e.fetchRestaurants(ctx)
		switch {
		case fetchErr != nil:
			e.logger.Warn("restaurant fetch failed", "session", sessionID, "error", fetchErr)
			return e.apologize(&state, analysis, apologyLocation), nil
		case len(restaurants) == 0:
			return e.apologize(&state, analysis, apologyNoRestaurants), nil
		}
		state.Restaurants = restaurants
	}

	state.Preferences = dialogue.ResolvePreferences(state.Preferences, input)

	candidates := dialogue.FilterCandidates(state.Restaurants, state.Preferences)
	if len(candidates) == 0 {
		// Advisory filtering only: never starve the recommendation step.
		candidates = state.Restaurants
	}

	messages := prompt.Assemble(prompt.Input{
		Utterance:     input,
		Analysis:      analysis,
		Preferences:   state.Preferences,
		Context:       state.Context,
		MemorySummary: dialogue.Summarize(state.Memory),
		Candidates:    prompt.FormatCandidates(candidates),
	})

	var reply string
	callErr := e.strategy.Do(ctx, func(ctx context.Context) error {
		var err error
		reply, err = e.completer.Complete(ctx, messages)
		return err
	})
	if callErr != nil {
		e.metrics.LLMErrors.WithLabelValues(errorClass(callErr)).Inc()
		e.logger.Error("llm call failed", "session", sessionID, "error", callErr)
		return e.apologize(&state, analysis, apologyFor(callErr)), nil
	}

	state.Memory = dialogue.UpdateMemory(state.Memory, input, reply)
	state.Context = state.Context.AppendUser(input).AppendAssistant(reply)
	if summary := dialogue.Summarize(state.Memory); summary != "" {
		state.Context = state.Context.UpsertSummary(summary)
	}
	state.Messages = append(state.Messages, dialogue.DisplayMessage{Sender: dialogue.SenderBot, Text: reply})

	e.record(ctx, sessionID, input, reply)
	e.metrics.Turns.WithLabelValues(string(analysis.Intent), "ok").Inc()

	return reply, nil
}

// beginTurn claims the session's in-flight slot and hands back a working
// copy of its state.
func (e *Engine) beginTurn(sessionID string) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[sessionID]
	if !ok {
		return State{}, ErrUnknownSession
	}
	if st.InFlight {
		return State{}, ErrTurnInFlight
	}
	st.InFlight = true
	working := st.clone()
	working.InFlight = true
	return working, nil
}

// commit publishes the turn's resulting state and releases the in-flight slot.
func (e *Engine) commit(sessionID string, state State) {
	state.InFlight = false

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.states[sessionID]; !ok {
		// Session ended mid-turn; drop the result.
		return
	}
	e.states[sessionID] = &state
}

func (e *Engine) fetchRestaurants(ctx context.Context) ([]places.Restaurant, error) {
	loc, err := e.locator.Locate(ctx)
	if err != nil {
		e.metrics.SearchRequests.WithLabelValues("location_error").Inc()
		return nil, err
	}
	restaurants, err := e.searcher.Nearby(ctx, loc.Lat, loc.Lng)
	if err != nil {
		e.metrics.SearchRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(restaurants) == 0 {
		e.metrics.SearchRequests.WithLabelValues("empty").Inc()
	} else {
		e.metrics.SearchRequests.WithLabelValues("ok").Inc()
	}
	return restaurants, nil
}

// apologize appends a fixed apology as the assistant turn for this
// submission. Apologies become part of the visible transcript but not of
// the LLM conversation context.
func (e *Engine) apologize(state *State, analysis dialogue.Classification, text string) string {
	state.Messages = append(state.Messages, dialogue.DisplayMessage{Sender: dialogue.SenderBot, Text: text})
	e.metrics.Turns.WithLabelValues(string(analysis.Intent), "apology").Inc()
	return text
}

// record saves the exchange to the transcript store, best effort.
func (e *Engine) record(ctx context.Context, sessionID, input, reply string) {
	if e.transcripts == nil {
		return
	}
	for _, rec := range []transcript.TurnRecord{
		{SessionID: sessionID, Role: string(dialogue.RoleUser), Content: input},
		{SessionID: sessionID, Role: string(dialogue.RoleAssistant), Content: reply},
	} {
		if err := e.transcripts.SaveTurn(ctx, rec); err != nil {
			e.logger.Warn("transcript save failed", "session", sessionID, "error", err)
			return
		}
	}
}

func removeThinking(messages []dialogue.DisplayMessage) []dialogue.DisplayMessage {
	out := messages[:0]
	for _, m := range messages {
		if m.Sender == dialogue.SenderBot && m.Text == thinkingText {
			continue
		}
		out = append(out, m)
	}
	return out
}

func apologyFor(err error) string {
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		return apologyConfig
	case errors.Is(err, llm.ErrAuth):
		return apologyAuth
	case errors.Is(err, llm.ErrRateLimited):
		return apologyRateLimited
	default:
		return apologyNetwork
	}
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		return "config"
	case errors.Is(err, llm.ErrAuth):
		return "auth"
	case errors.Is(err, llm.ErrRateLimited):
		return "rate_limited"
	default:
		return "network"
	}
}
