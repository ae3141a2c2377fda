package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/weenlabs/ween/internal/dialogue"
	"github.com/weenlabs/ween/internal/places"
	"github.com/weenlabs/ween/internal/prompt"
	"github.com/weenlabs/ween/internal/reliability"
)

const describerSystemPrompt = "You are a food writer. Write one short, vivid paragraph describing the restaurant the user names. Mention the cuisine and atmosphere. Do not invent specific facts like hours, prices, or ratings."

// Describer generates standalone restaurant descriptions outside of any
// conversation. Unlike the interactive path it retries rate limits: up to
// three attempts with 1s/2s/4s backoff, then a terminal error.
type Describer struct {
	completer Completer
	retry     *reliability.BackoffRetry
	logger    *log.Logger
}

func NewDescriber(completer Completer, logger *log.Logger) *Describer {
	return &Describer{
		completer: completer,
		retry: reliability.NewBackoffRetry(3, time.Second, func(err error) bool {
			return errors.Is(err, ErrRateLimited)
		}),
		logger: logger,
	}
}

// Describe produces one description per restaurant, keyed by name. The
// batch stops at the first terminal failure so a dead credential does not
// burn through the whole list.
func (d *Describer) Describe(ctx context.Context, restaurants []places.Restaurant) (map[string]string, error) {
	out := make(map[string]string, len(restaurants))
	for _, r := range restaurants {
		messages := []prompt.Message{
			{Role: dialogue.RoleSystem, Content: describerSystemPrompt},
			{Role: dialogue.RoleUser, Content: fmt.Sprintf("%s, %s", r.Name, r.Vicinity)},
		}

		var text string
		err := d.retry.Do(ctx, func(ctx context.Context) error {
			var callErr error
			text, callErr = d.completer.Complete(ctx, messages)
			return callErr
		})
		if err != nil {
			d.logger.Error("describe failed", "restaurant", r.Name, "error", err)
			return out, fmt.Errorf("describe %q: %w", r.Name, err)
		}
		out[r.Name] = text
	}
	return out, nil
}
