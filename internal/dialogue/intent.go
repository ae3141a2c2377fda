package dialogue

import (
	"strings"

	"github.com/weenlabs/ween/internal/lexicon"
)

// Intent labels a turn as a follow-up to the prior exchange or a new query.
type Intent string

const (
	IntentFollowUp Intent = "follow_up"
	IntentNewQuery Intent = "new_query"
)

// followUpMaxLen is the length heuristic separating follow-ups from new
// queries. It is an approximation, not a semantic judgment: short messages
// are overwhelmingly refinements of the previous request.
const followUpMaxLen = 25

// Classification is the pure per-turn analysis fed into prompt assembly.
type Classification struct {
	Intent        Intent
	OffTopic      bool
	DetailRequest bool
	Negative      bool
}

// ClassifyTurn analyzes one user utterance. It has no side effects.
func ClassifyTurn(utterance string) Classification {
	return Classification{
		Intent:        classifyIntent(utterance),
		OffTopic:      isOffTopic(utterance),
		DetailRequest: isDetailRequest(utterance),
		Negative:      lexicon.ContainsAny(utterance, lexicon.NegativeSentiment),
	}
}

func classifyIntent(utterance string) Intent {
	if len(strings.TrimSpace(utterance)) < followUpMaxLen {
		return IntentFollowUp
	}
	return IntentNewQuery
}

// isOffTopic is true only when the utterance has no food/dining keyword and
// does contain an off-domain keyword. Both lists match whole tokens:
// substring matching would find "eat" inside "weather" and "play" inside
// "places". Any mention of "hotel" is always on-topic: travelers asking
// about hotels usually want restaurants too.
func isOffTopic(utterance string) bool {
	if lexicon.HasToken(utterance, lexicon.DomainKeywords) {
		return false
	}
	if strings.Contains(strings.ToLower(utterance), "hotel") {
		return false
	}
	return lexicon.HasToken(utterance, lexicon.OffDomainKeywords)
}

// isDetailRequest requires both a detail keyword anywhere in the utterance
// and an interrogative as a whole token.
func isDetailRequest(utterance string) bool {
	return lexicon.ContainsAny(utterance, lexicon.DetailKeywords) &&
		lexicon.HasToken(utterance, lexicon.Interrogatives)
}
