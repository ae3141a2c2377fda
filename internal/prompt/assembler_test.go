package prompt

import (
	"strings"
	"testing"

	"github.com/weenlabs/ween/internal/dialogue"
)

func TestAssembleFixedOrder(t *testing.T) {
	ctx := dialogue.Context{}.
		AppendUser("sushi please").
		AppendAssistant("Here are some sushi spots!").
		UpsertSummary("Based on our conversation, I understand that: You enjoy japanese cuisine.")

	in := Input{
		Utterance: "what about something cheaper",
		Analysis: dialogue.Classification{
			Intent:   dialogue.IntentFollowUp,
			Negative: true,
		},
		Preferences:   dialogue.Preferences{Cuisine: strptr("sushi")},
		Context:       ctx,
		MemorySummary: "Based on our conversation, I understand that: You enjoy japanese cuisine.",
		Candidates:    []Candidate{{Name: "Sakura", Emoji: "🍣"}},
	}

	messages := Assemble(in)

	// persona, 2 dialogue turns, summary, follow-up note, negative note,
	// candidates, format reminder, utterance.
	if len(messages) != 9 {
		t.Fatalf("len = %d, want 9: %+v", len(messages), messages)
	}

	if messages[0].Role != dialogue.RoleSystem || !strings.Contains(messages[0].Content, "Current intent: follow_up") {
		t.Fatalf("persona message wrong: %+v", messages[0])
	}
	if !strings.Contains(messages[0].Content, `"cuisine":"sushi"`) {
		t.Fatalf("persona message missing serialized preferences: %q", messages[0].Content)
	}

	if messages[1].Role != dialogue.RoleUser || messages[1].Content != "sushi please" {
		t.Fatalf("prior user turn misplaced: %+v", messages[1])
	}
	if messages[2].Role != dialogue.RoleAssistant {
		t.Fatalf("prior assistant turn misplaced: %+v", messages[2])
	}

	if messages[3].Content != in.MemorySummary {
		t.Fatalf("memory summary misplaced: %+v", messages[3])
	}
	if messages[4].Content != followUpNote {
		t.Fatalf("follow-up note misplaced: %+v", messages[4])
	}
	if messages[5].Content != negativeNote {
		t.Fatalf("negative note misplaced: %+v", messages[5])
	}
	if !strings.Contains(messages[6].Content, `"Sakura"`) {
		t.Fatalf("candidates message missing data: %q", messages[6].Content)
	}
	if messages[7].Content != formatReminder {
		t.Fatalf("format reminder misplaced: %+v", messages[7])
	}

	last := messages[len(messages)-1]
	if last.Role != dialogue.RoleUser || last.Content != in.Utterance {
		t.Fatalf("utterance must be last: %+v", last)
	}
}

func TestAssembleExcludesSystemTurnsFromDialogueEcho(t *testing.T) {
	ctx := dialogue.Context{}.
		AppendUser("hi").
		UpsertSummary("Based on our conversation, I understand that: You enjoy thai cuisine.")

	messages := Assemble(Input{
		Utterance: "thai food",
		Analysis:  dialogue.Classification{Intent: dialogue.IntentNewQuery},
		Context:   ctx,
	})

	// Only the persona carries a system role before the candidate block; the
	// stored summary turn must not be echoed as part of the dialogue.
	count := 0
	for _, m := range messages {
		if strings.HasPrefix(m.Content, "Based on our conversation") {
			count++
		}
	}
	if count != 0 {
		t.Fatalf("stored summary echoed %d times, want 0 without MemorySummary input", count)
	}
}

func TestAssembleConditionalNotes(t *testing.T) {
	base := Input{
		Utterance: "a long new query about where to find a great dinner spot",
		Analysis:  dialogue.Classification{Intent: dialogue.IntentNewQuery},
	}
	messages := Assemble(base)
	for _, m := range messages {
		switch m.Content {
		case followUpNote, negativeNote, detailNote, offTopicNote:
			t.Fatalf("unexpected conditional note: %q", m.Content)
		}
	}

	all := Assemble(Input{
		Utterance: "what",
		Analysis: dialogue.Classification{
			Intent:        dialogue.IntentFollowUp,
			OffTopic:      true,
			DetailRequest: true,
			Negative:      true,
		},
	})
	want := []string{followUpNote, negativeNote, detailNote, offTopicNote}
	for _, note := range want {
		found := false
		for _, m := range all {
			if m.Content == note {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing conditional note: %q", note)
		}
	}
}

func strptr(s string) *string { return &s }
