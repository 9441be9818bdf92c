// Package ritual implements the pond's three-level reflection ritual:
// a state machine that walks a player from describing a memory, through
// interpreting it, to connecting it with self and world, and finally to
// an archival choice.
package ritual

import (
	"strings"

	"github.com/felixgeelhaar/pond/internal/intent"
)

// Phase is the ritual's coarse position.
type Phase string

const (
	PhaseReflecting    Phase = "reflecting"     // rounds within a level
	PhaseLevelDecision Phase = "level_decision" // waiting for consent to go deeper
	PhaseArchiveChoice Phase = "archive_choice" // waiting for float/sink/hold
	PhaseDone          Phase = "done"
)

// Speaker tags a history entry.
type Speaker string

const (
	SpeakerPlayer   Speaker = "player"
	SpeakerPond     Speaker = "pond"
	SpeakerArtifact Speaker = "artifact"
)

// Entry is one line of the ritual transcript.
type Entry struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Summary is the transition synthesis that closed one level.
type Summary struct {
	Level string `json:"level"`
	Text  string `json:"summary"`
}

// State is the full, serializable position of one ritual session.
type State struct {
	Title     string        `json:"title"`
	Offering  string        `json:"offering"`
	Level     int           `json:"level"`
	Round     int           `json:"round"`
	Phase     Phase         `json:"phase"`
	History   []Entry       `json:"history"`
	Summaries []Summary     `json:"summaries"`
	// LevelAnchor is the history index where the current level began;
	// only entries past it count as the level's notes.
	LevelAnchor int           `json:"level_anchor"`
	Choice      intent.Choice `json:"choice,omitempty"`
	// Echoes are related past memories surfaced when the ritual began.
	Echoes []string `json:"echoes,omitempty"`
}

// NewState seeds a ritual at Level 1, before the first round.
func NewState(title, offering string) *State {
	return &State{
		Title:    strings.TrimSpace(title),
		Offering: strings.TrimSpace(offering),
		Phase:    PhaseReflecting,
	}
}

// Finished reports whether the ritual has completed its archival choice.
func (s *State) Finished() bool {
	return s.Phase == PhaseDone
}

func (s *State) record(speaker Speaker, text string) {
	s.History = append(s.History, Entry{Speaker: speaker, Text: text})
}

// levelNotes joins everything the player said on the current level.
// On the first level the offering itself is part of the notes.
func (s *State) levelNotes() string {
	var notes []string
	for _, e := range s.History[s.LevelAnchor:] {
		if e.Speaker == SpeakerPlayer {
			notes = append(notes, e.Text)
		}
	}
	if s.Level == 0 && s.Offering != "" {
		notes = append([]string{s.Offering}, notes...)
	}
	joined := strings.TrimSpace(strings.Join(notes, "\n"))
	if joined == "" {
		return s.Offering
	}
	return joined
}

// summariesText renders prior level syntheses as concise bullets.
func (s *State) summariesText() string {
	if len(s.Summaries) == 0 {
		return ""
	}
	var lines []string
	for _, sum := range s.Summaries {
		lines = append(lines, "- "+sum.Level+": "+strings.TrimSpace(sum.Text))
	}
	return strings.Join(lines, "\n")
}

// contextBundle assembles title + offering + echoes + prior syntheses +
// current level notes. It is fed to the model on every generation so
// later levels remember earlier ones.
func (s *State) contextBundle() string {
	var parts []string
	if s.Title != "" {
		parts = append(parts, "Title: "+s.Title)
	}
	if s.Offering != "" {
		parts = append(parts, "Offering: "+s.Offering)
	}
	if len(s.Echoes) > 0 {
		var lines []string
		for _, e := range s.Echoes {
			lines = append(lines, "- "+e)
		}
		parts = append(parts, "Echoes of past reflections:\n"+strings.Join(lines, "\n"))
	}
	if prev := s.summariesText(); prev != "" {
		parts = append(parts, "Previous level syntheses:\n"+prev)
	}
	if current := s.levelNotes(); current != "" {
		parts = append(parts, "Current level notes:\n"+current)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// Turn is one pond response, dressed with the current level's framing
// so callers can render it without consulting the script.
type Turn struct {
	Phase     Phase         `json:"phase"`
	Level     int           `json:"level"`
	LevelName string        `json:"level_name"`
	Icon      string        `json:"icon"`
	Metaphor  string        `json:"metaphor"`
	Round     string        `json:"round"`
	Body      string        `json:"body"`
	Finished  bool          `json:"finished"`
	Choice    intent.Choice `json:"choice,omitempty"`
}

// Artifact returns the stored memory artifact text, if the ritual made one.
func (s *State) Artifact() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Speaker == SpeakerArtifact {
			return s.History[i].Text
		}
	}
	return ""
}
