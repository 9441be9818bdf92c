// Package intent classifies short player inputs at ritual decision points.
package intent

import (
	"regexp"
	"strings"
)

// Choice is the archival stance a player picks for a finished reflection.
type Choice string

const (
	ChoiceNone  Choice = ""
	ChoiceFloat Choice = "float" // accepted, held lightly
	ChoiceSink  Choice = "sink"  // released, set down
	ChoiceHold  Choice = "hold"  // kept close for now
)

var (
	yesRx  = regexp.MustCompile(`(?i)\b(yes|y|okay|ok|sure|continue|next|proceed|go on|move on|deeper|ready|let'?s (go|continue|move))\b`)
	moreRx = regexp.MustCompile(`(?i)\b(no|not yet|wait|more|another|add|stay|one more)\b`)

	floatRx = regexp.MustCompile(`(?i)\b(float|accept|integrate|keep|let it float)\b`)
	sinkRx  = regexp.MustCompile(`(?i)\b(sink|release|let go|submerge|drop)\b`)
	holdRx  = regexp.MustCompile(`(?i)\b(hold|keep awhile|not yet|later|wait|pause)\b`)
)

// Affirmative reports whether text is a short consent to go deeper.
// Longer inputs are treated as new material, never as consent.
func Affirmative(text string) bool {
	return yesRx.MatchString(text) && len(strings.Fields(text)) <= 5
}

// WantsMore reports whether the player wants to linger on the current level,
// either explicitly or by offering more than a few words of new detail.
func WantsMore(text string) bool {
	t := strings.TrimSpace(text)
	return moreRx.MatchString(t) || len(strings.Fields(t)) > 5
}

// ParseChoice extracts an archival stance from free text.
// Returns ChoiceNone when no stance can be read.
func ParseChoice(text string) Choice {
	t := strings.TrimSpace(text)
	if t == "" {
		return ChoiceNone
	}
	switch {
	case floatRx.MatchString(t):
		return ChoiceFloat
	case sinkRx.MatchString(t):
		return ChoiceSink
	case holdRx.MatchString(t):
		return ChoiceHold
	}
	switch Choice(strings.ToLower(t)) {
	case ChoiceFloat, ChoiceSink, ChoiceHold:
		return Choice(strings.ToLower(t))
	}
	return ChoiceNone
}

// Valid reports whether c is one of the three archival stances.
func (c Choice) Valid() bool {
	return c == ChoiceFloat || c == ChoiceSink || c == ChoiceHold
}
