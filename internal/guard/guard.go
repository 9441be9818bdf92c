// Package guard enforces the pond's voice on model output.
// Raw completions are never shown to the player: every generation is
// reshaped to the expected sentence count, stripped of first-person
// language and stock pond clichés, and capped to a word budget.
package guard

import (
	"regexp"
	"strings"
)

// Policy defines the word budgets and style rules for a ritual session.
type Policy struct {
	ReplyWords       int      `json:"reply_words" yaml:"reply_words"`         // ack + question total
	QuestionWords    int      `json:"question_words" yaml:"question_words"`   // trailing question alone
	SentenceWords    int      `json:"sentence_words" yaml:"sentence_words"`   // closure sentence
	ParagraphWords   int      `json:"paragraph_words" yaml:"paragraph_words"` // transition synthesis
	ArtifactWords    int      `json:"artifact_words" yaml:"artifact_words"`   // final artifact
	BannedPhrases    []string `json:"banned_phrases" yaml:"banned_phrases"`
	ScrubFirstPerson bool     `json:"scrub_first_person" yaml:"scrub_first_person"`
}

// DefaultPolicy mirrors the budgets the pond's prompts were tuned with.
var DefaultPolicy = Policy{
	ReplyWords:     60,
	QuestionWords:  30,
	SentenceWords:  45,
	ParagraphWords: 80,
	ArtifactWords:  42,
	BannedPhrases: []string{
		"ripples of", "autumn leaves", "waters of your heart", "ebb and flow",
		"gentle lapping", "on my shore", "my surface", "I reflect", "I hold",
		"allow yourself", "should", "you need to",
	},
	ScrubFirstPerson: true,
}

var (
	sentenceSplit = regexp.MustCompile(`[^.?!…]+[.?!…]*`)
	sentenceEnd   = regexp.MustCompile(`[.?!…]\s*$`)
	firstPerson   = regexp.MustCompile(`(?i)\b(I|I'm|I am|my|mine)\b`)
	multiSpace    = regexp.MustCompile(`\s{2,}`)
)

// Guard applies a Policy to generated text.
type Guard struct {
	policy Policy
	banned []*regexp.Regexp
}

func New(p Policy) *Guard {
	g := &Guard{policy: p}
	for _, phrase := range p.BannedPhrases {
		g.banned = append(g.banned, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(phrase)))
	}
	return g
}

// Policy returns the guard's current policy configuration.
func (g *Guard) Policy() Policy {
	return g.policy
}

// Sentences splits text on sentence boundaries, keeping each sentence's
// terminal punctuation and dropping empty parts.
func Sentences(text string) []string {
	var out []string
	for _, p := range sentenceSplit.FindAllString(strings.TrimSpace(text), -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LimitWords truncates s to at most n words.
func LimitWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}

// Sanitize strips banned phrases and (per policy) first-person language,
// collapses whitespace, and caps the result at maxWords.
func (g *Guard) Sanitize(text string, maxWords int) string {
	t := text
	for _, rx := range g.banned {
		t = rx.ReplaceAllString(t, "")
	}
	if g.policy.ScrubFirstPerson {
		t = firstPerson.ReplaceAllString(t, "")
	}
	t = strings.TrimSpace(multiSpace.ReplaceAllString(t, " "))

	words := strings.Fields(t)
	if len(words) > maxWords {
		t = strings.TrimRight(strings.Join(words[:maxWords], " "), ",; ") + "."
	}
	return t
}

// ReplyShape reduces text to an acknowledgement plus one open question.
// The question is capped on its own before the combined sanitize pass.
func (g *Guard) ReplyShape(text string) string {
	parts := Sentences(text)

	first := "You’ve named something clearly."
	if len(parts) > 0 {
		first = parts[0]
	}
	q := "What detail stands out most?"
	if len(parts) >= 2 {
		q = parts[1]
	}
	q = strings.TrimSpace(strings.TrimRight(q, ".!… "))
	q = LimitWords(q, g.policy.QuestionWords)
	if !strings.HasSuffix(q, "?") {
		q += "?"
	}

	if !sentenceEnd.MatchString(first) {
		first += "."
	}
	return g.Sanitize(first+" "+q, g.policy.ReplyWords)
}

// SentenceShape reduces text to a single validating sentence, no question.
func (g *Guard) SentenceShape(text string) string {
	parts := Sentences(text)
	one := "You described the moment with enough detail to hold it"
	if len(parts) > 0 {
		one = parts[0]
	}
	one = strings.TrimRight(one, "?!.… ") + "."
	return g.Sanitize(one, g.policy.SentenceWords)
}

// ParagraphShape flattens text into a short synthesis paragraph.
func (g *Guard) ParagraphShape(text string) string {
	s := strings.Join(Sentences(text), " ")
	if s == "" {
		s = "You clarified what happened and how it felt. We’ll carry those " +
			"details and look for patterns next. The aim is understanding, not judgment."
	}
	s = strings.TrimSpace(LimitWords(s, g.policy.ParagraphWords))
	if !sentenceEnd.MatchString(s) {
		s += "."
	}
	return g.Sanitize(s, g.policy.ParagraphWords)
}

// ArtifactShape reduces text to the two-sentence closing artifact.
func (g *Guard) ArtifactShape(text string) string {
	parts := Sentences(text)
	for len(parts) < 2 {
		parts = append(parts, "You will keep this as a clear, simple note.")
	}
	first := strings.TrimRight(parts[0], ".!?… ")
	joined := LimitWords(first+". "+parts[1], g.policy.ArtifactWords)
	if !sentenceEnd.MatchString(joined) {
		joined += "."
	}
	return g.Sanitize(joined, g.policy.ArtifactWords)
}
