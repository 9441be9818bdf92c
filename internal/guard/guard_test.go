package guard

import (
	"strings"
	"testing"
)

func TestSentences(t *testing.T) {
	t.Run("Splits", func(t *testing.T) {
		parts := Sentences("First thing happened. Then another? And a third!")
		if len(parts) != 3 {
			t.Fatalf("Expected 3 sentences, got %d: %v", len(parts), parts)
		}
		if parts[0] != "First thing happened." {
			t.Errorf("Unexpected first sentence: %q", parts[0])
		}
		if parts[1] != "Then another?" {
			t.Errorf("Terminal punctuation lost: %q", parts[1])
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if parts := Sentences("   "); parts != nil {
			t.Errorf("Expected nil for blank input, got %v", parts)
		}
	})
}

func TestLimitWords(t *testing.T) {
	if got := LimitWords("one two three four", 2); got != "one two" {
		t.Errorf("Expected 'one two', got %q", got)
	}
	if got := LimitWords("short", 10); got != "short" {
		t.Errorf("Expected untouched string, got %q", got)
	}
}

func TestGuard_Sanitize(t *testing.T) {
	g := New(DefaultPolicy)

	t.Run("Banned Phrases", func(t *testing.T) {
		out := g.Sanitize("The ripples of memory settle on the water.", 60)
		if strings.Contains(strings.ToLower(out), "ripples of") {
			t.Errorf("Banned phrase survived: %q", out)
		}
	})

	t.Run("First Person", func(t *testing.T) {
		out := g.Sanitize("I am watching. You noticed my stillness.", 60)
		for _, bad := range []string{"I am", " my "} {
			if strings.Contains(out, bad) {
				t.Errorf("First-person %q survived: %q", bad, out)
			}
		}
	})

	t.Run("Word Cap", func(t *testing.T) {
		long := strings.Repeat("word ", 100)
		out := g.Sanitize(long, 10)
		if n := len(strings.Fields(out)); n > 10 {
			t.Errorf("Expected at most 10 words, got %d", n)
		}
		if !strings.HasSuffix(out, ".") {
			t.Errorf("Expected trailing period after truncation: %q", out)
		}
	})

	t.Run("Scrub Disabled", func(t *testing.T) {
		p := DefaultPolicy
		p.ScrubFirstPerson = false
		p.BannedPhrases = nil
		g2 := New(p)
		if out := g2.Sanitize("I am here.", 60); out != "I am here." {
			t.Errorf("Expected untouched text, got %q", out)
		}
	})
}

func TestGuard_ReplyShape(t *testing.T) {
	g := New(DefaultPolicy)

	t.Run("Ack And Question", func(t *testing.T) {
		out := g.ReplyShape("You noticed the quiet after the storm. What sound came back first? Extra trailing sentence.")
		if !strings.HasSuffix(out, "?") {
			t.Errorf("Expected trailing question mark: %q", out)
		}
		if strings.Contains(out, "Extra trailing") {
			t.Errorf("Third sentence leaked through: %q", out)
		}
	})

	t.Run("Question Appended", func(t *testing.T) {
		out := g.ReplyShape("You paused at the doorway. You waited there")
		if !strings.HasSuffix(out, "?") {
			t.Errorf("Expected second sentence coerced into question: %q", out)
		}
	})

	t.Run("Empty Fallback", func(t *testing.T) {
		out := g.ReplyShape("")
		if out == "" {
			t.Fatal("Expected fallback reply for empty input")
		}
		if !strings.HasSuffix(out, "?") {
			t.Errorf("Fallback must end in a question: %q", out)
		}
	})

	t.Run("Question Word Cap", func(t *testing.T) {
		long := "You spoke plainly. " + strings.Repeat("why ", 50) + "now?"
		out := g.ReplyShape(long)
		if n := len(strings.Fields(out)); n > DefaultPolicy.ReplyWords {
			t.Errorf("Reply exceeds budget: %d words", n)
		}
	})
}

func TestGuard_SentenceShape(t *testing.T) {
	g := New(DefaultPolicy)

	out := g.SentenceShape("You held the thought steady? Another sentence.")
	if strings.Contains(out, "?") {
		t.Errorf("Closure sentence must not ask a question: %q", out)
	}
	if !strings.HasSuffix(out, ".") {
		t.Errorf("Expected trailing period: %q", out)
	}

	if out := g.SentenceShape(""); out == "" {
		t.Error("Expected fallback sentence for empty input")
	}
}

func TestGuard_ParagraphShape(t *testing.T) {
	g := New(DefaultPolicy)

	t.Run("Caps Words", func(t *testing.T) {
		long := strings.Repeat("You remembered something real. ", 40)
		out := g.ParagraphShape(long)
		if n := len(strings.Fields(out)); n > DefaultPolicy.ParagraphWords {
			t.Errorf("Paragraph exceeds budget: %d words", n)
		}
	})

	t.Run("Empty Fallback", func(t *testing.T) {
		out := g.ParagraphShape("")
		if !strings.Contains(out, "understanding") {
			t.Errorf("Expected default synthesis, got %q", out)
		}
	})

	t.Run("Keeps Interior Punctuation", func(t *testing.T) {
		in := "You recalled the ferry crossing. The cold wind mattered to you. Next you will look at why. Rest here a moment."
		out := g.ParagraphShape(in)
		if !strings.Contains(out, "crossing.") || !strings.Contains(out, "to you.") {
			t.Errorf("Sentence boundaries lost their periods: %q", out)
		}
	})
}

func TestGuard_ArtifactShape(t *testing.T) {
	g := New(DefaultPolicy)

	t.Run("Two Sentences", func(t *testing.T) {
		out := g.ArtifactShape("The day ended well. You saw why it mattered. A third sentence to drop.")
		if strings.Contains(out, "third sentence") {
			t.Errorf("Expected only two sentences, got %q", out)
		}
	})

	t.Run("Pads Single Sentence", func(t *testing.T) {
		out := g.ArtifactShape("The day ended well.")
		if !strings.Contains(out, "simple note") {
			t.Errorf("Expected padding sentence, got %q", out)
		}
		if strings.Contains(out, "..") {
			t.Errorf("Doubled punctuation in artifact: %q", out)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		out := g.ArtifactShape("")
		if out == "" {
			t.Fatal("Expected fallback artifact for empty input")
		}
		if !strings.Contains(out, "simple note") {
			t.Errorf("Expected padding sentence, got %q", out)
		}
		if out = g.ArtifactShape("   \n"); out == "" {
			t.Error("Expected fallback artifact for whitespace input")
		}
	})

	t.Run("Word Cap", func(t *testing.T) {
		out := g.ArtifactShape(strings.Repeat("word ", 60) + ". " + strings.Repeat("more ", 60) + ".")
		if n := len(strings.Fields(out)); n > DefaultPolicy.ArtifactWords {
			t.Errorf("Artifact exceeds budget: %d words", n)
		}
	})
}
