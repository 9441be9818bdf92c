package intent

import "testing"

func TestAffirmative(t *testing.T) {
	yes := []string{"yes", "ok", "continue", "let's go", "go on", "deeper", "sure, continue"}
	for _, s := range yes {
		if !Affirmative(s) {
			t.Errorf("Expected %q to be affirmative", s)
		}
	}

	t.Run("Long Input Is Not Consent", func(t *testing.T) {
		if Affirmative("yes but first let me tell you about the rest of the afternoon") {
			t.Error("Long input must not count as consent")
		}
	})

	t.Run("Negative", func(t *testing.T) {
		for _, s := range []string{"", "hmm", "not sure what happened"} {
			if Affirmative(s) {
				t.Errorf("Expected %q not to be affirmative", s)
			}
		}
	})
}

func TestWantsMore(t *testing.T) {
	more := []string{"not yet", "wait", "one more", "add this"}
	for _, s := range more {
		if !WantsMore(s) {
			t.Errorf("Expected %q to want more", s)
		}
	}

	t.Run("Verbose Reply Counts As More", func(t *testing.T) {
		if !WantsMore("there was also the smell of rain on the pavement outside") {
			t.Error("Long free text means the player is still sharing")
		}
	})

	t.Run("Short Neutral", func(t *testing.T) {
		if WantsMore("ok") {
			t.Error("Bare consent is not a request for more")
		}
	})
}

func TestParseChoice(t *testing.T) {
	cases := []struct {
		in   string
		want Choice
	}{
		{"float", ChoiceFloat},
		{"let it float", ChoiceFloat},
		{"I accept it", ChoiceFloat},
		{"sink", ChoiceSink},
		{"let go of it", ChoiceSink},
		{"release this one", ChoiceSink},
		{"hold", ChoiceHold},
		{"hold it awhile longer", ChoiceHold},
		{"pause", ChoiceHold},
		{"FLOAT", ChoiceFloat},
		{"", ChoiceNone},
		{"something unrelated entirely", ChoiceNone},
	}
	for _, tc := range cases {
		if got := ParseChoice(tc.in); got != tc.want {
			t.Errorf("ParseChoice(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChoice_Valid(t *testing.T) {
	for _, c := range []Choice{ChoiceFloat, ChoiceSink, ChoiceHold} {
		if !c.Valid() {
			t.Errorf("Expected %q to be valid", c)
		}
	}
	if ChoiceNone.Valid() {
		t.Error("Empty choice must be invalid")
	}
	if Choice("drown").Valid() {
		t.Error("Unknown choice must be invalid")
	}
}
