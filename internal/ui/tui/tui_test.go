package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/pond/internal/ritual"
)

// fakeConv is a scripted Conversation for driving the model directly.
type fakeConv struct {
	beginErr error
	turns    []ritual.Turn
}

func (f *fakeConv) Begin(ctx context.Context, title, offering string) (string, ritual.Turn, error) {
	if f.beginErr != nil {
		return "", ritual.Turn{}, f.beginErr
	}
	return "s1", f.next(), nil
}

func (f *fakeConv) Advance(ctx context.Context, sessionID, reply string) (ritual.Turn, error) {
	return f.next(), nil
}

func (f *fakeConv) next() ritual.Turn {
	if len(f.turns) == 0 {
		return ritual.Turn{LevelName: "Descriptive", Round: "Round 1", Body: "What detail stands out?"}
	}
	t := f.turns[0]
	f.turns = f.turns[1:]
	return t
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestModelBegin(t *testing.T) {
	m := sized(NewModel(&fakeConv{}, "The ferry crossing", "We stood at the rail."))

	if !m.Waiting {
		t.Error("expected model to wait for the first turn")
	}

	cmd := m.begin()
	msg := cmd()
	begin, ok := msg.(beginMsg)
	if !ok {
		t.Fatalf("expected beginMsg, got %T", msg)
	}

	updated, _ := m.Update(begin)
	m = updated.(Model)
	if m.Waiting {
		t.Error("expected waiting to clear after first turn")
	}
	if m.sessionID != "s1" {
		t.Errorf("expected session s1, got %q", m.sessionID)
	}
	if !strings.Contains(m.View(), "What detail stands out?") {
		t.Error("expected the pond's turn in the view")
	}
}

func TestModelAdvanceOnEnter(t *testing.T) {
	conv := &fakeConv{turns: []ritual.Turn{
		{LevelName: "Descriptive", Round: "Round 1", Body: "First question?"},
		{LevelName: "Descriptive", Round: "Round 2", Body: "Second question?"},
	}}
	m := sized(NewModel(conv, "Title", "Offering"))

	updated, _ := m.Update(m.begin()())
	m = updated.(Model)

	m.Input.SetValue("It was cold on the water.")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if !m.Waiting {
		t.Error("expected waiting while the pond replies")
	}
	if cmd == nil {
		t.Fatal("expected an advance command")
	}

	turn, ok := cmd().(turnMsg)
	if !ok {
		t.Fatalf("expected turnMsg, got %T", cmd())
	}
	updated, _ = m.Update(turn)
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "It was cold on the water.") {
		t.Error("expected the player reply in the transcript")
	}
	if !strings.Contains(view, "Second question?") {
		t.Error("expected the next turn in the transcript")
	}
}

func TestModelIgnoresEmptyReply(t *testing.T) {
	m := sized(NewModel(&fakeConv{}, "Title", "Offering"))
	updated, _ := m.Update(m.begin()())
	m = updated.(Model)

	m.Input.SetValue("   ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		if _, isTurn := cmd().(turnMsg); isTurn {
			t.Error("expected no advance for a blank reply")
		}
	}
}

func TestModelFinishedQuitsOnEnter(t *testing.T) {
	conv := &fakeConv{turns: []ritual.Turn{
		{LevelName: "Reflexive", Round: "Artifact", Body: "A closing note.", Finished: true},
	}}
	m := sized(NewModel(conv, "Title", "Offering"))
	updated, _ := m.Update(m.begin()())
	m = updated.(Model)

	if !strings.Contains(m.View(), "ritual is complete") {
		t.Error("expected completion hint")
	}

	m.Input.SetValue("goodbye")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.Quitting {
		t.Error("expected the model to quit after a finished ritual")
	}
	if cmd == nil {
		t.Fatal("expected tea.Quit")
	}
}

func TestModelBeginError(t *testing.T) {
	m := sized(NewModel(&fakeConv{beginErr: errors.New("no provider")}, "Title", "Offering"))

	updated, _ := m.Update(m.begin()())
	m = updated.(Model)

	if m.Err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(m.View(), "no provider") {
		t.Error("expected the error in the view")
	}
}

func TestModelQuitKeys(t *testing.T) {
	m := sized(NewModel(&fakeConv{}, "Title", "Offering"))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !updated.(Model).Quitting {
		t.Error("expected ctrl+c to quit")
	}
}
