package ritual

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/pond/internal/guard"
	"github.com/felixgeelhaar/pond/internal/intent"
	"github.com/felixgeelhaar/pond/internal/provider"
	"github.com/felixgeelhaar/pond/internal/script"
)

// Sampling temperatures per generation kind. The closure runs coldest so
// it stays a plain validating sentence.
const (
	tempRound      = 0.16
	tempClosure    = 0.10
	tempTransition = 0.14
	tempArtifact   = 0.12
	topP           = 0.9
)

var (
	ErrTitleRequired = errors.New("a short title (1–5 words) is required to begin")
	ErrNotFinished   = errors.New("the ritual is not finished yet")
)

var stances = map[intent.Choice]string{
	intent.ChoiceFloat: "You chose to let it float: accepted and held lightly.",
	intent.ChoiceSink:  "You chose to let it sink: released and set down.",
	intent.ChoiceHold:  "You chose to hold it awhile: kept close for now.",
}

// Stance returns the archival stance note for a choice.
func Stance(c intent.Choice) string {
	if s, ok := stances[c]; ok {
		return s
	}
	return stances[intent.ChoiceHold]
}

// Engine drives a ritual State against a model provider, shaping every
// generation through the guard before the player sees it.
type Engine struct {
	provider provider.Provider
	guard    *guard.Guard
	script   *script.Script
}

func NewEngine(p provider.Provider, s *script.Script) *Engine {
	return &Engine{
		provider: p,
		guard:    guard.New(s.Guard),
		script:   s,
	}
}

// Script returns the ritual script the engine runs.
func (e *Engine) Script() *script.Script {
	return e.script
}

// Begin seeds a new ritual and produces Level 1, Round 1. Echoes are
// related past memories folded into the first context bundle.
func (e *Engine) Begin(ctx context.Context, title, offering string, echoes []string) (*State, Turn, error) {
	if strings.TrimSpace(title) == "" {
		return nil, Turn{}, ErrTitleRequired
	}
	st := NewState(title, offering)
	st.Echoes = echoes

	turn, err := e.Advance(ctx, st, st.Offering)
	if err != nil {
		return nil, Turn{}, err
	}
	return st, turn, nil
}

// Advance feeds one player reply into the ritual and returns the pond's turn.
func (e *Engine) Advance(ctx context.Context, st *State, reply string) (Turn, error) {
	reply = strings.TrimSpace(reply)

	switch st.Phase {
	case PhaseDone:
		return e.turn(st, "Complete", "The ritual is complete."), nil
	case PhaseArchiveChoice:
		return e.advanceArchiveChoice(ctx, st, reply)
	case PhaseLevelDecision:
		return e.advanceLevelDecision(ctx, st, reply)
	default:
		return e.advanceReflecting(ctx, st, reply)
	}
}

func (e *Engine) advanceReflecting(ctx context.Context, st *State, reply string) (Turn, error) {
	if reply != "" {
		st.record(SpeakerPlayer, reply)
	}

	// Early rounds: acknowledgement + open question.
	if st.Round < e.script.RoundsPerLevel-1 {
		if st.Round == 0 {
			st.LevelAnchor = len(st.History)
		}
		pondReply, err := e.roundReply(ctx, st)
		if err != nil {
			return Turn{}, err
		}
		st.record(SpeakerPond, pondReply)
		st.Round++
		return e.turn(st, fmt.Sprintf("Round %d", st.Round), pondReply), nil
	}

	// Final round: closure sentence, then a transition synthesis.
	closure, err := e.closureSentence(ctx, st)
	if err != nil {
		return Turn{}, err
	}
	st.record(SpeakerPond, closure)

	if st.Level < e.script.LevelCount()-1 {
		next := e.script.Levels[st.Level+1]
		trans, err := e.transitionSynthesis(ctx, st, next.Name)
		if err != nil {
			return Turn{}, err
		}
		st.record(SpeakerPond, trans)
		st.Summaries = append(st.Summaries, Summary{Level: e.script.Levels[st.Level].Name, Text: trans})
		st.Phase = PhaseLevelDecision

		invite := fmt.Sprintf("%s\n\n☁️ The pond grows quiet. Say continue to move to Level %d: %s, or add one more detail to linger here.",
			trans, st.Level+2, next.Name)
		return e.turn(st, "Transition", invite), nil
	}

	trans, err := e.transitionSynthesis(ctx, st, "Archiving")
	if err != nil {
		return Turn{}, err
	}
	st.record(SpeakerPond, trans)
	st.Summaries = append(st.Summaries, Summary{Level: e.script.Levels[st.Level].Name, Text: trans})
	st.Phase = PhaseArchiveChoice

	closing := trans + "\n\n🌊 The reflection feels complete.\n🪶 Do you let it float, sink, or hold it awhile longer?"
	return e.turn(st, "Transition", closing), nil
}

func (e *Engine) advanceLevelDecision(ctx context.Context, st *State, reply string) (Turn, error) {
	if intent.Affirmative(reply) {
		st.Phase = PhaseReflecting
		st.Level++
		st.Round = 0
		st.LevelAnchor = len(st.History)

		pondReply, err := e.roundReply(ctx, st)
		if err != nil {
			return Turn{}, err
		}
		st.record(SpeakerPond, pondReply)
		st.Round = 1
		return e.turn(st, "Round 1", pondReply), nil
	}

	if intent.WantsMore(reply) {
		if reply != "" {
			st.record(SpeakerPlayer, reply)
		}
		closure, err := e.closureSentence(ctx, st)
		if err != nil {
			return Turn{}, err
		}
		st.record(SpeakerPond, closure)
		body := closure + "\n\n☁️ The pond grows quiet. Share more, or say continue to go deeper."
		return e.turn(st, "Synthesis", body), nil
	}

	return e.turn(st, "Synthesis",
		"If you'd like to go deeper, say continue. Or add another detail to stay a little longer."), nil
}

func (e *Engine) advanceArchiveChoice(ctx context.Context, st *State, reply string) (Turn, error) {
	choice := intent.ParseChoice(reply)
	if !choice.Valid() {
		return e.turn(st, "Choice",
			"You can say float, sink, or hold — whichever feels right for this memory."), nil
	}

	artifact, err := e.finalArtifact(ctx, st, choice)
	if err != nil {
		return Turn{}, err
	}

	// Only a successfully composed artifact finishes the ritual; a
	// provider error here leaves the choice open for another try.
	st.Choice = choice
	st.Phase = PhaseDone
	st.record(SpeakerArtifact, artifact)

	t := e.turn(st, "Artifact", artifact+"\n\n"+Stance(choice))
	return t, nil
}

// roundReply asks for an acknowledgement plus one open question for the
// current level and shapes the result.
func (e *Engine) roundReply(ctx context.Context, st *State) (string, error) {
	resp, err := e.provider.Chat(ctx, provider.Request{
		Messages: []provider.Message{
			provider.System(e.script.Levels[st.Level].System),
			provider.User(st.contextBundle()),
		},
		Temperature: tempRound,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("round reply failed: %w", err)
	}
	return e.guard.ReplyShape(resp.Content), nil
}

// closureSentence asks for the single validating sentence that ends a level.
func (e *Engine) closureSentence(ctx context.Context, st *State) (string, error) {
	resp, err := e.provider.Chat(ctx, provider.Request{
		Messages: []provider.Message{
			provider.System(e.script.ClosureSystem),
			provider.User(st.contextBundle()),
		},
		Temperature: tempClosure,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("closure failed: %w", err)
	}
	return e.guard.SentenceShape(resp.Content), nil
}

// transitionSynthesis asks for the 3–4 sentence synthesis that closes the
// level and names what comes next.
func (e *Engine) transitionSynthesis(ctx context.Context, st *State, nextName string) (string, error) {
	resp, err := e.provider.Chat(ctx, provider.Request{
		Messages: []provider.Message{
			provider.System(e.script.TransitionSystem),
			provider.User(st.contextBundle() + "\n\nNext level: " + nextName + "."),
		},
		Temperature: tempTransition,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("transition failed: %w", err)
	}
	return e.guard.ParagraphShape(resp.Content), nil
}

// finalArtifact composes the two-sentence memory artifact from the joined
// level syntheses.
func (e *Engine) finalArtifact(ctx context.Context, st *State, choice intent.Choice) (string, error) {
	var joined []string
	for _, s := range st.Summaries {
		joined = append(joined, s.Text)
	}

	system := strings.ReplaceAll(e.script.ArtifactSystem, "{choice}", string(choice))
	resp, err := e.provider.Chat(ctx, provider.Request{
		Messages: []provider.Message{
			provider.System(system),
			provider.User(strings.Join(joined, "\n")),
		},
		Temperature: tempArtifact,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("artifact failed: %w", err)
	}
	return e.guard.ArtifactShape(resp.Content), nil
}

// turn packages the pond's output with the current level's dressing.
func (e *Engine) turn(st *State, round, body string) Turn {
	level := st.Level
	if level >= e.script.LevelCount() {
		level = e.script.LevelCount() - 1
	}
	f := e.script.Levels[level]
	return Turn{
		Phase:     st.Phase,
		Level:     st.Level,
		LevelName: f.Name,
		Icon:      f.Icon,
		Metaphor:  f.Metaphor,
		Round:     round,
		Body:      body,
		Finished:  st.Finished(),
		Choice:    st.Choice,
	}
}
