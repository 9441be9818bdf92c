// Package runtime orchestrates rituals across sessions: it owns the
// engine, the memory pool, and persistence, and is shared by the HTTP
// server and the CLI.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pond/internal/memory"
	"github.com/felixgeelhaar/pond/internal/observe"
	"github.com/felixgeelhaar/pond/internal/ritual"
	"github.com/felixgeelhaar/pond/internal/store"
	"github.com/felixgeelhaar/pond/internal/ui"
)

// Runtime drives rituals from begin to archive.
type Runtime struct {
	store   store.Storage
	engine  *ritual.Engine
	pool    *memory.Pool
	observe *observe.Observer
	events  *EventBus
	states  *StateManager
	ui      ui.UI
}

func New(s store.Storage, e *ritual.Engine, pool *memory.Pool, o *observe.Observer) *Runtime {
	return &Runtime{
		store:   s,
		engine:  e,
		pool:    pool,
		observe: o,
		events:  NewEventBus(),
		states:  NewStateManager(s),
		ui:      ui.SilentUI{},
	}
}

func (r *Runtime) SetUI(u ui.UI) {
	if u != nil {
		r.ui = u
	}
}

// Events returns the runtime's event bus for subscribers.
func (r *Runtime) Events() *EventBus {
	return r.events
}

// Begin starts a new ritual and returns its session ID with the first turn.
func (r *Runtime) Begin(ctx context.Context, title, offering string) (string, ritual.Turn, error) {
	ctx, span := r.observe.StartSpan(ctx, "ritual.begin")
	defer span.End()

	echoes := r.pool.Recall(ctx, title+"\n"+offering, memory.DefaultEchoes)

	st, turn, err := r.engine.Begin(ctx, title, offering, echoes)
	if err != nil {
		return "", ritual.Turn{}, err
	}

	sessionID := uuid.NewString()
	if err := r.states.Track(sessionID, st); err != nil {
		return "", ritual.Turn{}, fmt.Errorf("failed to persist session: %w", err)
	}

	r.observe.Log().Info().
		Str("session", sessionID).
		Str("title", st.Title).
		Int("echoes", len(echoes)).
		Msg("ritual begun")
	r.events.PublishWithData(EventRitualBegun, sessionID, map[string]interface{}{
		"title":  st.Title,
		"echoes": len(echoes),
	})
	r.ui.UpdateLevel(turn.Level, turn.LevelName)
	r.ui.UpdatePhase(string(turn.Phase))

	return sessionID, turn, nil
}

// Advance feeds a player reply into a session's ritual. A ritual that
// reaches its archive choice is archived before Advance returns.
func (r *Runtime) Advance(ctx context.Context, sessionID, reply string) (ritual.Turn, error) {
	ctx, span := r.observe.StartSpan(ctx, "ritual.advance")
	defer span.End()

	st, err := r.states.Get(sessionID)
	if err != nil {
		return ritual.Turn{}, err
	}
	log := r.observe.Session(sessionID)

	levelBefore := st.Level
	doneBefore := st.Finished()

	turn, err := r.engine.Advance(ctx, st, reply)
	if err != nil {
		return ritual.Turn{}, fmt.Errorf("ritual advance failed: %w", err)
	}

	status := "active"
	if st.Finished() {
		status = "done"
	}
	if err := r.states.Persist(sessionID, status); err != nil {
		log.Error().Err(err).Msg("failed to persist session")
	}

	r.events.PublishWithData(EventTurnComplete, sessionID, map[string]interface{}{
		"phase": string(turn.Phase),
		"level": turn.Level,
	})
	if st.Level != levelBefore {
		log.Info().Int("level", st.Level+1).Msg("level transition")
		r.events.PublishSimple(EventLevelTransition, sessionID)
	}
	r.ui.UpdateLevel(turn.Level, turn.LevelName)
	r.ui.UpdatePhase(string(turn.Phase))

	if st.Finished() && !doneBefore {
		r.events.PublishWithData(EventArchiveChoice, sessionID, map[string]interface{}{
			"choice": string(st.Choice),
		})
		if err := r.archive(ctx, sessionID, st, turn); err != nil {
			log.Error().Err(err).Msg("failed to archive memory")
		}
		r.events.PublishSimple(EventRitualComplete, sessionID)
	}

	return turn, nil
}

// archive turns a finished ritual into a durable memory and a pond card.
func (r *Runtime) archive(ctx context.Context, sessionID string, st *ritual.State, turn ritual.Turn) error {
	log := r.observe.Session(sessionID)
	mem := MemoryFromState(st)

	id, err := r.pool.Remember(ctx, mem)
	if err != nil {
		return fmt.Errorf("failed to archive memory: %w", err)
	}

	if html, err := turn.Card(); err == nil {
		card := &store.Card{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Path:      mem.Key() + ".html",
			Kind:      "pond_card",
			CreatedAt: time.Now(),
		}
		if err := r.store.SaveCard(card, []byte(html)); err != nil {
			log.Warn().Err(err).Msg("failed to save pond card")
		}
	}

	log.Info().
		Str("title", mem.Title).
		Str("choice", mem.Choice).
		Msg("memory archived")
	r.events.PublishWithData(EventMemoryArchived, sessionID, map[string]interface{}{
		"memory_id": id,
		"choice":    mem.Choice,
	})
	return nil
}

// Reset abandons a session, dropping its state and store row.
func (r *Runtime) Reset(sessionID string) error {
	r.states.Forget(sessionID)
	if err := r.store.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	r.observe.Session(sessionID).Info().Msg("session reset")
	r.events.PublishSimple(EventSessionReset, sessionID)
	return nil
}

// State exposes a session's ritual state, rehydrating it if needed.
func (r *Runtime) State(sessionID string) (*ritual.State, error) {
	return r.states.Get(sessionID)
}

// Memories lists every archived reflection.
func (r *Runtime) Memories() ([]store.Memory, error) {
	return r.store.ListMemories()
}

// MemoryFromState builds the archive record of a finished ritual.
func MemoryFromState(st *ritual.State) *store.Memory {
	summaries := make([]store.LevelSummary, 0, len(st.Summaries))
	for _, s := range st.Summaries {
		summaries = append(summaries, store.LevelSummary{Level: s.Level, Text: s.Text})
	}
	return &store.Memory{
		CreatedAt: time.Now(),
		Title:     st.Title,
		Offering:  st.Offering,
		Summaries: summaries,
		Choice:    string(st.Choice),
		Artifact:  st.Artifact(),
	}
}
