package provider

import (
	"context"
	"sync"
)

// StubProvider is a deterministic provider for tests and demos. It replays
// a scripted queue when one is set and otherwise returns a pond-shaped
// default, so a full ritual can run without a model behind it.
type StubProvider struct {
	mu        sync.Mutex
	Responses []Response
	Calls     []Request // every request received, for assertions
}

func NewStubProvider(scripted ...string) *StubProvider {
	s := &StubProvider{}
	for _, text := range scripted {
		s.Responses = append(s.Responses, Response{
			Content: text,
			Usage:   Usage{PromptTokens: 40, CompletionTokens: 20, TotalTokens: 60},
		})
	}
	return s
}

func (s *StubProvider) Chat(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, req)

	if len(s.Responses) == 0 {
		return &Response{
			Content: "You described the moment and what it held. What detail stays with you?",
			Usage:   Usage{PromptTokens: 40, CompletionTokens: 16, TotalTokens: 56},
		}, nil
	}

	resp := s.Responses[0]
	s.Responses = s.Responses[1:]
	return &resp, nil
}

func (s *StubProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (s *StubProvider) Name() string {
	return "stub"
}
