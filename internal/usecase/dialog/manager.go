package dialog

import (
	"context"
	"sync"

	"studio-scheduler/internal/domain/identity"

	"github.com/google/uuid"
)

// Manager keeps one live dialogue session per actor. Sessions commit nothing
// until the final step, so an abandoned dialogue costs only its map entry;
// there is deliberately no timeout.
type Manager struct {
	flow   *Flow
	policy identity.Policy

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func NewManager(flow *Flow, policy identity.Policy) *Manager {
	return &Manager{
		flow:     flow,
		policy:   policy,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Step feeds one input into the actor's session, creating it when absent.
// Administrators run the walk-in flow; everyone else books for themselves.
func (m *Manager) Step(ctx context.Context, actor identity.Actor, input string) (*Prompt, error) {
	s := m.getOrCreate(actor)
	s.mu.Lock()
	defer s.mu.Unlock()

	prompt, err := m.flow.advance(ctx, s, input)
	if err != nil {
		return nil, err
	}

	if prompt.State == StateCommitted || prompt.State == StateTerminated {
		m.drop(actor.ID)
	}
	return prompt, nil
}

// Abandon discards the actor's session, if any.
func (m *Manager) Abandon(actor identity.Actor) {
	m.drop(actor.ID)
}

func (m *Manager) getOrCreate(actor identity.Actor) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[actor.ID]; ok {
		return s
	}
	s := m.flow.newSession(actor, m.policy.IsAdmin(actor))
	m.sessions[actor.ID] = s
	return s
}

func (m *Manager) drop(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
