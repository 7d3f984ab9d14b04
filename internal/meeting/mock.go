package meeting

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockProvider is an in-memory provider for local runs and tests. It records
// created and cancelled events so tests can assert on them.
type MockProvider struct {
	mu        sync.Mutex
	created   []Details
	cancelled []string

	// FailCreate forces Create to error; used to test rollback paths.
	FailCreate bool
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Create(ctx context.Context, details Details) (*Meeting, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailCreate {
		return nil, fmt.Errorf("mock meeting provider: create disabled")
	}

	p.created = append(p.created, details)
	id := uuid.New().String()
	return &Meeting{
		JoinLink: fmt.Sprintf("https://meet.example.com/%s", id),
		EventID:  id,
	}, nil
}

func (p *MockProvider) Cancel(ctx context.Context, eventID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, eventID)
	return nil
}

// Created returns a copy of the create calls seen so far.
func (p *MockProvider) Created() []Details {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Details(nil), p.created...)
}

// Cancelled returns a copy of the cancelled event ids.
func (p *MockProvider) Cancelled() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.cancelled...)
}
