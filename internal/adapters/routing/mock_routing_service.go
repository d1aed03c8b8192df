package routing

import (
	"context"
	"fmt"
	"sync/atomic"
)

type MockPair struct {
	From, To string
	Seconds  int
}

// MockRoutingService answers from a fixed table of directed pairs and
// counts calls. Unknown pairs fail, or every call fails when Err is set.
type MockRoutingService struct {
	m     map[string]int
	Err   error
	calls atomic.Int64
}

func NewMockRoutingService(pairs []MockPair) *MockRoutingService {
	m := make(map[string]int, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = p.Seconds
	}
	return &MockRoutingService{m: m}
}

func (p *MockRoutingService) TravelSeconds(ctx context.Context, origin, destination string) (int, error) {
	p.calls.Add(1)

	if p.Err != nil {
		return 0, p.Err
	}

	s, ok := p.m[origin+"|"+destination]
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}

	return s, nil
}

// Calls returns how many lookups were made.
func (p *MockRoutingService) Calls() int { return int(p.calls.Load()) }
