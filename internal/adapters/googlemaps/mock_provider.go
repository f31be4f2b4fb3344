package googlemaps

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"fmt"
	"sync"
)

type MockPair struct {
	From, To domain.Location
	Meters   int
	Seconds  int
	Text     string
}

// MockDistanceProvider answers from a fixed table keyed by origin and
// destination. Unknown pairs fail with a NOT_FOUND element status.
type MockDistanceProvider struct {
	mu    sync.Mutex
	m     map[string]ports.DistanceResult
	errs  map[string]error
	calls int
}

func mockKey(origin, destination domain.Location) string {
	return origin.Key() + "|" + destination.Key()
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		text := p.Text
		if text == "" {
			text = fmt.Sprintf("%d mins", (p.Seconds+59)/60)
		}
		m[mockKey(p.From, p.To)] = ports.DistanceResult{
			DistanceMeters:  p.Meters,
			DurationSeconds: p.Seconds,
			DurationText:    text,
		}
	}
	return &MockDistanceProvider{m: m, errs: make(map[string]error)}
}

// Fail makes every query for the pair return err.
func (p *MockDistanceProvider) Fail(origin, destination domain.Location, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[mockKey(origin, destination)] = err
}

// Calls reports how many queries were served.
func (p *MockDistanceProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Location) (ports.DistanceResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	k := mockKey(origin, destination)
	if err, ok := p.errs[k]; ok {
		return ports.DistanceResult{}, err
	}
	r, ok := p.m[k]
	if !ok {
		return ports.DistanceResult{}, serviceError(distanceMatrixService, "NOT_FOUND", fmt.Sprintf("missing pair %s -> %s", origin, destination))
	}
	return r, nil
}

// MockDirectionsProvider returns the same result for every query and
// records the last origin it saw.
type MockDirectionsProvider struct {
	mu         sync.Mutex
	Result     ports.DirectionsResult
	Err        error
	LastOrigin domain.Location
}

func (p *MockDirectionsProvider) GetDirections(ctx context.Context, origin, destination domain.Location) (ports.DirectionsResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.DirectionsResult{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.LastOrigin = origin
	if p.Err != nil {
		return ports.DirectionsResult{}, p.Err
	}
	return p.Result, nil
}
