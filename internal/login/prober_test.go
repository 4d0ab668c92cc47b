package login

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus/internal/session"
	"campus/pkg/sentinel"
)

// scriptedChecker returns canned probes per email and can hold a response
// until released, to simulate slow networks.
type scriptedChecker struct {
	mu      sync.Mutex
	calls   []string
	probes  map[string]Probe
	holding map[string]chan struct{}
}

func newScriptedChecker() *scriptedChecker {
	return &scriptedChecker{
		probes:  make(map[string]Probe),
		holding: make(map[string]chan struct{}),
	}
}

func (c *scriptedChecker) hold(email string) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	gate := make(chan struct{})
	c.holding[email] = gate
	return gate
}

func (c *scriptedChecker) CheckEmail(ctx context.Context, email string) (Probe, error) {
	c.mu.Lock()
	c.calls = append(c.calls, email)
	gate := c.holding[email]
	probe, ok := c.probes[email]
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Probe{}, ctx.Err()
		}
	}
	if !ok {
		return Probe{}, sentinel.ErrNotFound
	}
	return probe, nil
}

func (c *scriptedChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func collectProbes() (func(Probe), <-chan Probe) {
	results := make(chan Probe, 16)
	return func(p Probe) { results <- p }, results
}

func waitProbe(t *testing.T, results <-chan Probe) Probe {
	t.Helper()
	select {
	case p := <-results:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for probe result")
		return Probe{}
	}
}

func TestProberOnlyProbesWithAtSign(t *testing.T) {
	checker := newScriptedChecker()
	onResult, _ := collectProbes()
	p := NewProber(checker, onResult, WithDebounce(time.Millisecond))

	p.Input("owner")
	p.Input("owner-at-acme")
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, checker.callCount())
}

func TestProberDeliversRecognizedResult(t *testing.T) {
	checker := newScriptedChecker()
	checker.probes["s@acme.test"] = Probe{Recognized: true, Kind: session.KindMember}
	onResult, results := collectProbes()
	p := NewProber(checker, onResult, WithDebounce(time.Millisecond))

	p.Input("s@acme.test")

	probe := waitProbe(t, results)
	assert.True(t, probe.Recognized)
	assert.Equal(t, session.KindMember, probe.Kind)
}

func TestProberFailureBecomesUnrecognized(t *testing.T) {
	checker := newScriptedChecker()
	onResult, results := collectProbes()
	p := NewProber(checker, onResult, WithDebounce(time.Millisecond))

	p.Input("nobody@nowhere.test")

	probe := waitProbe(t, results)
	assert.False(t, probe.Recognized)
}

func TestProberDebounceCoalescesKeystrokes(t *testing.T) {
	checker := newScriptedChecker()
	checker.probes["s@acme.test"] = Probe{Recognized: true, Kind: session.KindMember}
	onResult, results := collectProbes()
	p := NewProber(checker, onResult, WithDebounce(100*time.Millisecond))

	// Typing "s@", "s@a", ... only the final value should probe.
	for _, input := range []string{"s@", "s@a", "s@acme", "s@acme.test"} {
		p.Input(input)
		time.Sleep(5 * time.Millisecond)
	}

	probe := waitProbe(t, results)
	assert.True(t, probe.Recognized)
	require.Equal(t, 1, checker.callCount())
	assert.Equal(t, "s@acme.test", checker.calls[0])
}

func TestProberDiscardsStaleInFlightResult(t *testing.T) {
	checker := newScriptedChecker()
	checker.probes["old@acme.test"] = Probe{Recognized: true, Kind: session.KindAdmin}
	checker.probes["new@acme.test"] = Probe{Recognized: true, Kind: session.KindMember}
	gate := checker.hold("old@acme.test")

	onResult, results := collectProbes()
	p := NewProber(checker, onResult, WithDebounce(time.Millisecond))

	p.Input("old@acme.test")
	// Wait for the slow probe to actually start before superseding it.
	require.Eventually(t, func() bool { return checker.callCount() == 1 },
		time.Second, time.Millisecond)

	p.Input("new@acme.test")
	probe := waitProbe(t, results)
	close(gate) // let the slow response arrive late

	assert.Equal(t, session.KindMember, probe.Kind, "newest probe wins")

	// The stale result must never be delivered.
	select {
	case late := <-results:
		t.Fatalf("stale probe delivered: %+v", late)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestProberStopCancelsPending(t *testing.T) {
	checker := newScriptedChecker()
	checker.probes["s@acme.test"] = Probe{Recognized: true}
	onResult, results := collectProbes()
	p := NewProber(checker, onResult, WithDebounce(50*time.Millisecond))

	p.Input("s@acme.test")
	p.Stop()

	select {
	case probe := <-results:
		t.Fatalf("probe delivered after stop: %+v", probe)
	case <-time.After(150 * time.Millisecond):
	}
}
