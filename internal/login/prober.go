package login

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// EmailChecker classifies an email into an account class.
type EmailChecker interface {
	CheckEmail(ctx context.Context, email string) (Probe, error)
}

// Prober turns raw email input into debounced classification probes.
//
// Each Input supersedes the one before it: the pending debounce timer is
// stopped, the in-flight request is canceled, and any result that still
// arrives for an old generation is discarded. Only the newest input can ever
// reach the caller, regardless of network latency ordering.
type Prober struct {
	checker  EmailChecker
	onResult func(Probe)
	logger   *slog.Logger
	delay    time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithDebounce sets the quiet period before a probe fires.
func WithDebounce(delay time.Duration) ProberOption {
	return func(p *Prober) {
		p.delay = delay
	}
}

// WithProbeTimeout bounds each classification call.
func WithProbeTimeout(timeout time.Duration) ProberOption {
	return func(p *Prober) {
		p.timeout = timeout
	}
}

// WithProberLogger injects a structured logger.
func WithProberLogger(logger *slog.Logger) ProberOption {
	return func(p *Prober) {
		p.logger = logger
	}
}

// NewProber constructs a Prober delivering results to onResult.
// onResult is called from a background goroutine, never concurrently with itself.
func NewProber(checker EmailChecker, onResult func(Probe), opts ...ProberOption) *Prober {
	p := &Prober{
		checker:  checker,
		onResult: onResult,
		logger:   slog.Default(),
		delay:    300 * time.Millisecond,
		timeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Input feeds the current form value. Inputs without an '@' never probe;
// they only cancel whatever was pending.
func (p *Prober) Input(email string) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.stopPendingLocked()

	if !strings.Contains(email, "@") {
		p.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.timer = time.AfterFunc(p.delay, func() {
		p.fire(ctx, gen, email)
	})
	p.mu.Unlock()
}

// Stop cancels any pending probe. Safe to call multiple times.
func (p *Prober) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.stopPendingLocked()
}

func (p *Prober) stopPendingLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Prober) fire(ctx context.Context, gen uint64, email string) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	probe, err := p.checker.CheckEmail(ctx, email)
	if err != nil {
		// Unrecognized covers every failure class; submit falls back to
		// sequential trial login.
		probe = Probe{Recognized: false}
	}

	p.mu.Lock()
	stale := p.gen != gen
	p.mu.Unlock()
	if stale {
		p.logger.Debug("discarding stale email probe", "email", email)
		return
	}

	p.onResult(probe)
}
