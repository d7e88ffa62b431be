package pos

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RegistryConfig controls session lifetime
type RegistryConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
	Terminal      TerminalConfig
}

// DefaultRegistryConfig returns default configuration
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		IdleTTL:       8 * time.Hour,
		SweepInterval: 5 * time.Minute,
	}
}

// SessionRegistry keeps one Terminal per signed-in operator session.
type SessionRegistry struct {
	gateway  Gateway
	recorder Recorder
	logger   *zap.Logger
	config   RegistryConfig

	mu        sync.Mutex
	terminals map[string]*Terminal
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry(gateway Gateway, recorder Recorder, logger *zap.Logger, config RegistryConfig) *SessionRegistry {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = DefaultRegistryConfig().IdleTTL
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultRegistryConfig().SweepInterval
	}
	return &SessionRegistry{
		gateway:   gateway,
		recorder:  recorder,
		logger:    logger,
		config:    config,
		terminals: make(map[string]*Terminal),
	}
}

// Acquire returns the terminal for sessionID, creating it on first use.
func (r *SessionRegistry) Acquire(sessionID, operator string) *Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.terminals[sessionID]; ok {
		return t
	}

	t := NewTerminal(sessionID, operator, r.gateway, r.recorder, r.logger, r.config.Terminal)
	r.terminals[sessionID] = t
	r.recorder.SessionsActive(len(r.terminals))
	r.logger.Info("Terminal session opened",
		zap.String("terminal_id", sessionID),
		zap.String("operator", operator))
	return t
}

// Lookup returns the terminal for sessionID if one is open
func (r *SessionRegistry) Lookup(sessionID string) (*Terminal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.terminals[sessionID]
	return t, ok
}

// Len returns the number of open sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.terminals)
}

// Sweep closes sessions idle for longer than the TTL. A terminal with a sale
// in flight is never closed. It returns how many sessions were closed.
func (r *SessionRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	closed := 0
	for id, t := range r.terminals {
		if t.IsBusy() {
			continue
		}
		if now.Sub(t.LastSeen()) < r.config.IdleTTL {
			continue
		}
		delete(r.terminals, id)
		closed++
		r.logger.Info("Terminal session expired",
			zap.String("terminal_id", id),
			zap.String("operator", t.Operator()))
	}
	if closed > 0 {
		r.recorder.SessionsActive(len(r.terminals))
	}
	return closed
}

// Run sweeps idle sessions every SweepInterval until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}
