package pos

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRegistry(gw Gateway, clock *manualClock) *SessionRegistry {
	return NewSessionRegistry(gw, nil, zap.NewNop(), RegistryConfig{
		IdleTTL:       time.Hour,
		SweepInterval: time.Minute,
		Terminal:      TerminalConfig{Clock: clock.Now},
	})
}

func TestSessionRegistry_Acquire(t *testing.T) {
	reg := newTestRegistry(new(MockGateway), &manualClock{now: testNow})

	a := reg.Acquire("s1", "mwila")
	b := reg.Acquire("s1", "mwila")
	c := reg.Acquire("s2", "chanda")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, "chanda", c.Operator())

	found, ok := reg.Lookup("s2")
	require.True(t, ok)
	assert.Same(t, c, found)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestSessionRegistry_Sweep(t *testing.T) {
	clock := &manualClock{now: testNow}
	reg := newTestRegistry(new(MockGateway), clock)

	reg.Acquire("idle", "a")
	active := reg.Acquire("active", "b")

	clock.Advance(45 * time.Minute)
	active.View()
	clock.Advance(30 * time.Minute)

	closed := reg.Sweep(clock.Now())
	assert.Equal(t, 1, closed)
	_, ok := reg.Lookup("idle")
	assert.False(t, ok)
	_, ok = reg.Lookup("active")
	assert.True(t, ok)
}

func TestSessionRegistry_SweepSkipsBusyTerminal(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	gw := stockedGateway(testProduct(1, "A", 10, 5))
	gw.On("CreateSale", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, assert.AnError)

	clock := &manualClock{now: testNow}
	reg := newTestRegistry(gw, clock)
	term := reg.Acquire("busy", "a")
	_, err := term.AddItem(context.Background(), 1, 1)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_, _ = term.Submit(context.Background())
		close(done)
	}()
	<-started

	clock.Advance(2 * time.Hour)
	assert.Equal(t, 0, reg.Sweep(clock.Now()))

	close(release)
	<-done
	clock.Advance(2 * time.Hour)
	assert.Equal(t, 1, reg.Sweep(clock.Now()))
}

func TestSessionRegistry_RunStopsOnCancel(t *testing.T) {
	reg := newTestRegistry(new(MockGateway), &manualClock{now: testNow})
	ctx, cancel := context.WithCancel(context.Background())

	finished := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(finished)
	}()
	cancel()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
