package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubServer struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	startErr error
}

func (s *stubServer) Start(ctx context.Context) error {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *stubServer) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func TestRunStopsOnContextCancel(t *testing.T) {
	srv := &stubServer{}
	var order []int
	a := New("test", slog.New(slog.DiscardHandler),
		WithServer(srv),
		WithCleanup(func() { order = append(order, 1) }),
		WithCleanup(func() { order = append(order, 2) }),
		WithShutdownTimeout(time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, a.Run(ctx))
	assert.True(t, srv.stopped)
	assert.Equal(t, []int{2, 1}, order)
}

func TestRunReturnsServerError(t *testing.T) {
	boom := errors.New("listen failed")
	srv := &stubServer{startErr: boom}
	a := New("test", slog.New(slog.DiscardHandler), WithServer(srv))

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, srv.stopped)
}
