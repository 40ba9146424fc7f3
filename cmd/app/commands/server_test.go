package commands

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer blocks in Start until Shutdown is called, or fails at once with startErr.
type fakeServer struct {
	startErr  error
	stopped   chan struct{}
	shutdowns atomic.Int32
}

func newFakeServer(startErr error) *fakeServer {
	return &fakeServer{startErr: startErr, stopped: make(chan struct{})}
}

func (f *fakeServer) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return nil
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	if f.shutdowns.Add(1) == 1 {
		close(f.stopped)
	}
	return nil
}

func TestServe(t *testing.T) {
	t.Run("cancellation stops every server", func(t *testing.T) {
		api := newFakeServer(nil)
		metricsSrv := newFakeServer(nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- serve(ctx, testLogger(), time.Second, api, metricsSrv)
		}()

		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after cancellation")
		}
		assert.Equal(t, int32(1), api.shutdowns.Load())
		assert.Equal(t, int32(1), metricsSrv.shutdowns.Load())
	})

	t.Run("a failing server stops the others", func(t *testing.T) {
		startErr := errors.New("address already in use")
		api := newFakeServer(startErr)
		metricsSrv := newFakeServer(nil)

		err := serve(context.Background(), testLogger(), time.Second, api, metricsSrv)

		require.Error(t, err)
		assert.ErrorIs(t, err, startErr)
		assert.Equal(t, int32(1), metricsSrv.shutdowns.Load())
	})
}
