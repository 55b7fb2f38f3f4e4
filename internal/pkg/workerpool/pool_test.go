package workerpool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPool_Submit(t *testing.T) {
	p, err := New(&Config{Workers: 4}, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown()

	var counter int64
	for i := 0; i < 20; i++ {
		err := p.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&counter) == 20
	}, time.Second, 10*time.Millisecond)
}

func TestPool_SubmitWithResult(t *testing.T) {
	p, err := New(&Config{Workers: 2}, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown()

	ch := p.SubmitWithResult(func() (interface{}, error) {
		return "ok", nil
	})
	res := <-ch
	assert.NoError(t, res.Error)
	assert.Equal(t, "ok", res.Data)

	ch = p.SubmitWithResult(func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	res = <-ch
	assert.Error(t, res.Error)
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p, err := New(&Config{Workers: 1}, zap.NewNop())
	require.NoError(t, err)

	p.Shutdown()
	err = p.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestNew_InvalidWorkers(t *testing.T) {
	_, err := New(&Config{Workers: 0}, zap.NewNop())
	assert.Error(t, err)
}
