package preview_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/linkpreview"
	"github.com/fwojciec/linkpreview/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_RecordCall(t *testing.T) {
	t.Parallel()

	t.Run("first call succeeds and later calls fail", func(t *testing.T) {
		t.Parallel()

		var g preview.Guard
		assert.False(t, g.Used())

		require.NoError(t, g.RecordCall())
		assert.True(t, g.Used())

		err := g.RecordCall()
		assert.ErrorIs(t, err, linkpreview.ErrAlreadyCalled)
		assert.Equal(t, linkpreview.EFETCHFAILED, linkpreview.ErrorCode(err))
	})

	t.Run("exactly one concurrent caller wins", func(t *testing.T) {
		t.Parallel()

		const callers = 64

		var (
			g         preview.Guard
			wg        sync.WaitGroup
			successes atomic.Int32
			start     = make(chan struct{})
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if g.RecordCall() == nil {
					successes.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), successes.Load())
	})
}
