package fetchqueue_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/ronpik/website-fetch/internal/fetchqueue"
	"github.com/stretchr/testify/assert"
)

func TestSubmit_BoundsConcurrency(t *testing.T) {
	queue := fetchqueue.New(2)

	var inFlight int32
	var maxObserved int32

	for i := 0; i < 10; i++ {
		queue.Submit(func() {
			current := atomic.AddInt32(&inFlight, 1)
			for {
				observed := atomic.LoadInt32(&maxObserved)
				if current <= observed || atomic.CompareAndSwapInt32(&maxObserved, observed, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		})
	}

	queue.OnIdle()
	assert.LessOrEqual(t, int(maxObserved), 2)
}
