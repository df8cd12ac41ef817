package keylock_test

import (
	"sync"
	"testing"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/keylock"
	"github.com/m-mizutani/gt"
)

func TestLocker(t *testing.T) {
	t.Run("serializes work on the same key", func(t *testing.T) {
		l := keylock.New()
		var wg sync.WaitGroup
		counter := 0

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := l.Lock("store-1/manual.pdf")
				defer unlock()
				v := counter
				v++
				counter = v
			}()
		}
		wg.Wait()

		gt.Value(t, counter).Equal(50)
	})

	t.Run("different keys do not block each other", func(t *testing.T) {
		l := keylock.New()
		unlockA := l.Lock("a")
		unlockB := l.Lock("b")
		unlockB()
		unlockA()

		unlockA = l.Lock("a")
		unlockA()
	})
}
