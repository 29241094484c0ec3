package keylock

import (
	"sync"
	"testing"
)

func TestLockSerializesSameKey(t *testing.T) {
	k := New()
	const goroutines = 50

	var counter int
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			k.Lock(7)
			counter++
			k.Unlock(7)
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Errorf("counter = %d, want %d", counter, goroutines)
	}
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	k := New()
	k.Lock(1)
	defer k.Unlock(1)

	done := make(chan struct{})
	go func() {
		k.Lock(2)
		k.Unlock(2)
		close(done)
	}()
	<-done // would deadlock if key 2 waited on key 1
}

func TestEntriesAreReleased(t *testing.T) {
	k := New()
	k.Lock(42)
	k.Unlock(42)

	k.mu.Lock()
	n := len(k.entries)
	k.mu.Unlock()
	if n != 0 {
		t.Errorf("entries not reclaimed, %d left", n)
	}
}

func TestUnlockUnheldKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unlock of unheld key")
		}
	}()
	New().Unlock(1)
}
