package oplock

import (
	"testing"
	"time"
)

func TestAcquireRelease(t *testing.T) {
	l := New()
	if !l.Acquire(time.Second) {
		t.Fatal("first Acquire must succeed")
	}
	if l.TryAcquire() {
		t.Fatal("TryAcquire must fail while held")
	}
	if l.Acquire(20 * time.Millisecond) {
		t.Fatal("second Acquire must time out")
	}
	l.Release()
	if !l.TryAcquire() {
		t.Fatal("TryAcquire must succeed after Release")
	}
	l.Release()
}

func TestAcquireWaits(t *testing.T) {
	l := New()
	l.Acquire(time.Second)

	done := make(chan bool)
	go func() {
		done <- l.Acquire(time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	l.Release()

	if !<-done {
		t.Fatal("waiter must obtain the lock after Release")
	}
	l.Release()
}

func TestSortWaitSurvivesHolderRelease(t *testing.T) {
	l := New()
	if !l.Acquire(OpWait) {
		t.Fatal("Acquire failed on fresh lock")
	}

	// фоновая сортировка стартует, пока операция еще держит замок
	done := make(chan bool, 1)
	go func() {
		done <- l.Acquire(SortWait)
	}()

	time.Sleep(20 * time.Millisecond)
	l.Release()

	if !<-done {
		t.Fatal("background waiter must obtain the lock once the operation releases it")
	}
	l.Release()
}
