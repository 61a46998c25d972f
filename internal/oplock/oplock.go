// Package oplock — общесистемный замок записи.
//
// Все мутирующие операции над хранилищем идут строго по одной: бизнес-операции
// ждут замок до 30 секунд, авто-сортировка склада — до 5 секунд либо
// пропускает прогон, если замок занят.
package oplock

import "time"

// Таймауты ожидания по умолчанию.
const (
	OpWait   = 30 * time.Second
	SortWait = 5 * time.Second
)

// Lock двоичный семафор с ограниченным ожиданием.
type Lock struct {
	ch chan struct{}
}

func New() *Lock {
	return &Lock{ch: make(chan struct{}, 1)}
}

// Acquire ждёт замок не дольше timeout; false — замок не получен.
func (l *Lock) Acquire(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case l.ch <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

// TryAcquire берёт замок без ожидания.
func (l *Lock) TryAcquire() bool {
	select {
	case l.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release отпускает замок. Вызывать строго после успешного Acquire.
func (l *Lock) Release() {
	select {
	case <-l.ch:
	default:
		panic("oplock: release of unlocked lock")
	}
}
