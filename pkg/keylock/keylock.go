// Package keylock мьютекс на ключ: одна точка записи на игрока
package keylock

import "sync"

type entry struct {
	mtx  sync.Mutex
	refs int
}

type Locker struct {
	mtx   sync.Mutex
	locks map[string]*entry
}

func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock Захватывает ключ и возвращает функцию освобождения
func (l *Locker) Lock(key string) func() {
	l.mtx.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mtx.Unlock()

	e.mtx.Lock()

	return func() {
		e.mtx.Unlock()

		l.mtx.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, key)
		}
		l.mtx.Unlock()
	}
}

// Len Сколько ключей сейчас захвачено или ожидает
func (l *Locker) Len() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.locks)
}
