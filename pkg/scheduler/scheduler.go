// Package scheduler отложенные задачи по ключу с отменой
package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Scheduler Одна отложенная задача на ключ. Новая задача заменяет предыдущую
type Scheduler interface {
	Schedule(key string, delay time.Duration, fn func())
	Cancel(key string)
}

type task struct {
	timer *time.Timer
	gen   uint64
}

// Timers Планировщик на time.AfterFunc
type Timers struct {
	mtx   sync.Mutex
	tasks map[string]*task
	gen   uint64
}

func New() *Timers {
	return &Timers{tasks: make(map[string]*task)}
}

func (t *Timers) Schedule(key string, delay time.Duration, fn func()) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if old, ok := t.tasks[key]; ok {
		old.timer.Stop()
	}

	t.gen++
	gen := t.gen
	t.tasks[key] = &task{
		gen: gen,
		timer: time.AfterFunc(delay, func() {
			// Таймер мог сработать уже после отмены или замены
			t.mtx.Lock()
			cur, ok := t.tasks[key]
			if !ok || cur.gen != gen {
				t.mtx.Unlock()
				return
			}
			delete(t.tasks, key)
			t.mtx.Unlock()

			fn()
		}),
	}
}

func (t *Timers) Cancel(key string) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if cur, ok := t.tasks[key]; ok {
		cur.timer.Stop()
		delete(t.tasks, key)
	}
}

// Stop Отменяет все задачи
func (t *Timers) Stop() {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	for key, cur := range t.tasks {
		cur.timer.Stop()
		delete(t.tasks, key)
	}
}

// Pending Число запланированных задач
func (t *Timers) Pending() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.tasks)
}

// Manual Планировщик для тестов: задачи выполняются только через Fire
type Manual struct {
	mtx    sync.Mutex
	tasks  map[string]func()
	delays map[string]time.Duration
}

func NewManual() *Manual {
	return &Manual{
		tasks:  make(map[string]func()),
		delays: make(map[string]time.Duration),
	}
}

func (m *Manual) Schedule(key string, delay time.Duration, fn func()) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.tasks[key] = fn
	m.delays[key] = delay
}

func (m *Manual) Cancel(key string) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	delete(m.tasks, key)
	delete(m.delays, key)
}

// Fire Выполняет задачу ключа. false если задачи нет
func (m *Manual) Fire(key string) bool {
	m.mtx.Lock()
	fn, ok := m.tasks[key]
	delete(m.tasks, key)
	delete(m.delays, key)
	m.mtx.Unlock()

	if !ok {
		return false
	}
	fn()
	return true
}

// Delay Задержка запланированной задачи
func (m *Manual) Delay(key string) (time.Duration, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	d, ok := m.delays[key]
	return d, ok
}

// Keys Ключи запланированных задач по порядку
func (m *Manual) Keys() []string {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	keys := make([]string, 0, len(m.tasks))
	for k := range m.tasks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
