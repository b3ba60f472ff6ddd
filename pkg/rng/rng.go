// Package rng источник случайных чисел для колеса
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source Равномерное целое в [0, n)
type Source interface {
	Intn(n int) int
}

type source struct {
	mtx sync.Mutex
	r   *rand.Rand
}

// New Источник на PCG с заданным зерном
func New(seed1, seed2 uint64) Source {
	return &source{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// Default Глобальный потокобезопасный источник
func Default() Source {
	return defaultSource{}
}

func (s *source) Intn(n int) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.r.IntN(n)
}

type defaultSource struct{}

func (defaultSource) Intn(n int) int {
	return rand.IntN(n)
}

// Sequence Детерминированный источник для тестов: отдает значения по кругу (по модулю n)
type Sequence struct {
	mtx    sync.Mutex
	values []int
	pos    int
}

func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Intn(n int) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return ((v % n) + n) % n
}
