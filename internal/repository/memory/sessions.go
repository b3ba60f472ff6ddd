package memory

import (
	"context"
	"sync"

	"speen_backend/internal/model"
)

type sessionData struct {
	pyramid  *model.PyramidSession
	selected *model.BoosterKind
	freeSpin *model.FreeSpin
	spinID   int64
}

// Sessions Эфемерное состояние игровых сессий
type Sessions struct {
	mtx   sync.RWMutex
	items map[string]*sessionData
}

func NewSessions() *Sessions {
	return &Sessions{items: make(map[string]*sessionData)}
}

func (s *Sessions) get(playerID string) *sessionData {
	d, ok := s.items[playerID]
	if !ok {
		d = &sessionData{}
		s.items[playerID] = d
	}
	return d
}

func (s *Sessions) GetPyramid(_ context.Context, playerID string) (*model.PyramidSession, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if d, ok := s.items[playerID]; ok {
		return d.pyramid.Clone(), nil
	}
	return nil, nil
}

func (s *Sessions) SavePyramid(_ context.Context, session *model.PyramidSession) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.get(session.PlayerID).pyramid = session.Clone()
	return nil
}

func (s *Sessions) DeletePyramid(_ context.Context, playerID string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if d, ok := s.items[playerID]; ok {
		d.pyramid = nil
	}
	return nil
}

func (s *Sessions) GetSelectedBooster(_ context.Context, playerID string) (*model.BoosterKind, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	d, ok := s.items[playerID]
	if !ok || d.selected == nil {
		return nil, nil
	}
	k := *d.selected
	return &k, nil
}

func (s *Sessions) SetSelectedBooster(_ context.Context, playerID string, kind *model.BoosterKind) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if kind == nil {
		s.get(playerID).selected = nil
		return nil
	}
	k := *kind
	s.get(playerID).selected = &k
	return nil
}

func (s *Sessions) GetFreeSpin(_ context.Context, playerID string) (*model.FreeSpin, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	d, ok := s.items[playerID]
	if !ok || d.freeSpin == nil {
		return nil, nil
	}
	fs := *d.freeSpin
	return &fs, nil
}

func (s *Sessions) SetFreeSpin(_ context.Context, playerID string, spin *model.FreeSpin) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if spin == nil {
		s.get(playerID).freeSpin = nil
		return nil
	}
	fs := *spin
	s.get(playerID).freeSpin = &fs
	return nil
}

// NextSpinID Монотонно растущий id физического спина
func (s *Sessions) NextSpinID(_ context.Context, playerID string) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	d := s.get(playerID)
	d.spinID++
	return d.spinID, nil
}

func (s *Sessions) ListPyramids(_ context.Context) ([]*model.PyramidSession, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var out []*model.PyramidSession
	for _, d := range s.items {
		if d.pyramid != nil {
			out = append(out, d.pyramid.Clone())
		}
	}
	return out, nil
}
