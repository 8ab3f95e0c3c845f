package handlers

import (
	"sync"

	"bess-screening/internal/screening"
)

// ReportStore keeps the most recent screening reports in memory so their
// rows can be fetched after the run. Oldest reports are evicted first.
type ReportStore struct {
	mu    sync.RWMutex
	max   int
	order []string
	byID  map[string]*screening.Report
}

func NewReportStore(max int) *ReportStore {
	if max <= 0 {
		max = 100
	}
	return &ReportStore{max: max, byID: make(map[string]*screening.Report)}
}

func (s *ReportStore) Put(id string, r *screening.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byID[id] = r
	for len(s.order) > s.max {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *ReportStore) Get(id string) (*screening.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	return r, ok
}
