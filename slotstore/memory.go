package slotstore

import (
	"context"
	"sort"
	"sync"

	"eletralog/errs"
	"eletralog/models"
)

// Memory is an in-process Store with the same semantics as Mongo,
// including key uniqueness and all-or-nothing batch inserts. It backs the
// engine tests and local runs without a database.
type Memory struct {
	mu    sync.Mutex
	byKey map[string]models.Slot
	byID  map[string]string // slot id -> key
}

func NewMemory() *Memory {
	return &Memory{
		byKey: make(map[string]models.Slot),
		byID:  make(map[string]string),
	}
}

func key(date, timeLabel, location string) string {
	return date + "|" + location + "|" + timeLabel
}

func (m *Memory) ListSlots(_ context.Context, f Filter) ([]models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Slot{}
	for _, s := range m.byKey {
		if f.Date != "" && s.Date != f.Date {
			continue
		}
		if f.Location != "" && s.Location != f.Location {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Location != out[j].Location {
			return out[i].Location < out[j].Location
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *Memory) GetSlot(_ context.Context, date, timeLabel, location string) (models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byKey[key(date, timeLabel, location)]
	if !ok {
		return models.Slot{}, &errs.NotFound{Reason: "slot not found"}
	}
	return s, nil
}

func (m *Memory) CreateSlotsBatch(_ context.Context, slots []models.Slot) error {
	if len(slots) == 0 {
		return errs.Validation("empty slot batch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// check the whole batch before writing anything
	for _, s := range slots {
		if _, taken := m.byKey[key(s.Date, s.Time, s.Location)]; taken {
			return &errs.SlotConflict{Time: s.Time}
		}
	}
	for _, s := range slots {
		k := key(s.Date, s.Time, s.Location)
		m.byKey[k] = s
		m.byID[s.ID] = k
	}
	return nil
}

func (m *Memory) DeleteSlot(_ context.Context, date, timeLabel, location, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(date, timeLabel, location)
	s, ok := m.byKey[k]
	if !ok || (owner != "" && s.OwnerID != owner) {
		return &errs.NotFound{Reason: "slot not found"}
	}
	delete(m.byKey, k)
	delete(m.byID, s.ID)
	return nil
}

func (m *Memory) UpdateSlotsBatch(_ context.Context, ids []string, from []models.Status, patch Patch) (int64, []string, error) {
	if len(ids) == 0 {
		return 0, nil, errs.Validation("no slot ids given")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := func(s models.Status) bool {
		if len(from) == 0 {
			return true
		}
		for _, f := range from {
			if s == f {
				return true
			}
		}
		return false
	}

	var matched int64
	unmatched := []string{}
	for _, id := range ids {
		k, ok := m.byID[id]
		if !ok {
			unmatched = append(unmatched, id)
			continue
		}
		s := m.byKey[k]
		if !allowed(s.Status) {
			unmatched = append(unmatched, id)
			continue
		}
		s.Status = patch.Status
		if patch.StatusNote != nil {
			s.StatusNote = *patch.StatusNote
		}
		if patch.AnomalyReason != nil {
			s.AnomalyReason = *patch.AnomalyReason
		}
		if patch.Resolved != nil {
			s.Resolved = *patch.Resolved
		}
		if patch.Resolution != nil {
			r := *patch.Resolution
			s.Resolution = &r
		}
		m.byKey[k] = s
		matched++
	}
	return matched, unmatched, nil
}
