// Package lifecycle advances a visit through its operational states. All
// transitions go through one batch update so every slot of a visit keeps
// an identical status.
package lifecycle

import (
	"context"
	"fmt"

	"eletralog/audit"
	"eletralog/errs"
	"eletralog/models"
	"eletralog/slotstore"
)

// activeStates are the non-terminal statuses an anomaly can interrupt.
var activeStates = []models.Status{
	models.StatusScheduled,
	models.StatusArrived,
	models.StatusUnloading,
}

type Manager struct {
	Store slotstore.Store
	Audit audit.Recorder
}

func NewManager(store slotstore.Store, rec audit.Recorder) *Manager {
	return &Manager{Store: store, Audit: rec}
}

// BatchResult reports how much of a status batch took effect. Matched can
// fall short of Requested when a slot was released mid-flight or had
// already moved on; Unmatched names those ids so callers can surface a
// precise partial-update warning.
type BatchResult struct {
	Requested int      `json:"requested"`
	Matched   int64    `json:"matched"`
	Unmatched []string `json:"unmatchedIds,omitempty"`
}

func (r BatchResult) Partial() bool {
	return r.Matched < int64(r.Requested)
}

func (m *Manager) MarkArrived(ctx context.Context, ids []string, note string, actor models.Actor) (BatchResult, error) {
	return m.transition(ctx, ids, models.StatusArrived,
		[]models.Status{models.StatusScheduled}, note, actor, "ARRIVAL")
}

func (m *Manager) MarkUnloading(ctx context.Context, ids []string, note string, actor models.Actor) (BatchResult, error) {
	return m.transition(ctx, ids, models.StatusUnloading,
		[]models.Status{models.StatusArrived}, note, actor, "UNLOADING")
}

func (m *Manager) MarkFinished(ctx context.Context, ids []string, note string, actor models.Actor) (BatchResult, error) {
	return m.transition(ctx, ids, models.StatusFinished,
		[]models.Status{models.StatusUnloading}, note, actor, "FINISH")
}

func (m *Manager) transition(ctx context.Context, ids []string, to models.Status, from []models.Status, note string, actor models.Actor, action string) (BatchResult, error) {
	// each transition carries its own note; an empty one clears the last
	return m.Apply(ctx, ids, from, slotstore.Patch{Status: to, StatusNote: &note},
		actor, action, fmt.Sprintf("status to %s", to))
}

// Apply is updateStatusBatch: one atomic batch write, one audit entry for
// the whole batch. The from set is the transition precondition; slots not
// in it (or already gone) simply don't match.
func (m *Manager) Apply(ctx context.Context, ids []string, from []models.Status, patch slotstore.Patch, actor models.Actor, action, detail string) (BatchResult, error) {
	if actor.ReadOnly() {
		return BatchResult{}, &errs.Forbidden{Reason: "read-only role cannot change status"}
	}
	if len(ids) == 0 {
		return BatchResult{}, errs.Validation("no slots selected")
	}

	matched, unmatched, err := m.Store.UpdateSlotsBatch(ctx, ids, from, patch)
	if err != nil {
		return BatchResult{}, err
	}
	res := BatchResult{Requested: len(ids), Matched: matched, Unmatched: unmatched}
	if matched == 0 {
		return res, &errs.NotFound{Reason: "no slots in the expected state"}
	}

	m.Audit.Record(ctx, action, actor.Name,
		fmt.Sprintf("%s for %d/%d slot(s)", detail, matched, len(ids)))
	return res, nil
}

// ActiveStates returns the statuses an anomaly may be flagged from.
func ActiveStates() []models.Status {
	return activeStates
}
