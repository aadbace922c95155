// Package slotstore is the durable key space of booked slots. The Store
// interface is the contract the scheduling core depends on; Mongo is the
// production implementation and Memory backs tests and local runs.
package slotstore

import (
	"context"

	"eletralog/models"
)

// Filter narrows ListSlots. Zero values mean "any".
type Filter struct {
	Date     string
	Location string
}

// Patch is the partial update applied by UpdateSlotsBatch. Status is
// always written; the pointer fields are only touched when set, so e.g.
// resolving an anomaly does not erase its recorded root cause. A patch is
// applied batch-wide, which is what keeps every slot of a visit identical.
type Patch struct {
	Status        models.Status
	StatusNote    *string
	AnomalyReason *models.AnomalyReason
	Resolved      *bool
	Resolution    *models.Resolution
}

type Store interface {
	// ListSlots returns the slots matching the filter. An empty result is
	// a nil error with an empty slice; store failures are *errs.StoreError.
	ListSlots(ctx context.Context, f Filter) ([]models.Slot, error)

	// GetSlot fetches the single slot at an exact (date, location, time)
	// key, or *errs.NotFound.
	GetSlot(ctx context.Context, date, timeLabel, location string) (models.Slot, error)

	// CreateSlotsBatch inserts all slots or none. A slot key already owned
	// by anyone yields *errs.SlotConflict naming the conflicting time.
	CreateSlotsBatch(ctx context.Context, slots []models.Slot) error

	// DeleteSlot removes the slot at an exact key, or *errs.NotFound. A
	// non-empty owner restricts the delete to that actor's slot, so a key
	// re-booked between an ownership read and the delete stays untouched.
	DeleteSlot(ctx context.Context, date, timeLabel, location, owner string) error

	// UpdateSlotsBatch applies the patch to every slot whose id is in ids
	// and, when from is non-empty, whose current status is in from. It
	// returns how many slots matched and the ids that did not (released
	// mid-flight or not in an expected state); callers surface those as a
	// partial update.
	UpdateSlotsBatch(ctx context.Context, ids []string, from []models.Status, patch Patch) (int64, []string, error)
}
