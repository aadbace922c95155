// Package booking validates and commits visits: a batch of contiguous
// slots claimed in one action, and the per-slot release path.
package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"eletralog/audit"
	"eletralog/errs"
	"eletralog/models"
	"eletralog/slotstore"
	"eletralog/timegrid"
	"eletralog/utils"
)

type BookRequest struct {
	Date      string         `json:"date"`
	Location  string         `json:"location"`
	SlotTimes []string       `json:"slotTimes"`
	Details   models.Details `json:"details"`
}

type Engine struct {
	Store slotstore.Store
	Audit audit.Recorder
	Now   func() time.Time
}

func NewEngine(store slotstore.Store, rec audit.Recorder) *Engine {
	return &Engine{Store: store, Audit: rec, Now: time.Now}
}

// BookVisit claims every requested slot for one new visit. The pre-write
// occupancy re-read gives the operator a precise conflict message; the
// store's unique key constraint is what actually decides races.
func (e *Engine) BookVisit(ctx context.Context, req BookRequest, actor models.Actor) (string, error) {
	if actor.ReadOnly() {
		return "", &errs.Forbidden{Reason: "read-only role cannot book"}
	}
	if len(req.SlotTimes) == 0 {
		return "", errs.Validation("no slots selected")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return "", errs.Validation("invalid date %q", req.Date)
	}
	if !models.ValidLocation(req.Location) {
		return "", errs.Validation("invalid location %q", req.Location)
	}

	times := dedupeSorted(req.SlotTimes)
	for _, t := range times {
		if !timegrid.Valid(t) {
			return "", errs.Validation("time %q is not on the slot grid", t)
		}
	}
	if err := validateDetails(req.Details); err != nil {
		return "", err
	}

	// Close the window between UI selection and commit: the selection is
	// stale the moment it is rendered.
	current, err := e.Store.ListSlots(ctx, slotstore.Filter{Date: req.Date, Location: req.Location})
	if err != nil {
		return "", err
	}
	occupied := make(map[string]bool, len(current))
	for _, s := range current {
		occupied[s.Time] = true
	}
	for _, t := range times {
		if occupied[t] {
			return "", &errs.SlotConflict{Time: t}
		}
	}

	visitID := uuid.NewString()
	createdAt := e.Now()

	slots := make([]models.Slot, 0, len(times))
	for _, t := range times {
		slots = append(slots, models.Slot{
			ID:        utils.GenerateRandomDigitString(22),
			Date:      req.Date,
			Time:      t,
			Location:  req.Location,
			OwnerID:   actor.ID,
			OwnerName: actor.Name,
			VisitID:   visitID,
			Flow:      models.FlowInbound,
			Details:   req.Details,
			Status:    models.StatusScheduled,
			CreatedAt: createdAt,
		})
	}

	if err := e.Store.CreateSlotsBatch(ctx, slots); err != nil {
		return "", err
	}

	e.Audit.Record(ctx, "BOOKING", actor.Name,
		fmt.Sprintf("booked %d slot(s) at %s %s, PO %s", len(slots), req.Location, req.Date, req.Details.PurchaseOrder))
	return visitID, nil
}

// ReleaseSlot cancels a single slot. Releasing a multi-slot visit is one
// call per slot; the client loops over the visit's times.
func (e *Engine) ReleaseSlot(ctx context.Context, date, timeLabel, location string, actor models.Actor) error {
	if actor.ReadOnly() {
		return &errs.Forbidden{Reason: "read-only role cannot release"}
	}

	s, err := e.Store.GetSlot(ctx, date, timeLabel, location)
	if err != nil {
		return err
	}
	if s.OwnerID != actor.ID && !actor.Permissions().CanDeleteOthersBookings {
		return &errs.Forbidden{Reason: "cannot release another operator's booking"}
	}

	// the ownership condition rides in the delete filter too: a key
	// released and re-booked between the read and the delete must not be
	// removed out from under its new owner
	owner := actor.ID
	if actor.Permissions().CanDeleteOthersBookings {
		owner = ""
	}
	if err := e.Store.DeleteSlot(ctx, date, timeLabel, location, owner); err != nil {
		return err
	}

	e.Audit.Record(ctx, "CANCELLATION", actor.Name,
		fmt.Sprintf("released %s %s at %s", date, timeLabel, location))
	return nil
}

func validateDetails(d models.Details) error {
	switch {
	case d.PurchaseOrder == "":
		return errs.Validation("purchase order is required")
	case d.Invoice == "":
		return errs.Validation("invoice number is required")
	case d.Buyer == "":
		return errs.Validation("buyer is required")
	case d.FreightOrder == "":
		return errs.Validation("freight order is required")
	}
	return nil
}

func dedupeSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
