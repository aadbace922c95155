// Package anomaly tracks visits flagged as operational exceptions:
// flagging demands an enumerated root cause, closing one demands a
// documented remediation.
package anomaly

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eletralog/errs"
	"eletralog/lifecycle"
	"eletralog/models"
	"eletralog/slotstore"
	"eletralog/visits"
)

type Tracker struct {
	Store     slotstore.Store
	Lifecycle *lifecycle.Manager
	Now       func() time.Time
}

func NewTracker(store slotstore.Store, m *lifecycle.Manager) *Tracker {
	return &Tracker{Store: store, Lifecycle: m, Now: time.Now}
}

// Flag moves a visit's slots to ANOMALY. A root cause from the taxonomy is
// mandatory; this is updateStatusBatch with an extra required field.
func (t *Tracker) Flag(ctx context.Context, ids []string, reason models.AnomalyReason, note string, actor models.Actor) (lifecycle.BatchResult, error) {
	if reason == "" {
		return lifecycle.BatchResult{}, errs.Validation("anomaly root cause is required")
	}
	if !models.ValidAnomalyReason(reason) {
		return lifecycle.BatchResult{}, errs.Validation("unknown anomaly root cause %q", reason)
	}

	return t.Lifecycle.Apply(ctx, ids, lifecycle.ActiveStates(),
		slotstore.Patch{
			Status:        models.StatusAnomaly,
			StatusNote:    &note,
			AnomalyReason: &reason,
		},
		actor, "ANOMALY", fmt.Sprintf("flagged %s", reason))
}

// Resolve closes a flagged visit with a remediation record. The resulting
// RESOLVED status is deliberately distinct from FINISHED: a resolved
// anomaly is not a normally completed delivery.
func (t *Tracker) Resolve(ctx context.Context, ids []string, action string, actor models.Actor) (lifecycle.BatchResult, error) {
	if strings.TrimSpace(action) == "" {
		return lifecycle.BatchResult{}, errs.Validation("remediation action is required")
	}

	resolved := true
	resolution := &models.Resolution{
		Actor:      actor.Name,
		Action:     action,
		ResolvedAt: t.Now(),
	}
	return t.Lifecycle.Apply(ctx, ids, []models.Status{models.StatusAnomaly},
		slotstore.Patch{
			Status:     models.StatusResolved,
			Resolved:   &resolved,
			Resolution: resolution,
		},
		actor, "RESOLUTION", fmt.Sprintf("resolved: %s", action))
}

// ListOpen returns the anomaly-flagged visits still awaiting remediation.
func (t *Tracker) ListOpen(ctx context.Context) ([]visits.Visit, error) {
	open, _, err := t.partition(ctx)
	return open, err
}

// ListResolved returns the visits whose anomalies were closed out.
func (t *Tracker) ListResolved(ctx context.Context) ([]visits.Visit, error) {
	_, resolved, err := t.partition(ctx)
	return resolved, err
}

func (t *Tracker) partition(ctx context.Context) (open, resolved []visits.Visit, err error) {
	// Group the full slot set rather than pre-filtering: resolution is
	// written batch-wide, but the read path stays defensive against rows
	// where only part of a visit was migrated.
	slots, err := t.Store.ListSlots(ctx, slotstore.Filter{})
	if err != nil {
		return nil, nil, err
	}

	vs := visits.Group(slots)
	visits.Decorate(vs, t.Now())

	open = []visits.Visit{}
	resolved = []visits.Visit{}
	for _, v := range vs {
		switch {
		case v.Resolved || v.Status == models.StatusResolved:
			resolved = append(resolved, v)
		case v.Status == models.StatusAnomaly:
			open = append(open, v)
		}
	}
	return open, resolved, nil
}
