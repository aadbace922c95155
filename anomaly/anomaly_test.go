package anomaly

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eletralog/errs"
	"eletralog/lifecycle"
	"eletralog/models"
	"eletralog/slotstore"
)

type fakeRecorder struct {
	actions []string
}

func (f *fakeRecorder) Record(_ context.Context, action, _, _ string) {
	f.actions = append(f.actions, action)
}

var operator = models.Actor{ID: "u1", Name: "Ana", Role: models.RoleUser}

func newTracker() (*Tracker, *slotstore.Memory, *fakeRecorder) {
	store := slotstore.NewMemory()
	rec := &fakeRecorder{}
	tr := NewTracker(store, lifecycle.NewManager(store, rec))
	tr.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return tr, store, rec
}

func seedVisit(t *testing.T, store *slotstore.Memory, visitID string, times ...string) []string {
	t.Helper()
	slots := make([]models.Slot, 0, len(times))
	ids := make([]string, 0, len(times))
	for i, tm := range times {
		id := fmt.Sprintf("%s-%d", visitID, i)
		ids = append(ids, id)
		slots = append(slots, models.Slot{
			ID:       id,
			Date:     "2024-06-01",
			Time:     tm,
			Location: models.LocationDock,
			VisitID:  visitID,
			Status:   models.StatusScheduled,
			Details:  models.Details{PurchaseOrder: "PO-" + visitID, Invoice: "NF-1"},
		})
	}
	require.NoError(t, store.CreateSlotsBatch(context.Background(), slots))
	return ids
}

func TestFlagRequiresRootCause(t *testing.T) {
	tr, store, rec := newTracker()
	ids := seedVisit(t, store, "v1", "08:00", "08:10", "08:20")

	_, err := tr.Flag(context.Background(), ids, "", "truck never came", operator)
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = tr.Flag(context.Background(), ids, "BAD_WEATHER", "", operator)
	require.ErrorAs(t, err, &ve)

	// targeted slots unchanged
	slots, err := store.ListSlots(context.Background(), slotstore.Filter{Date: "2024-06-01"})
	require.NoError(t, err)
	for _, s := range slots {
		assert.Equal(t, models.StatusScheduled, s.Status)
	}
	assert.Empty(t, rec.actions)
}

func TestFlagSetsAnomalyOnWholeVisit(t *testing.T) {
	ctx := context.Background()
	tr, store, rec := newTracker()
	ids := seedVisit(t, store, "v1", "08:00", "08:10", "08:20")

	res, err := tr.Flag(ctx, ids, models.ReasonNoShow, "no sign of the truck", operator)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Matched)

	slots, err := store.ListSlots(ctx, slotstore.Filter{Date: "2024-06-01"})
	require.NoError(t, err)
	for _, s := range slots {
		assert.Equal(t, models.StatusAnomaly, s.Status)
		assert.Equal(t, models.ReasonNoShow, s.AnomalyReason)
		assert.Equal(t, "no sign of the truck", s.StatusNote)
		assert.False(t, s.Resolved)
	}
	assert.Equal(t, []string{"ANOMALY"}, rec.actions)

	open, err := tr.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "v1", open[0].VisitID)

	resolved, err := tr.ListResolved(ctx)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestResolveRequiresAction(t *testing.T) {
	tr, store, _ := newTracker()
	ids := seedVisit(t, store, "v1", "08:00")
	_, err := tr.Flag(context.Background(), ids, models.ReasonDamagedCargo, "", operator)
	require.NoError(t, err)

	var ve *errs.ValidationError
	_, err = tr.Resolve(context.Background(), ids, "", operator)
	require.ErrorAs(t, err, &ve)
	_, err = tr.Resolve(context.Background(), ids, "   ", operator)
	require.ErrorAs(t, err, &ve)
}

func TestResolveMovesVisitToResolvedBucket(t *testing.T) {
	ctx := context.Background()
	tr, store, _ := newTracker()
	ids := seedVisit(t, store, "v1", "08:00", "08:10", "08:20")

	_, err := tr.Flag(ctx, ids, models.ReasonNoShow, "", operator)
	require.NoError(t, err)

	res, err := tr.Resolve(ctx, ids, "Rescheduled for next day", operator)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Matched)

	slots, err := store.ListSlots(ctx, slotstore.Filter{Date: "2024-06-01"})
	require.NoError(t, err)
	for _, s := range slots {
		assert.Equal(t, models.StatusResolved, s.Status)
		assert.True(t, s.Resolved)
		// resolving keeps the recorded root cause
		assert.Equal(t, models.ReasonNoShow, s.AnomalyReason)
		require.NotNil(t, s.Resolution)
		assert.Equal(t, "Rescheduled for next day", s.Resolution.Action)
		assert.Equal(t, operator.Name, s.Resolution.Actor)
	}

	open, err := tr.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	resolved, err := tr.ListResolved(ctx)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "v1", resolved[0].VisitID)
}

func TestResolveOnlyAppliesToFlaggedSlots(t *testing.T) {
	ctx := context.Background()
	tr, store, _ := newTracker()
	ids := seedVisit(t, store, "v1", "08:00")

	_, err := tr.Resolve(ctx, ids, "nothing to resolve", operator)
	var nf *errs.NotFound
	require.ErrorAs(t, err, &nf)

	slots, err := store.ListSlots(ctx, slotstore.Filter{Date: "2024-06-01"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, slots[0].Status)
}

func TestPartitionDefensiveAgainstMixedRows(t *testing.T) {
	ctx := context.Background()
	tr, store, _ := newTracker()

	// legacy-style visit where only one row carries the resolved marker
	resolvedTrue := true
	require.NoError(t, store.CreateSlotsBatch(ctx, []models.Slot{
		{ID: "a", Date: "2024-06-01", Time: "09:00", Location: models.LocationDock,
			VisitID: "vx", Status: models.StatusAnomaly, AnomalyReason: models.ReasonOther},
		{ID: "b", Date: "2024-06-01", Time: "09:10", Location: models.LocationDock,
			VisitID: "vx", Status: models.StatusAnomaly, AnomalyReason: models.ReasonOther},
	}))
	_, _, err := store.UpdateSlotsBatch(ctx, []string{"b"}, nil, slotstore.Patch{
		Status: models.StatusResolved, Resolved: &resolvedTrue,
	})
	require.NoError(t, err)

	open, err := tr.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	resolved, err := tr.ListResolved(ctx)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].Resolved)
}
