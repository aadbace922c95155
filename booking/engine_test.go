package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eletralog/errs"
	"eletralog/models"
	"eletralog/slotstore"
)

type fakeRecorder struct {
	actions []string
}

func (f *fakeRecorder) Record(_ context.Context, action, _, _ string) {
	f.actions = append(f.actions, action)
}

var (
	operator = models.Actor{ID: "u1", Name: "Ana", Role: models.RoleUser}
	rival    = models.Actor{ID: "u2", Name: "Bruno", Role: models.RoleUser}
	manager  = models.Actor{ID: "u3", Name: "Carla", Role: models.RoleGestor}
	reader   = models.Actor{ID: "u4", Name: "Porteiro", Role: models.RoleTerceiro}
)

func validRequest() BookRequest {
	return BookRequest{
		Date:      "2024-06-01",
		Location:  models.LocationDock,
		SlotTimes: []string{"08:00", "08:10", "08:20"},
		Details: models.Details{
			PurchaseOrder: "PO-123",
			Invoice:       "NF-9",
			Buyer:         "Silva",
			FreightOrder:  "FO-77",
		},
	}
}

func newEngine() (*Engine, *slotstore.Memory, *fakeRecorder) {
	store := slotstore.NewMemory()
	rec := &fakeRecorder{}
	e := NewEngine(store, rec)
	e.Now = func() time.Time { return time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC) }
	return e, store, rec
}

func TestBookVisitSuccess(t *testing.T) {
	ctx := context.Background()
	e, store, rec := newEngine()

	visitID, err := e.BookVisit(ctx, validRequest(), operator)
	require.NoError(t, err)
	require.NotEmpty(t, visitID)

	slots, err := store.ListSlots(ctx, slotstore.Filter{Date: "2024-06-01", Location: models.LocationDock})
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for _, s := range slots {
		assert.Equal(t, visitID, s.VisitID)
		assert.Equal(t, models.StatusScheduled, s.Status)
		assert.Equal(t, operator.ID, s.OwnerID)
		assert.Equal(t, slots[0].CreatedAt, s.CreatedAt)
	}
	assert.Equal(t, []string{"BOOKING"}, rec.actions)
}

func TestBookVisitConflictLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	e, store, _ := newEngine()

	_, err := e.BookVisit(ctx, validRequest(), operator)
	require.NoError(t, err)

	req := validRequest()
	req.SlotTimes = []string{"07:50", "08:10"}
	_, err = e.BookVisit(ctx, req, rival)

	sc, ok := errs.IsConflict(err)
	require.True(t, ok)
	assert.Equal(t, "08:10", sc.Time)

	slots, err := store.ListSlots(ctx, slotstore.Filter{Date: "2024-06-01", Location: models.LocationDock})
	require.NoError(t, err)
	assert.Len(t, slots, 3) // only the first visit
}

func TestBookVisitValidation(t *testing.T) {
	ctx := context.Background()
	e, _, rec := newEngine()

	cases := []struct {
		name   string
		mutate func(*BookRequest)
	}{
		{"no slots", func(r *BookRequest) { r.SlotTimes = nil }},
		{"bad label", func(r *BookRequest) { r.SlotTimes = []string{"08:05"} }},
		{"bad location", func(r *BookRequest) { r.Location = "Warehouse" }},
		{"bad date", func(r *BookRequest) { r.Date = "01/06/2024" }},
		{"missing po", func(r *BookRequest) { r.Details.PurchaseOrder = "" }},
		{"missing invoice", func(r *BookRequest) { r.Details.Invoice = "" }},
		{"missing buyer", func(r *BookRequest) { r.Details.Buyer = "" }},
		{"missing freight order", func(r *BookRequest) { r.Details.FreightOrder = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := e.BookVisit(ctx, req, operator)
			var ve *errs.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
	assert.Empty(t, rec.actions)
}

func TestBookVisitReadOnlyForbidden(t *testing.T) {
	e, _, _ := newEngine()
	_, err := e.BookVisit(context.Background(), validRequest(), reader)
	var fe *errs.Forbidden
	assert.ErrorAs(t, err, &fe)
}

func TestBookVisitOwnSlotStillConflicts(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngine()

	_, err := e.BookVisit(ctx, validRequest(), operator)
	require.NoError(t, err)

	req := validRequest()
	req.SlotTimes = []string{"08:00"}
	_, err = e.BookVisit(ctx, req, operator)
	_, ok := errs.IsConflict(err)
	assert.True(t, ok)
}

func TestReleaseSlotByOwner(t *testing.T) {
	ctx := context.Background()
	e, store, rec := newEngine()

	_, err := e.BookVisit(ctx, validRequest(), operator)
	require.NoError(t, err)

	require.NoError(t, e.ReleaseSlot(ctx, "2024-06-01", "08:10", models.LocationDock, operator))

	slots, err := store.ListSlots(ctx, slotstore.Filter{Date: "2024-06-01"})
	require.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.Contains(t, rec.actions, "CANCELLATION")
}

func TestReleaseSlotPermissions(t *testing.T) {
	ctx := context.Background()
	e, store, _ := newEngine()

	_, err := e.BookVisit(ctx, validRequest(), operator)
	require.NoError(t, err)

	// read-only role: forbidden, slot untouched
	err = e.ReleaseSlot(ctx, "2024-06-01", "08:00", models.LocationDock, reader)
	var fe *errs.Forbidden
	require.ErrorAs(t, err, &fe)

	// another operator without delete-any: forbidden
	err = e.ReleaseSlot(ctx, "2024-06-01", "08:00", models.LocationDock, rival)
	require.ErrorAs(t, err, &fe)

	slots, err := store.ListSlots(ctx, slotstore.Filter{Date: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, slots, 3)

	// manager holds the delete-any capability
	require.NoError(t, e.ReleaseSlot(ctx, "2024-06-01", "08:00", models.LocationDock, manager))
}

// staleReadStore serves a fixed slot from GetSlot while delegating writes,
// standing in for a concurrent release-and-rebook between the ownership
// read and the delete.
type staleReadStore struct {
	*slotstore.Memory
	stale models.Slot
}

func (s *staleReadStore) GetSlot(_ context.Context, _, _, _ string) (models.Slot, error) {
	return s.stale, nil
}

func TestReleaseSlotRebookedKeyKeepsNewOwner(t *testing.T) {
	ctx := context.Background()
	mem := slotstore.NewMemory()

	current := models.Slot{
		ID: "1", Date: "2024-06-01", Time: "08:00", Location: models.LocationDock,
		OwnerID: rival.ID, VisitID: "v2", Status: models.StatusScheduled,
	}
	require.NoError(t, mem.CreateSlotsBatch(ctx, []models.Slot{current}))

	stale := current
	stale.OwnerID = operator.ID
	e := NewEngine(&staleReadStore{Memory: mem, stale: stale}, &fakeRecorder{})

	err := e.ReleaseSlot(ctx, "2024-06-01", "08:00", models.LocationDock, operator)
	var nf *errs.NotFound
	require.ErrorAs(t, err, &nf)

	slots, err := mem.ListSlots(ctx, slotstore.Filter{Date: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, rival.ID, slots[0].OwnerID)
}

func TestReleaseSlotNotFound(t *testing.T) {
	e, _, _ := newEngine()
	err := e.ReleaseSlot(context.Background(), "2024-06-01", "08:00", models.LocationDock, operator)
	var nf *errs.NotFound
	assert.ErrorAs(t, err, &nf)
}
