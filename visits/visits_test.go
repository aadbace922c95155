package visits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eletralog/models"
)

func slot(id, visitID, date, timeLabel string, status models.Status) models.Slot {
	return models.Slot{
		ID:       id,
		VisitID:  visitID,
		Date:     date,
		Time:     timeLabel,
		Location: models.LocationDock,
		Status:   status,
		Details:  models.Details{PurchaseOrder: "PO-1", Invoice: "NF-9"},
	}
}

func TestGroupContiguousRun(t *testing.T) {
	vs := Group([]models.Slot{
		slot("3", "v1", "2024-06-01", "08:20", models.StatusScheduled),
		slot("1", "v1", "2024-06-01", "08:00", models.StatusScheduled),
		slot("2", "v1", "2024-06-01", "08:10", models.StatusScheduled),
	})
	require.Len(t, vs, 1)
	assert.Equal(t, "08:00", vs[0].WindowStart)
	assert.Equal(t, "08:30", vs[0].WindowEnd)
	assert.ElementsMatch(t, []string{"1", "2", "3"}, vs[0].SlotIDs)
}

func TestGroupEndOfDayWindow(t *testing.T) {
	vs := Group([]models.Slot{
		slot("1", "v1", "2024-06-01", "23:50", models.StatusScheduled),
	})
	require.Len(t, vs, 1)
	assert.Equal(t, "24:00", vs[0].WindowEnd)
}

func TestGroupSeparatesVisits(t *testing.T) {
	vs := Group([]models.Slot{
		slot("1", "v1", "2024-06-01", "08:00", models.StatusScheduled),
		slot("2", "v2", "2024-06-01", "09:00", models.StatusScheduled),
	})
	require.Len(t, vs, 2)
	assert.Equal(t, "08:00", vs[0].WindowStart)
	assert.Equal(t, "09:00", vs[1].WindowStart)
}

func TestGroupLegacyCompositeKey(t *testing.T) {
	a := slot("1", "", "2024-06-01", "08:00", models.StatusScheduled)
	b := slot("2", "", "2024-06-01", "08:10", models.StatusScheduled)
	c := slot("3", "", "2024-06-01", "09:00", models.StatusScheduled)
	c.Details.PurchaseOrder = "PO-OTHER"

	vs := Group([]models.Slot{a, b, c})
	require.Len(t, vs, 2)
	assert.Equal(t, "08:20", vs[0].WindowEnd)
}

func TestGroupResolvedPropagates(t *testing.T) {
	a := slot("1", "v1", "2024-06-01", "08:00", models.StatusResolved)
	b := slot("2", "v1", "2024-06-01", "08:10", models.StatusAnomaly)
	b.Resolved = true
	b.Resolution = &models.Resolution{Actor: "ana", Action: "rescheduled", ResolvedAt: time.Now()}

	vs := Group([]models.Slot{a, b})
	require.Len(t, vs, 1)
	assert.True(t, vs[0].Resolved)
	require.NotNil(t, vs[0].Resolution)
	assert.Equal(t, "rescheduled", vs[0].Resolution.Action)
}

func TestIsLate(t *testing.T) {
	base := Visit{
		Date:        "2024-06-01",
		WindowStart: "08:00",
		WindowEnd:   "08:30",
		Status:      models.StatusScheduled,
	}

	mustTime := func(s string) time.Time {
		ts, err := time.Parse("2006-01-02 15:04", s)
		require.NoError(t, err)
		return ts
	}

	assert.False(t, IsLate(base, mustTime("2024-06-01 08:15")))
	assert.False(t, IsLate(base, mustTime("2024-06-01 08:30")))
	assert.True(t, IsLate(base, mustTime("2024-06-01 08:31")))
	assert.True(t, IsLate(base, mustTime("2024-06-02 00:01")))
	assert.False(t, IsLate(base, mustTime("2024-05-31 23:59")))

	arrived := base
	arrived.Status = models.StatusArrived
	assert.False(t, IsLate(arrived, mustTime("2024-06-02 12:00")))
}

func TestIsLatePure(t *testing.T) {
	v := Visit{Date: "2024-06-01", WindowEnd: "08:30", Status: models.StatusScheduled}
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	first := IsLate(v, at)
	second := IsLate(v, at)
	assert.Equal(t, first, second)
	assert.Equal(t, models.StatusScheduled, v.Status)
}

func TestDecorateOverridesDisplayOnly(t *testing.T) {
	vs := Group([]models.Slot{
		slot("1", "v1", "2024-06-01", "08:00", models.StatusScheduled),
	})
	Decorate(vs, time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, DisplayLate, vs[0].DisplayStatus)
	assert.Equal(t, models.StatusScheduled, vs[0].Status)
}
