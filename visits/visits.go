// Package visits derives the logical read model from raw slot rows. A
// visit is the contiguous run of slots booked together; it is recomputed
// from the store on every view refresh, never cached.
package visits

import (
	"context"
	"sort"
	"time"

	"eletralog/models"
	"eletralog/slotstore"
	"eletralog/timegrid"
)

// DisplayLate is the derived, display-only state for scheduled visits
// whose window has passed. It is never written to the store.
const DisplayLate = "LATE"

type Visit struct {
	VisitID       string               `json:"visitId"`
	Date          string               `json:"date"`
	Location      string               `json:"location"`
	WindowStart   string               `json:"windowStart"`
	WindowEnd     string               `json:"windowEnd"` // exclusive right edge
	Status        models.Status        `json:"status"`
	DisplayStatus string               `json:"displayStatus"`
	StatusNote    string               `json:"statusNote,omitempty"`
	AnomalyReason models.AnomalyReason `json:"anomalyReason,omitempty"`
	Resolved      bool                 `json:"resolved"`
	Resolution    *models.Resolution   `json:"resolution,omitempty"`
	OwnerID       string               `json:"ownerId"`
	OwnerName     string               `json:"ownerName"`
	Details       models.Details       `json:"details"`
	SlotIDs       []string             `json:"slotIds"`
	SlotTimes     []string             `json:"slotTimes"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// groupKey is the visit identity: the visitId stamped at booking time, or
// for legacy rows without one, the composite of declared document numbers.
func groupKey(s models.Slot) string {
	if s.VisitID != "" {
		return s.VisitID
	}
	return "legacy:" + s.Details.PurchaseOrder + "|" + s.Details.Invoice + "|" + s.Location
}

// Group folds slot rows into visits sorted by date, location and window
// start. All slots of a visit carry the same status by construction; the
// read path is still defensive: a visit counts as resolved if any of its
// slots does.
func Group(slots []models.Slot) []Visit {
	byKey := map[string]*Visit{}
	order := []string{}

	for _, s := range slots {
		k := groupKey(s)
		v, ok := byKey[k]
		if !ok {
			v = &Visit{
				VisitID:       s.VisitID,
				Date:          s.Date,
				Location:      s.Location,
				Status:        s.Status,
				StatusNote:    s.StatusNote,
				AnomalyReason: s.AnomalyReason,
				OwnerID:       s.OwnerID,
				OwnerName:     s.OwnerName,
				Details:       s.Details,
				CreatedAt:     s.CreatedAt,
			}
			byKey[k] = v
			order = append(order, k)
		}
		v.SlotIDs = append(v.SlotIDs, s.ID)
		v.SlotTimes = append(v.SlotTimes, s.Time)
		if s.Resolved {
			v.Resolved = true
			if s.Resolution != nil {
				v.Resolution = s.Resolution
			}
		}
	}

	out := make([]Visit, 0, len(order))
	for _, k := range order {
		v := byKey[k]
		sort.Strings(v.SlotTimes)
		v.WindowStart = v.SlotTimes[0]
		v.WindowEnd = timegrid.EndOf(v.SlotTimes[len(v.SlotTimes)-1])
		out = append(out, *v)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Location != out[j].Location {
			return out[i].Location < out[j].Location
		}
		return out[i].WindowStart < out[j].WindowStart
	})
	return out
}

// IsLate computes the wall-clock staleness signal for a visit. Pure: same
// inputs, same answer, and it never touches stored state.
func IsLate(v Visit, now time.Time) bool {
	if v.Status != models.StatusScheduled {
		return false
	}
	today := now.Format("2006-01-02")
	if v.Date < today {
		return true
	}
	return v.Date == today && now.Format("15:04") > v.WindowEnd
}

// Decorate fills DisplayStatus for rendering: the stored status, overridden
// to LATE for stale scheduled visits.
func Decorate(vs []Visit, now time.Time) {
	for i := range vs {
		if IsLate(vs[i], now) {
			vs[i].DisplayStatus = DisplayLate
		} else {
			vs[i].DisplayStatus = string(vs[i].Status)
		}
	}
}

// List is the listVisits read query: re-derive the day's visits for one
// location from the slot store.
func List(ctx context.Context, store slotstore.Store, date, location string, now time.Time) ([]Visit, error) {
	slots, err := store.ListSlots(ctx, slotstore.Filter{Date: date, Location: location})
	if err != nil {
		return nil, err
	}
	vs := Group(slots)
	Decorate(vs, now)
	return vs, nil
}
