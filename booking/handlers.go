package booking

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"eletralog/live"
	"eletralog/middleware"
	"eletralog/models"
	"eletralog/slotstore"
	"eletralog/timegrid"
	"eletralog/utils"
)

type API struct {
	Engine *Engine
}

// POST /api/bookings
func (a *API) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing actor")
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	visitID, err := a.Engine.BookVisit(r.Context(), req, actor)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	live.BroadcastUpdate(live.ScheduleTopic(req.Date, req.Location))
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"visitId": visitID})
}

// DELETE /api/slots/:date/:location/:time
func (a *API) ReleaseSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing actor")
		return
	}

	date := ps.ByName("date")
	location := ps.ByName("location")
	timeLabel := ps.ByName("time")

	if err := a.Engine.ReleaseSlot(r.Context(), date, timeLabel, location, actor); err != nil {
		utils.RespondError(w, err)
		return
	}

	live.BroadcastUpdate(live.ScheduleTopic(date, location))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"released": timeLabel})
}

type gridCell struct {
	Time      string `json:"time"`
	State     string `json:"state"` // free, mine, occupied
	OwnerName string `json:"ownerName,omitempty"`
	VisitID   string `json:"visitId,omitempty"`
}

// GET /api/slots/:date/:location — the full day grid with occupancy
// classified for the calling actor.
func (a *API) GetDayGrid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.ActorFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing actor")
		return
	}

	date := ps.ByName("date")
	location := ps.ByName("location")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date")
		return
	}
	if !models.ValidLocation(location) {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid location")
		return
	}

	slots, err := a.Engine.Store.ListSlots(r.Context(), slotstore.Filter{Date: date, Location: location})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	byTime := make(map[string]models.Slot, len(slots))
	for _, s := range slots {
		byTime[s.Time] = s
	}

	cells := make([]gridCell, 0, timegrid.SlotsPerDay)
	for _, t := range timegrid.Labels() {
		cell := gridCell{Time: t, State: "free"}
		if s, taken := byTime[t]; taken {
			cell.OwnerName = s.OwnerName
			cell.VisitID = s.VisitID
			if s.OwnerID == actor.ID {
				cell.State = "mine"
			} else {
				cell.State = "occupied"
			}
		}
		cells = append(cells, cell)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"date": date, "location": location, "slots": cells})
}
