package lifecycle

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eletralog/live"
	"eletralog/middleware"
	"eletralog/models"
	"eletralog/utils"
)

type API struct {
	Manager *Manager
}

type statusRequest struct {
	IDs  []string `json:"ids"`
	Note string   `json:"note,omitempty"`
	// Date and Location identify the grid to refresh for live viewers.
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`
}

// POST /api/status/arrived
func (a *API) MarkArrived(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.handle(w, r, a.Manager.MarkArrived)
}

// POST /api/status/unloading
func (a *API) MarkUnloading(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.handle(w, r, a.Manager.MarkUnloading)
}

// POST /api/status/finished
func (a *API) MarkFinished(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.handle(w, r, a.Manager.MarkFinished)
}

func (a *API) handle(w http.ResponseWriter, r *http.Request, op func(context.Context, []string, string, models.Actor) (BatchResult, error)) {
	actor, ok := middleware.ActorFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing actor")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	res, err := op(r.Context(), req.IDs, req.Note, actor)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if req.Date != "" && req.Location != "" {
		live.BroadcastUpdate(live.ScheduleTopic(req.Date, req.Location))
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"result": res, "partial": res.Partial()})
}
