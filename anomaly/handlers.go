package anomaly

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eletralog/live"
	"eletralog/middleware"
	"eletralog/models"
	"eletralog/utils"
)

type API struct {
	Tracker *Tracker
}

type flagRequest struct {
	IDs      []string             `json:"ids"`
	Reason   models.AnomalyReason `json:"reason"`
	Note     string               `json:"note,omitempty"`
	Date     string               `json:"date,omitempty"`
	Location string               `json:"location,omitempty"`
}

type resolveRequest struct {
	IDs      []string `json:"ids"`
	Action   string   `json:"action"`
	Date     string   `json:"date,omitempty"`
	Location string   `json:"location,omitempty"`
}

// POST /api/anomalies/flag
func (a *API) Flag(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing actor")
		return
	}

	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	res, err := a.Tracker.Flag(r.Context(), req.IDs, req.Reason, req.Note, actor)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if req.Date != "" && req.Location != "" {
		live.BroadcastUpdate(live.ScheduleTopic(req.Date, req.Location))
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"result": res, "partial": res.Partial()})
}

// POST /api/anomalies/resolve
func (a *API) Resolve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing actor")
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	res, err := a.Tracker.Resolve(r.Context(), req.IDs, req.Action, actor)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if req.Date != "" && req.Location != "" {
		live.BroadcastUpdate(live.ScheduleTopic(req.Date, req.Location))
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"result": res, "partial": res.Partial()})
}

// GET /api/anomalies/open
func (a *API) ListOpen(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	vs, err := a.Tracker.ListOpen(r.Context())
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"anomalies": vs})
}

// GET /api/anomalies/resolved
func (a *API) ListResolved(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	vs, err := a.Tracker.ListResolved(r.Context())
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"anomalies": vs})
}
