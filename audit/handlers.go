package audit

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eletralog/utils"
)

type API struct {
	Log *Log
}

// GET /api/logs — last 100 audit entries, newest first.
func (a *API) GetLogs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := a.Log.LastEntries(r.Context(), 100)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "failed to read audit log")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"logs": entries})
}
