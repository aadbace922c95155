package visits

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"eletralog/models"
	"eletralog/slotstore"
	"eletralog/utils"
)

type API struct {
	Store slotstore.Store
}

// GET /api/visits/:date/:location
func (a *API) ListVisits(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	vs, err := List(r.Context(), a.Store, date, location, time.Now())
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"visits": vs})
}
