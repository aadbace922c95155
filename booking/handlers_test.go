package booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"

	"eletralog/globals"
	"eletralog/models"
	"eletralog/slotstore"
)

func gridRequest(date, location string) (*httptest.ResponseRecorder, *http.Request, httprouter.Params) {
	req := httptest.NewRequest(http.MethodGet, "/api/slots/"+date+"/"+location, nil)
	req = req.WithContext(context.WithValue(req.Context(), globals.ActorKey, operator))
	ps := httprouter.Params{{Key: "date", Value: date}, {Key: "location", Value: location}}
	return httptest.NewRecorder(), req, ps
}

func TestGetDayGridValidatesPath(t *testing.T) {
	api := &API{Engine: NewEngine(slotstore.NewMemory(), &fakeRecorder{})}

	w, req, ps := gridRequest("01-06-2024", models.LocationDock)
	api.GetDayGrid(w, req, ps)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, req, ps = gridRequest("2024-06-01", "Warehouse")
	api.GetDayGrid(w, req, ps)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, req, ps = gridRequest("2024-06-01", models.LocationDock)
	api.GetDayGrid(w, req, ps)
	assert.Equal(t, http.StatusOK, w.Code)
}
