package masterdata

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"eletralog/middleware"
	"eletralog/models"
	"eletralog/utils"
)

func list[T any](w http.ResponseWriter, r *http.Request, coll *mongo.Collection, key string) {
	if _, ok := middleware.ActorFromRequest(r); !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	cur, err := coll.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	defer cur.Close(ctx)

	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{key: items})
}

func deleteByID(w http.ResponseWriter, r *http.Request, coll *mongo.Collection, id string) {
	if _, ok := requireManager(w, r); !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Carriers ----------

func (a *API) ListCarriers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list[models.Carrier](w, r, a.Carriers, "carriers")
}

func (a *API) CreateCarrier(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := requireManager(w, r); !ok {
		return
	}
	var c models.Carrier
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "carrier name is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	c.ID = uuid.NewString()
	if _, err := a.Carriers.InsertOne(ctx, c); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db insert failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"carrier": c})
}

func (a *API) DeleteCarrier(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	deleteByID(w, r, a.Carriers, ps.ByName("id"))
}

// ---------- Vehicles ----------

func (a *API) ListVehicles(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list[models.Vehicle](w, r, a.Vehicles, "vehicles")
}

func (a *API) CreateVehicle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := requireManager(w, r); !ok {
		return
	}
	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil || v.Plate == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "vehicle plate is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	// avoid duplicate plates
	count, err := a.Vehicles.CountDocuments(ctx, bson.M{"plate": v.Plate})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "plate already registered")
		return
	}

	v.ID = uuid.NewString()
	if _, err := a.Vehicles.InsertOne(ctx, v); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db insert failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"vehicle": v})
}

func (a *API) UpdateVehicle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := requireManager(w, r); !ok {
		return
	}
	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	v.ID = ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	res, err := a.Vehicles.UpdateOne(ctx, bson.M{"id": v.ID}, bson.M{"$set": v})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"vehicle": v})
}

func (a *API) DeleteVehicle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	deleteByID(w, r, a.Vehicles, ps.ByName("id"))
}

// ---------- Customers ----------

func (a *API) ListCustomers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list[models.Customer](w, r, a.Customers, "customers")
}

func (a *API) CreateCustomer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := requireManager(w, r); !ok {
		return
	}
	var c models.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "customer name is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	c.ID = uuid.NewString()
	if _, err := a.Customers.InsertOne(ctx, c); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db insert failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"customer": c})
}

func (a *API) UpdateCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := requireManager(w, r); !ok {
		return
	}
	var c models.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	c.ID = ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	res, err := a.Customers.UpdateOne(ctx, bson.M{"id": c.ID}, bson.M{"$set": c})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "customer not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"customer": c})
}

func (a *API) DeleteCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	deleteByID(w, r, a.Customers, ps.ByName("id"))
}

// ---------- Drivers ----------

func (a *API) ListDrivers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list[models.Driver](w, r, a.Drivers, "drivers")
}

func (a *API) CreateDriver(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := requireManager(w, r); !ok {
		return
	}
	var d models.Driver
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil || d.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "driver name is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	d.ID = uuid.NewString()
	if _, err := a.Drivers.InsertOne(ctx, d); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db insert failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"driver": d})
}

func (a *API) DeleteDriver(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	deleteByID(w, r, a.Drivers, ps.ByName("id"))
}

// GET /api/vehicle-types — the fixed option list from the booking form.
func (a *API) ListVehicleTypes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"vehicleTypes": models.VehicleTypes})
}
