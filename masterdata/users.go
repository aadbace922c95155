// Package masterdata holds the simple record stores behind the scheduler:
// users, carriers, vehicles, customers and drivers. Uniqueness checks and
// role gating, nothing more — the core only reads names from here.
package masterdata

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"eletralog/middleware"
	"eletralog/models"
	"eletralog/utils"
)

const opTimeout = 5 * time.Second

type API struct {
	Users     *mongo.Collection
	Carriers  *mongo.Collection
	Vehicles  *mongo.Collection
	Customers *mongo.Collection
	Drivers   *mongo.Collection
}

// requireManager allows only roles with the master-data capability.
func requireManager(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.ActorFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing actor")
		return models.Actor{}, false
	}
	if !actor.Permissions().CanManageMasterData {
		utils.RespondWithError(w, http.StatusForbidden, "no master-data permission")
		return models.Actor{}, false
	}
	return actor, true
}

// GET /api/users
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := requireManager(w, r); !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	cur, err := a.Users.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"users": users})
}

// POST /api/users
func (a *API) CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := requireManager(w, r); !ok {
		return
	}

	var input struct {
		Registration string      `json:"registration"`
		Name         string      `json:"name"`
		CPF          string      `json:"cpf"`
		Login        string      `json:"login"`
		Password     string      `json:"password"`
		Role         models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if input.Name == "" || input.Login == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name, login and password are required")
		return
	}
	if _, known := models.RolePermissions[input.Role]; !known {
		utils.RespondWithError(w, http.StatusBadRequest, "unknown role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	count, err := a.Users.CountDocuments(ctx, bson.M{"login": input.Login})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "login already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Registration: input.Registration,
		Name:         input.Name,
		CPF:          input.CPF,
		Login:        input.Login,
		PasswordHash: string(hash),
		Role:         input.Role,
	}
	if _, err := a.Users.InsertOne(ctx, user); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db insert failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"user": user})
}

// DELETE /api/users/:id
func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := requireManager(w, r); !ok {
		return
	}
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
	defer cancel()

	var user models.User
	if err := a.Users.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	if user.Role == models.RoleMaster {
		utils.RespondWithError(w, http.StatusForbidden, "cannot delete a master user")
		return
	}

	if _, err := a.Users.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "db error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
