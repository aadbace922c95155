// Package auth is the session collaborator: it turns a login into a JWT
// carrying the Actor the scheduling core consumes. Everything else about
// sessions (refresh, revocation) is out of scope here.
package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"eletralog/globals"
	"eletralog/models"
	"eletralog/utils"
)

const tokenTTL = 12 * time.Hour

type loginClaims struct {
	Username string      `json:"username"`
	UserID   string      `json:"userId"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type API struct {
	Users *mongo.Collection
}

// POST /api/auth/login
func (a *API) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if input.Login == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "login and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := a.Users.FindOne(ctx, bson.M{"login": input.Login}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid login or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid login or password")
		return
	}

	token, err := generateAccessToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	perms := models.RolePermissions[user.Role]
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token": token,
		"user": utils.M{
			"id":    user.ID,
			"name":  user.Name,
			"role":  user.Role,
			"label": perms.Label,
			"level": perms.Level,
		},
	})
}

func generateAccessToken(user models.User) (string, error) {
	now := time.Now()
	claims := loginClaims{
		Username: user.Name,
		UserID:   user.ID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
}

// EnsureSeedUser creates the initial MASTER account on an empty user base
// so a fresh deployment can be logged into.
func EnsureSeedUser(ctx context.Context, users *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("SEED_MASTER_PASSWORD")
	if password == "" {
		password = "master123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = users.InsertOne(ctx, models.User{
		ID:           uuid.NewString(),
		Name:         "Master",
		Login:        "master",
		PasswordHash: string(hash),
		Role:         models.RoleMaster,
	})
	if err == nil {
		log.Println("auth: seeded initial master user")
	}
	return err
}
