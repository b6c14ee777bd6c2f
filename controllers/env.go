package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"lunchvote-backend/services"
	"lunchvote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const AppVersionHeader = "X-App-Version"

// Env carries the dependencies every controller shares.
type Env struct {
	Store  *services.GormStore
	Access *services.AccessControl
	Voting *services.VotingGuard
	Ranker *services.Ranker
	Tokens *utils.TokenIssuer
	Log    *zap.SugaredLogger

	Location                   *time.Location
	SingleRestaurantPerManager bool
	Now                        func() time.Time
}

func (e *Env) today() string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return utils.Day(now(), e.Location)
}

// principal resolves the caller. Requests without a token are anonymous;
// a token whose user is gone or inactive is rejected with 401.
func (e *Env) principal(c *gin.Context) (services.Principal, bool) {
	raw, exists := c.Get(utils.ContextUserIDKey)
	if !exists {
		return services.Principal{}, true
	}

	subject, _ := raw.(string)
	userID, err := uuid.Parse(subject)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid token claims")
		return services.Principal{}, false
	}

	user, err := e.Store.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		} else {
			e.Log.Errorw("failed to load principal", "user", userID, "error", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return services.Principal{}, false
	}
	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "User is inactive")
		return services.Principal{}, false
	}

	return services.PrincipalFromUser(user), true
}

// authorize writes the rejection itself and reports whether to continue.
func (e *Env) authorize(c *gin.Context, req services.Request) bool {
	decision, err := e.Access.Authorize(c.Request.Context(), req)
	if err != nil {
		e.Log.Errorw("authorization failed", "action", req.Action, "error", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return false
	}
	if decision == services.Deny {
		denied(c, req.Principal)
		return false
	}
	return true
}

func denied(c *gin.Context, p services.Principal) {
	if !p.IsAuthenticated {
		utils.RespondWithError(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	utils.RespondWithError(c, http.StatusForbidden, services.ErrPermissionDenied.Error())
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" ID format")
		return 0, false
	}
	return uint(id), true
}

func (e *Env) storeError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, services.ErrNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, notFound)
		return
	}
	e.Log.Errorw("store failure", "path", c.Request.URL.Path, "error", err)
	utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
}
