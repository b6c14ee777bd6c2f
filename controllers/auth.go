package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"lunchvote-backend/models"
	"lunchvote-backend/services"
	"lunchvote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=5"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

type UpdateMeInput struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=5"`
}

const (
	emailTakenMessage         = "user with this email already exists."
	invalidCredentialsMessage = "No active account found with the given credentials"
)

type AuthController struct {
	*Env
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":                  user.ID,
		"name":                user.Name,
		"email":               user.Email,
		"is_restaurant_staff": user.IsRestaurantStaff,
	}
}

// Register creates an employee account. Staff are promoted out of band.
func (a *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	email := utils.NormalizeEmail(input.Email)
	if _, err := a.Store.GetUserByEmail(c.Request.Context(), email); err == nil {
		utils.RespondWithError(c, http.StatusBadRequest, emailTakenMessage)
		return
	} else if !errors.Is(err, services.ErrNotFound) {
		a.storeError(c, err, "")
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Email:    email,
		Name:     strings.TrimSpace(input.Name),
		Password: hashed,
		IsActive: true,
	}
	if err := a.Store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, services.ErrConstraintViolation) {
			utils.RespondWithError(c, http.StatusBadRequest, emailTakenMessage)
			return
		}
		a.storeError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := a.Store.GetUserByEmail(c.Request.Context(), utils.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, invalidCredentialsMessage)
		} else {
			a.storeError(c, err, "")
		}
		return
	}

	if !user.IsActive || !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, invalidCredentialsMessage)
		return
	}

	access, refresh, err := a.Tokens.IssuePair(user.ID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := a.Store.SaveUser(c.Request.Context(), user); err != nil {
		a.Log.Warnw("failed to update last login", "user", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
	})
}

func (a *AuthController) Refresh(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	claims, err := a.Tokens.Parse(input.Refresh, utils.TokenTypeRefresh)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	user, err := a.Store.GetUser(c.Request.Context(), userID)
	if err != nil || !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	access, err := a.Tokens.IssueAccess(user.ID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (a *AuthController) currentUser(c *gin.Context) (*models.User, bool) {
	principal, ok := a.principal(c)
	if !ok {
		return nil, false
	}
	if !principal.IsAuthenticated {
		utils.RespondWithError(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil, false
	}

	user, err := a.Store.GetUser(c.Request.Context(), principal.ID)
	if err != nil {
		a.storeError(c, err, "User not found")
		return nil, false
	}
	return user, true
}

func (a *AuthController) Me(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// UpdateMe serves both PUT and PATCH; absent fields are left unchanged.
func (a *AuthController) UpdateMe(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}

	var input UpdateMeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := utils.NormalizeEmail(*input.Email)
		if email != user.Email {
			if _, err := a.Store.GetUserByEmail(c.Request.Context(), email); err == nil {
				utils.RespondWithError(c, http.StatusBadRequest, emailTakenMessage)
				return
			} else if !errors.Is(err, services.ErrNotFound) {
				a.storeError(c, err, "")
				return
			}
		}
		user.Email = email
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		user.Password = hashed
	}

	if err := a.Store.SaveUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, services.ErrConstraintViolation) {
			utils.RespondWithError(c, http.StatusBadRequest, emailTakenMessage)
			return
		}
		a.storeError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}
