// controllers/restaurant.go
package controllers

import (
	"net/http"
	"strings"

	"lunchvote-backend/models"
	"lunchvote-backend/services"
	"lunchvote-backend/utils"

	"github.com/gin-gonic/gin"
)

// RestaurantInput is used for both create and full update.
type RestaurantInput struct {
	Title       string `json:"title" binding:"required,max=255"`
	Address     string `json:"address" binding:"required,max=255"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
}

type RestaurantController struct {
	*Env
}

func (rc *RestaurantController) List(c *gin.Context) {
	restaurants, err := rc.Store.ListRestaurants(c.Request.Context())
	if err != nil {
		rc.storeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

func (rc *RestaurantController) Get(c *gin.Context) {
	id, ok := parseID(c, "restaurant")
	if !ok {
		return
	}
	restaurant, err := rc.Store.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		rc.storeError(c, err, "Restaurant not found")
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func bindRestaurant(c *gin.Context) (*RestaurantInput, bool) {
	var input RestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return nil, false
	}
	if !utils.ValidatePhone(input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return nil, false
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Address = strings.TrimSpace(input.Address)
	return &input, true
}

// Create registers a restaurant managed by the calling staff member.
func (rc *RestaurantController) Create(c *gin.Context) {
	principal, ok := rc.principal(c)
	if !ok {
		return
	}
	if !rc.authorize(c, services.Request{Action: services.ActionWrite, Principal: principal}) {
		return
	}

	input, ok := bindRestaurant(c)
	if !ok {
		return
	}

	if rc.SingleRestaurantPerManager {
		count, err := rc.Store.CountRestaurantsByManager(c.Request.Context(), principal.ID)
		if err != nil {
			rc.storeError(c, err, "")
			return
		}
		if count > 0 {
			utils.RespondWithError(c, http.StatusBadRequest, services.ErrAlreadyOwnsRestaurant.Error())
			return
		}
	}

	restaurant := models.Restaurant{
		ManagerID:   principal.ID,
		Title:       input.Title,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
	}
	if err := rc.Store.CreateRestaurant(c.Request.Context(), &restaurant); err != nil {
		rc.storeError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, restaurant)
}

// loadForWrite runs the collection-level check, loads the restaurant and
// runs the object-level check.
func (rc *RestaurantController) loadForWrite(c *gin.Context) (*models.Restaurant, bool) {
	principal, ok := rc.principal(c)
	if !ok {
		return nil, false
	}
	action := services.ActionForMethod(c.Request.Method)
	if !rc.authorize(c, services.Request{Action: action, Principal: principal}) {
		return nil, false
	}

	id, ok := parseID(c, "restaurant")
	if !ok {
		return nil, false
	}
	restaurant, err := rc.Store.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		rc.storeError(c, err, "Restaurant not found")
		return nil, false
	}

	if !rc.authorize(c, services.Request{
		Action:    action,
		Principal: principal,
		Resource:  services.RestaurantResource(restaurant),
	}) {
		return nil, false
	}
	return restaurant, true
}

func (rc *RestaurantController) Update(c *gin.Context) {
	restaurant, ok := rc.loadForWrite(c)
	if !ok {
		return
	}

	input, ok := bindRestaurant(c)
	if !ok {
		return
	}

	restaurant.Title = input.Title
	restaurant.Address = input.Address
	restaurant.PhoneNumber = input.PhoneNumber

	if err := rc.Store.SaveRestaurant(c.Request.Context(), restaurant); err != nil {
		rc.storeError(c, err, "Restaurant not found")
		return
	}

	c.JSON(http.StatusOK, restaurant)
}

// Delete removes the restaurant together with its menus and votes.
func (rc *RestaurantController) Delete(c *gin.Context) {
	restaurant, ok := rc.loadForWrite(c)
	if !ok {
		return
	}

	if err := rc.Store.DeleteRestaurant(c.Request.Context(), restaurant.ID); err != nil {
		rc.storeError(c, err, "Restaurant not found")
		return
	}

	c.Status(http.StatusNoContent)
}
