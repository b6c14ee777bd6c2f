// controllers/menu.go
package controllers

import (
	"errors"
	"net/http"

	"lunchvote-backend/models"
	"lunchvote-backend/services"
	"lunchvote-backend/utils"

	"github.com/gin-gonic/gin"
)

// MenuInput fields are all optional at bind time: the restaurant reference
// has to go through the access check before required-field validation.
type MenuInput struct {
	Restaurant *uint   `json:"restaurant"`
	Date       *string `json:"date"`
	Dishes     *string `json:"dishes"`
}

type RankedMenuResponse struct {
	ID         uint   `json:"id"`
	Restaurant uint   `json:"restaurant"`
	Date       string `json:"date"`
	Dishes     string `json:"dishes"`
	Votes      int    `json:"votes"`
}

func rankedResponse(r services.RankedMenu) RankedMenuResponse {
	return RankedMenuResponse{
		ID:         r.Menu.ID,
		Restaurant: r.Menu.RestaurantID,
		Date:       r.Menu.Date,
		Dishes:     r.Menu.Dishes,
		Votes:      r.Votes,
	}
}

const (
	menuNotFoundMessage  = "Menu not found"
	menuUniqueSetMessage = "The fields restaurant, date must make a unique set."
	menuTodayOnlyMessage = "Menu can only be created for today!"
)

type MenuController struct {
	*Env
}

// List returns all menus, or those of ?date=YYYY-MM-DD.
func (mc *MenuController) List(c *gin.Context) {
	date := c.Query("date")
	if date != "" && !utils.ValidDay(date) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	menus, err := mc.Store.ListMenus(c.Request.Context(), date)
	if err != nil {
		mc.storeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, menus)
}

func (mc *MenuController) Get(c *gin.Context) {
	id, ok := parseID(c, "menu")
	if !ok {
		return
	}
	menu, err := mc.Store.GetMenu(c.Request.Context(), id)
	if err != nil {
		mc.storeError(c, err, menuNotFoundMessage)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (mc *MenuController) Create(c *gin.Context) {
	principal, ok := mc.principal(c)
	if !ok {
		return
	}

	var input MenuInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !mc.authorize(c, services.Request{
		Action:    services.ActionWrite,
		Principal: principal,
		Payload:   &services.MenuPayload{RestaurantID: input.Restaurant},
	}) {
		return
	}

	if input.Restaurant == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "restaurant: This field is required.")
		return
	}

	today := mc.today()
	if input.Date != nil && *input.Date != today {
		utils.RespondWithError(c, http.StatusBadRequest, menuTodayOnlyMessage)
		return
	}

	menu := models.Menu{
		RestaurantID: *input.Restaurant,
		Date:         today,
	}
	if input.Dishes != nil {
		menu.Dishes = *input.Dishes
	}

	if err := mc.Store.CreateMenu(c.Request.Context(), &menu); err != nil {
		if errors.Is(err, services.ErrConstraintViolation) {
			utils.RespondWithError(c, http.StatusBadRequest, menuUniqueSetMessage)
			return
		}
		mc.storeError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, menu)
}

func (mc *MenuController) loadForWrite(c *gin.Context) (*models.Menu, bool) {
	principal, ok := mc.principal(c)
	if !ok {
		return nil, false
	}
	action := services.ActionForMethod(c.Request.Method)
	if !mc.authorize(c, services.Request{Action: action, Principal: principal}) {
		return nil, false
	}

	id, ok := parseID(c, "menu")
	if !ok {
		return nil, false
	}
	menu, err := mc.Store.GetMenu(c.Request.Context(), id)
	if err != nil {
		mc.storeError(c, err, menuNotFoundMessage)
		return nil, false
	}

	if !mc.authorize(c, services.Request{
		Action:    action,
		Principal: principal,
		Resource:  services.MenuResource(menu),
	}) {
		return nil, false
	}
	return menu, true
}

// Update changes the dishes. A menu stays with its restaurant and day.
func (mc *MenuController) Update(c *gin.Context) {
	menu, ok := mc.loadForWrite(c)
	if !ok {
		return
	}

	var input MenuInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Restaurant != nil && *input.Restaurant != menu.RestaurantID {
		utils.RespondWithError(c, http.StatusBadRequest, "Menu cannot be moved to another restaurant.")
		return
	}
	if input.Date != nil && *input.Date != menu.Date {
		utils.RespondWithError(c, http.StatusBadRequest, "Menu date cannot be changed.")
		return
	}
	if input.Dishes != nil {
		menu.Dishes = *input.Dishes
	}

	if err := mc.Store.SaveMenu(c.Request.Context(), menu); err != nil {
		mc.storeError(c, err, menuNotFoundMessage)
		return
	}

	c.JSON(http.StatusOK, menu)
}

// Delete removes the menu and its votes.
func (mc *MenuController) Delete(c *gin.Context) {
	menu, ok := mc.loadForWrite(c)
	if !ok {
		return
	}

	if err := mc.Store.DeleteMenu(c.Request.Context(), menu.ID); err != nil {
		mc.storeError(c, err, menuNotFoundMessage)
		return
	}

	c.Status(http.StatusNoContent)
}

// TodayMenu returns the most voted menu of today.
func (mc *MenuController) TodayMenu(c *gin.Context) {
	top, err := mc.Ranker.TopMenu(c.Request.Context(), mc.today())
	if err != nil {
		mc.storeError(c, err, "")
		return
	}
	if top == nil {
		utils.RespondWithError(c, http.StatusNotFound, "No menu published for today")
		return
	}
	c.JSON(http.StatusOK, rankedResponse(*top))
}

// TodayRating returns every menu of today, most voted first.
func (mc *MenuController) TodayRating(c *gin.Context) {
	ranking, err := mc.Ranker.Ranking(c.Request.Context(), mc.today())
	if err != nil {
		mc.storeError(c, err, "")
		return
	}

	response := make([]RankedMenuResponse, 0, len(ranking))
	for _, r := range ranking {
		response = append(response, rankedResponse(r))
	}
	c.JSON(http.StatusOK, response)
}
