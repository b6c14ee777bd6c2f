// controllers/vote.go
package controllers

import (
	"errors"
	"net/http"

	"lunchvote-backend/services"
	"lunchvote-backend/utils"

	"github.com/gin-gonic/gin"
)

type VoteInput struct {
	Menu uint `json:"menu" binding:"required"`
}

type VoteController struct {
	*Env
}

// Create casts the caller's vote for today. Only employees may vote.
func (vc *VoteController) Create(c *gin.Context) {
	principal, ok := vc.principal(c)
	if !ok {
		return
	}
	if services.EmployeeOnly(principal) == services.Deny {
		denied(c, principal)
		return
	}

	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if _, err := vc.Store.GetMenu(c.Request.Context(), input.Menu); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid menu: object does not exist.")
			return
		}
		vc.storeError(c, err, "")
		return
	}

	result, err := vc.Voting.SubmitVote(c.Request.Context(), principal, input.Menu, c.GetHeader(AppVersionHeader), vc.today())
	if err != nil {
		if errors.Is(err, services.ErrDuplicateVote) {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		vc.storeError(c, err, "")
		return
	}

	if !result.VotingAllowed {
		c.JSON(http.StatusOK, gin.H{
			"warning":        result.Warning,
			"voting_allowed": false,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"voting_allowed": true,
		"vote":           result.Vote,
	})
}
