package controller

import (
	"startup-tycoon/apperror"
	"startup-tycoon/dto"

	"github.com/gin-gonic/gin"
)

var errCardIndexRequired = apperror.BadRequest("card_index required")

func (ctl *Controller) DrawFromDeck(c *gin.Context) {
	var req dto.PlayerRequest
	if err := bind(c, &req); err != nil {
		ctl.fail(c, err)
		return
	}
	res, err := ctl.rooms.DrawFromDeck(c.Param("roomID"), req.PlayerID)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	success(c, res)
}

func (ctl *Controller) TakeFromMarket(c *gin.Context) {
	var req dto.TakeFromMarketRequest
	if err := bind(c, &req); err != nil {
		ctl.fail(c, err)
		return
	}
	if req.CardIndex == nil {
		ctl.fail(c, errCardIndexRequired)
		return
	}
	res, err := ctl.rooms.TakeFromMarket(c.Param("roomID"), req.PlayerID, *req.CardIndex)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	success(c, res)
}

func (ctl *Controller) PlayCard(c *gin.Context) {
	var req dto.PlayCardRequest
	if err := bind(c, &req); err != nil {
		ctl.fail(c, err)
		return
	}
	if err := ctl.rooms.PlayCard(c.Param("roomID"), req.PlayerID, req.CardCompany, req.Action); err != nil {
		ctl.fail(c, err)
		return
	}
	success(c, dto.StatusResponse{Status: "success"})
}
