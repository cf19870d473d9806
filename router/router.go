package router

import (
	"startup-tycoon/controller"
	"startup-tycoon/ws"

	"github.com/gin-gonic/gin"
)

func InitRouter(r *gin.Engine, ctl *controller.Controller, wsHandler *ws.Handler) {
	r.GET("/", ctl.Index)

	// 房间接口路由
	api := r.Group("/room")
	{
		api.POST("/create", ctl.CreateRoom)
		api.GET("/list", ctl.ListRooms)
		api.GET("/:roomID", ctl.GetRoom)
		api.DELETE("/:roomID", ctl.DeleteRoom)
		api.POST("/:roomID/join", ctl.JoinRoom)
		api.POST("/:roomID/leave", ctl.LeaveRoom)
		api.POST("/:roomID/start", ctl.StartGame)
		api.GET("/:roomID/log", ctl.GameLog)

		action := api.Group("/:roomID/action")
		action.POST("/draw_from_deck", ctl.DrawFromDeck)
		action.POST("/take_from_market", ctl.TakeFromMarket)
		action.POST("/play_card", ctl.PlayCard)
	}

	// WebSocket 路由
	r.GET("/ws/:roomID", wsHandler.HandleWebSocket)
}
