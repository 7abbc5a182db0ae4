package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rountana/page1/controllers/chat_controller"
	middleware "github.com/rountana/page1/middlewares"
)

func RegisterChatRoutes(router *gin.Engine, cc *chat_controller.ChatController) {
	router.POST("/api/chat",
		middleware.NewRateLimiter("20-1m", "chat"),
		cc.Chat)
}
