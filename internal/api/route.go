package api

import (
	"Courier/internal/api/config"
	"Courier/internal/api/middleware"
	"Courier/internal/pkg/consts"
	"Courier/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, cfg *config.Config, revoked middleware.RevokedTokenStore) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	logger.SetupGin(r, cfg.Logstash)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		imGroup := apiGroup.Group("/im")
		imGroup.Use(
			middleware.AuditMiddleware(),
			middleware.AuthMiddleware(cfg.JWT, revoked),
			middleware.CheckRoles(consts.RoleCustomer, consts.RoleServiceProvider),
		)
		{
			imGroup.GET("/channel/:provider_id/id", group.IMHandler.GetDefaultChannelID)
			imGroup.GET("/channel/:provider_id", group.IMHandler.GetDefaultChannel)

			convGroup := imGroup.Group("/conversation")
			{
				convGroup.POST("", group.IMHandler.GetOrCreateConversation)
				convGroup.POST("/summary", group.IMHandler.GetConversationSummaries)
				convGroup.GET("/with/:user_id", group.IMHandler.GetConversationWithUser)
				convGroup.GET("/:conversation_id", group.IMHandler.GetConversation)
				convGroup.GET("/:conversation_id/messages", group.IMHandler.GetMessages)
				convGroup.POST("/:conversation_id/acks", group.IMHandler.GetMessagesAcknowledgements)
				convGroup.PUT("/:conversation_id/block", group.IMHandler.ChangeBlockStatus)
				convGroup.PUT("/:conversation_id/read", group.IMHandler.ClearUnreadCount)
			}
		}
	}

	return r
}
