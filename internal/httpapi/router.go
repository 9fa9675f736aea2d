package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caseforge/casechat/internal/admin"
	"github.com/caseforge/casechat/internal/common"
	"github.com/caseforge/casechat/internal/config"
	"github.com/caseforge/casechat/internal/httpapi/handlers"
	"github.com/caseforge/casechat/internal/httpapi/middleware"
	"github.com/caseforge/casechat/internal/store/rabbitmq"
)

func NewRouter(db *gorm.DB, cfg config.Config, cache admin.Cache, rabbit *rabbitmq.Publisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	h := handlers.NewHandler(db, cfg, cache, rabbit)

	r.GET("/ping", h.Ping)

	// credential gates
	r.POST("/login", h.Login)
	r.POST("/admin/login", h.AdminLogin)

	// Chat (user token required)
	userGroup := r.Group("/")
	userGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	userGroup.POST("/sessions", h.CreateSession)
	userGroup.POST("/sessions/identity", h.SubmitIdentity)
	userGroup.POST("/chat/messages", h.SendChatMessage)
	userGroup.GET("/chat/sessions/:session_id/messages", h.ListSessionMessages)

	// Admin view (admin token required)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AdminRequired(cfg.JWTSecret))
	adminGroup.GET("/transcripts", h.AdminOverview)
	adminGroup.POST("/transcripts/refresh", h.AdminRefresh)
	adminGroup.GET("/transcripts/:email", h.AdminTranscript)
	adminGroup.GET("/transcripts/:email/export", h.AdminExportTranscript)
	adminGroup.DELETE("/transcripts/:email", h.AdminDeleteTranscript)
	adminGroup.GET("/export", h.AdminExportAll)
	adminGroup.POST("/exports", h.CreateExportJob)
	adminGroup.GET("/exports/:job_id", h.GetExportJob)
	adminGroup.GET("/exports/:job_id/download", h.DownloadExportJob)

	return r
}
