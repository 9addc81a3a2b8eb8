package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ljniox/ai-concierge-sub002/internal/middleware"
	"github.com/ljniox/ai-concierge-sub002/internal/service"
)

// Handlers groups every HTTP handler wired by the server.
type Handlers struct {
	Webhook       *WebhookHandler
	Telegram      *TelegramHandler
	Renseignement *RenseignementHandler
	Catechumene   *CatechumeneHandler
	Classe        *ClasseHandler
	Inscription   *InscriptionHandler
	Session       *SessionHandler
	Stats         *StatsHandler
	Page          *PageHandler
	File          *FileHandler
	Metrics       *MetricsHandler
}

// Register mounts all routes on the router. Admin CRUD lives behind the
// session JWT; webhooks and public pages stay open.
func Register(r *gin.Engine, prefix string, h Handlers, sessions *service.SessionService, metrics *service.MetricsService) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.Metrics(metrics))

	api.POST("/webhook", h.Webhook.Receive)
	api.GET("/webhook", h.Webhook.Verify)
	api.POST("/telegram/webhook", h.Telegram.Receive)

	api.POST("/sessions", h.Session.Login)
	api.GET("/pages/:token", h.Page.Get)
	api.GET("/files/:token", h.File.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(sessions))

	authed.GET("/sessions/me", h.Session.Me)
	authed.PUT("/sessions/code", h.Session.SetCode)

	authed.GET("/renseignements", h.Renseignement.List)
	authed.POST("/renseignements", h.Renseignement.Create)
	authed.GET("/renseignements/:id", h.Renseignement.Get)
	authed.PUT("/renseignements/:id", h.Renseignement.Update)
	authed.PATCH("/renseignements/:id/statut", h.Renseignement.SetStatut)
	authed.DELETE("/renseignements/:id", h.Renseignement.Delete)

	authed.GET("/catechumenes", h.Catechumene.List)
	authed.POST("/catechumenes", h.Catechumene.Create)
	authed.GET("/catechumenes/:id", h.Catechumene.Get)
	authed.PUT("/catechumenes/:id", h.Catechumene.Update)
	authed.DELETE("/catechumenes/:id", h.Catechumene.Deactivate)

	authed.GET("/classes", h.Classe.List)
	authed.GET("/classes/:id", h.Classe.Get)

	authed.GET("/inscriptions", h.Inscription.List)
	authed.POST("/inscriptions", h.Inscription.Create)
	authed.GET("/inscriptions/:id", h.Inscription.Get)
	authed.PATCH("/inscriptions/:id/statut", h.Inscription.UpdateStatut)

	authed.GET("/admin/stats", h.Stats.Overview)
	authed.GET("/admin/stats/export", h.Stats.Export)

	authed.POST("/pages", h.Page.Create)
}
