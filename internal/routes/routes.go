package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/AtivaInvest/crm-financeiro/internal/audit"
	"github.com/AtivaInvest/crm-financeiro/internal/config"
	"github.com/AtivaInvest/crm-financeiro/internal/gemini"
	"github.com/AtivaInvest/crm-financeiro/internal/handlers"
	"github.com/AtivaInvest/crm-financeiro/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	var cache *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("REDIS_URL inválida, cache desativado: %v", err)
		} else {
			cache = redis.NewClient(opts)
		}
	}

	geminiClient := gemini.New(cfg, cache)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	clientHandler := handlers.NewClientHandler(db, auditDispatcher)
	partnerHandler := handlers.NewPartnerHandler(db, auditDispatcher)
	opportunityHandler := handlers.NewOpportunityHandler(db, auditDispatcher)
	transactionHandler := handlers.NewTransactionHandler(db, auditDispatcher)
	activityHandler := handlers.NewActivityHandler(db, auditDispatcher)
	noteHandler := handlers.NewNoteHandler(db, auditDispatcher)

	aiHandler := handlers.NewAIHandler(geminiClient)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group(cfg.BasePath)
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🤖 ASSISTENTE (sem auth, como o frontend espera)
		// ------------------------------
		api.POST("/ai/summarize", aiHandler.Summarize)
		api.POST("/search/search", aiHandler.Search)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Create)
			secured.GET("/clients/:id", clientHandler.Get)
			secured.PUT("/clients/:id", clientHandler.Update)
			secured.PATCH("/clients/:id", clientHandler.Update)
			secured.DELETE("/clients/:id", clientHandler.Delete)

			secured.GET("/partners", partnerHandler.List)
			secured.POST("/partners", partnerHandler.Create)
			secured.PUT("/partners/:id", partnerHandler.Update)
			secured.PATCH("/partners/:id", partnerHandler.Update)
			secured.DELETE("/partners/:id", partnerHandler.Delete)

			secured.GET("/opportunities", opportunityHandler.List)
			secured.POST("/opportunities", opportunityHandler.Create)
			secured.PUT("/opportunities/:id", opportunityHandler.Update)
			secured.PATCH("/opportunities/:id", opportunityHandler.Update)
			secured.DELETE("/opportunities/:id", opportunityHandler.Delete)

			secured.GET("/transactions", transactionHandler.List)
			secured.POST("/transactions", transactionHandler.Create)
			secured.PUT("/transactions/:id", transactionHandler.Update)
			secured.PATCH("/transactions/:id", transactionHandler.Update)
			secured.DELETE("/transactions/:id", transactionHandler.Delete)

			secured.GET("/activities", activityHandler.List)
			secured.POST("/activities", activityHandler.Create)
			secured.PUT("/activities/:id", activityHandler.Update)
			secured.PATCH("/activities/:id", activityHandler.Update)
			secured.DELETE("/activities/:id", activityHandler.Delete)

			// ------------------------------
			// NOTAS DE COLABORAÇÃO
			// ------------------------------
			secured.GET("/comments/client/:clientId", noteHandler.ListByClient)
			secured.POST("/comments/client/:clientId", noteHandler.Create)
			secured.GET("/comments/:id", noteHandler.Get)
			secured.PATCH("/comments/:id", noteHandler.Update)
			secured.DELETE("/comments/:id", noteHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
