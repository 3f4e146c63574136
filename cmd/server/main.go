package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/juliosaas/InfraAlert/internal/config"
	"github.com/juliosaas/InfraAlert/internal/controllers"
	"github.com/juliosaas/InfraAlert/internal/database"
	"github.com/juliosaas/InfraAlert/internal/models"
	"github.com/juliosaas/InfraAlert/internal/services"
)

func main() {
	// Carregar as configs
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Falha ao carregar configs: %v", err)
	}

	// Conectar ao banco
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Falha ao conectar banco de dados: %v", err)
	}

	// Auto-migrate do catálogo de ruas
	if err := db.AutoMigrate(&models.RotaSegura{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// 4. Instancia serviços
	catalogSvc := services.NewCatalogService(db)
	safetySvc := services.NewSafetyService(catalogSvc)
	routingSvc := services.NewRoutingService(cfg.OSRMBaseURL, cfg.NominatimBaseURL)
	routeAI := services.NewRouteAI(cfg.ModelPath)

	// Histórico de analytics é opcional: só liga com DSN configurado
	var historySvc *services.HistoryService
	if cfg.AnalyticsDBURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.AnalyticsDBURL)
		if err != nil {
			log.Fatalf("Falha ao conectar banco de analytics: %v", err)
		}
		historySvc = services.NewHistoryService(pool)
	}

	// 5. Cria controllers
	routingCtrl := controllers.NewRoutingController(routingSvc, safetySvc, routeAI, historySvc, catalogSvc)

	// 6. Inicializa Echo
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// 7. Registra rotas
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":    "OK",
			"message":   "InfraAlert API está funcionando",
			"timestamp": time.Now().Format("2006-01-02 15:04:05"),
			"service":   "rota-segura-api",
			"version":   "1.0.0",
		})
	})

	api := e.Group("/api/routing")
	routingCtrl.Register(api)

	// 8. Roda Servidor
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
