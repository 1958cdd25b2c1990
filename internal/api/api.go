package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockroom/internal/api/handlers"
	"github.com/andresuchdata/stockroom/internal/api/middleware"
	"github.com/andresuchdata/stockroom/internal/service"
)

type Services struct {
	Catalog   *service.CatalogService
	Dashboard *service.DashboardService
	Advice    *service.AdviceService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Catalog != nil {
		productHandler := handlers.NewProductHandler(services.Catalog)
		productGroup := apiGroup.Group("/products")
		{
			productGroup.GET("", productHandler.List)
			productGroup.POST("", productHandler.Create)
			productGroup.GET("/export", productHandler.Export)
			productGroup.POST("/import", productHandler.Import)
			productGroup.POST("/import/drive", productHandler.ImportDrive)
			productGroup.GET("/drive/files", productHandler.DriveFiles)
			productGroup.GET("/archives", productHandler.Archives)
			productGroup.POST("/archives", productHandler.Archive)
			productGroup.GET("/:id", productHandler.Get)
			productGroup.PUT("/:id", productHandler.Update)
			productGroup.DELETE("/:id", productHandler.Delete)
		}
	}

	if services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
		dashboardGroup := apiGroup.Group("/dashboard")
		{
			dashboardGroup.GET("/overview", dashboardHandler.GetOverview)
			dashboardGroup.GET("/categories", dashboardHandler.GetCategories)
			dashboardGroup.GET("/budget", dashboardHandler.GetBudget)
			dashboardGroup.GET("/actions", dashboardHandler.GetActions)

			planningGroup := dashboardGroup.Group("/planning")
			{
				planningGroup.GET("/products", dashboardHandler.GetProductPlans)
				planningGroup.GET("/products/:id", dashboardHandler.GetProductPlan)
				planningGroup.GET("/categories", dashboardHandler.GetCategoryPlans)
			}
		}
	}

	if services.Advice != nil {
		adviceHandler := handlers.NewAdviceHandler(services.Advice)
		adviceGroup := apiGroup.Group("/advice")
		{
			adviceGroup.POST("/summary", adviceHandler.Summary)
			adviceGroup.POST("/actions", adviceHandler.CoachAll)
			adviceGroup.POST("/actions/:id", adviceHandler.CoachAction)
			adviceGroup.POST("/marketing/:id", adviceHandler.Marketing)
			adviceGroup.POST("/chat", adviceHandler.Chat)
			adviceGroup.DELETE("/cache", adviceHandler.ClearCache)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
