package router

import (
	"net/http"

	"saripos/internal/apierror"
	"saripos/internal/config"
	"saripos/internal/handler"
	"saripos/internal/infra"
	"saripos/internal/middleware"
	"saripos/internal/model"
	"saripos/internal/repository"
	"saripos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, rdb)
	saleSvc := service.NewSaleService(saleRepo, productRepo, rdb, mailer, cfg)
	reportSvc := service.NewReportService(reportRepo, rdb, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	dashboardH := handler.NewDashboardHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth — login is the only public endpoint besides /health
	r.POST("/api/auth/login", middleware.LoginRateLimiter(), authH.Login)

	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleCashier)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	api := r.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	{
		api.POST("/auth/register", adminOnly, authH.Register)

		api.GET("/products", anyStaff, productsH.List)
		api.GET("/products/barcode/:barcode", anyStaff, productsH.GetByBarcode)
		api.GET("/products/:id", anyStaff, productsH.Get)
		api.POST("/products", adminOnly, productsH.Create)
		api.PUT("/products/:id", adminOnly, productsH.Update)
		api.DELETE("/products/:id", adminOnly, productsH.Delete)

		api.POST("/sales", anyStaff, salesH.Create)
		api.GET("/sales", anyStaff, salesH.List)
		api.GET("/sales/:id", anyStaff, salesH.Get)
		api.GET("/sales/:id/receipt", anyStaff, salesH.Receipt)
		api.POST("/sales/:id/email", anyStaff, salesH.EmailReceipt)

		api.GET("/dashboard/stats", anyStaff, dashboardH.Stats)
		api.GET("/dashboard/reports/sales", anyStaff, dashboardH.SalesReport)
		api.GET("/dashboard/reports/products", anyStaff, dashboardH.TopProducts)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apierror.New("Route not found"))
	})

	return r
}
