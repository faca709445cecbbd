package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Pipillas/musa/internal/config"
	"github.com/Pipillas/musa/internal/handler"
	"github.com/Pipillas/musa/internal/infra"
	"github.com/Pipillas/musa/internal/middleware"
	"github.com/Pipillas/musa/internal/repository"
	"github.com/Pipillas/musa/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, invoicer service.Invoicer) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	notifier := infra.NewRedisNotifier(rdb)
	printer := infra.NewLogPrinter()
	guard := service.NewCheckoutGuard()

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	operacionRepo := repository.NewOperacionRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	productoSvc := service.NewProductoService(productoRepo, notifier)
	checkoutSvc := service.NewCheckoutService(productoRepo, ventaRepo, invoicer, guard, notifier, printer, cfg.PuntoVenta)
	reversalSvc := service.NewReversalService(productoRepo, ventaRepo, turnoRepo, invoicer, guard, notifier)
	cajaSvc := service.NewCajaService(operacionRepo, ventaRepo, notifier)
	turnoSvc := service.NewTurnoService(turnoRepo, ventaRepo, invoicer, guard, notifier, cfg.PuntoVenta)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(productoSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	ventasH := handler.NewVentasHandler(ventaRepo, reversalSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	turnosH := handler.NewTurnosHandler(turnoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.POST("/checkout", checkoutH.FinalizarCompra)

		v1.GET("/ventas", ventasH.Listar)
		v1.GET("/ventas/totales", ventasH.Totales)
		v1.GET("/ventas/:id", ventasH.Obtener)
		v1.POST("/ventas/:id/nota-credito", ventasH.NotaCredito)
		v1.POST("/ventas/:id/devolucion", ventasH.Devolucion)

		v1.GET("/carrito", productosH.VerCarrito)
		v1.DELETE("/carrito", productosH.VaciarCarrito)
		v1.POST("/carrito/codigo/:codigo", productosH.AgregarPorCodigo)

		prods := v1.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.GET("", productosH.Listar)
			prods.GET("/stock-total", productosH.StockTotal)
			prods.GET("/codigo/:codigo", productosH.ObtenerPorCodigo)
			prods.GET("/:id", productosH.Obtener)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.PATCH("/:id/stock", productosH.AjustarStock)
			prods.PUT("/:id/favorito", productosH.MarcarFavorito)
			prods.POST("/:id/carrito", productosH.AgregarAlCarrito)
			prods.PUT("/:id/carrito", productosH.CambiarCantidad)
			prods.DELETE("/:id/carrito", productosH.QuitarDelCarrito)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/operaciones", cajaH.CrearOperacion)
			caja.GET("/operaciones", cajaH.Operaciones)
			caja.PUT("/operaciones/:id", cajaH.ActualizarOperacion)
			caja.GET("/tipos/:tipo", cajaH.PorTipo)
			caja.GET("/resumen", cajaH.Resumen)
		}

		turnos := v1.Group("/turnos")
		{
			turnos.POST("", turnosH.Crear)
			turnos.GET("", turnosH.Listar)
			turnos.GET("/ocupacion", turnosH.Ocupacion)
			turnos.PUT("/:id", turnosH.Actualizar)
			turnos.DELETE("/:id", turnosH.Eliminar)
			turnos.POST("/:id/cobrar", turnosH.Cobrar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
