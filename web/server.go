package web

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/modelitalytran/Ban-Ga/ledger"
	"github.com/modelitalytran/Ban-Ga/web/handlers"
	"github.com/modelitalytran/Ban-Ga/web/middleware"
)

// Server represents the web server
type Server struct {
	app *fiber.App
}

// NewServer creates a new Fiber server
func NewServer() *Server {
	app := fiber.New(fiber.Config{
		AppName: "Ban-Ga",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if ledger.IsValidation(err) {
				code = fiber.StatusBadRequest
			}

			log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))
	app.Use(middleware.SQLDebug())

	setupRoutes(app)

	return &Server{app: app}
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// Shutdown gracefully stops the server, draining in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App) {
	// Dashboard summary
	app.Get("/", handlers.Dashboard)

	// Debug endpoint for SQL logs
	app.Get("/api/debug/sql", handlers.GetSQLLogs)
	app.Delete("/api/debug/sql", handlers.ClearSQLLogs)

	// Product management
	products := app.Group("/products")
	products.Get("/", handlers.ProductList)
	products.Post("/", handlers.ProductCreate)
	products.Get("/:id", handlers.ProductView)
	products.Put("/:id", handlers.ProductUpdate)
	products.Delete("/:id", handlers.ProductDelete)
	products.Post("/:id/import", handlers.ProductImport)

	// Customer management
	customers := app.Group("/customers")
	customers.Get("/", handlers.CustomerList)
	customers.Post("/", handlers.CustomerCreate)
	customers.Get("/:id", handlers.CustomerView)
	customers.Put("/:id", handlers.CustomerUpdate)
	customers.Delete("/:id", handlers.CustomerDelete)

	// Sales operations
	sales := app.Group("/sales")
	sales.Get("/", handlers.SalesList)
	sales.Post("/", handlers.SalesCreate)
	sales.Get("/:id", handlers.SalesView)
	sales.Put("/:id", handlers.SalesEdit)

	// Debt tracking (order matters: specific routes before ":customer")
	debts := app.Group("/debts")
	debts.Get("/", handlers.DebtOverview)
	debts.Get("/aging", handlers.DebtAging)
	debts.Post("/orders/:id/payments", handlers.DebtCollect)
	debts.Get("/:customer", handlers.DebtByCustomer)
}
