package server

import (
	"library-management-be/internal/bootstrap"
	"library-management-be/internal/config"
	"library-management-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	app := fiber.New(fiber.Config{
		BodyLimit:   1 * 1024 * 1024,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		// errors that escape the middleware below (404 routes, panics)
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return serverutils.WriteError(ctx, container.Logger, err)
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("SERVER", "Listening", map[string]interface{}{"port": s.cfg.App.Port})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")
	jwt := c.JwtMiddleware

	c.AuthController.RegisterRoutes(api, jwt)
	c.OAuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api, jwt)

	c.BookController.RegisterRoutes(api, jwt)
	c.CategoryController.RegisterRoutes(api, jwt)
	c.ReportController.RegisterRoutes(api, jwt)
	c.AdminController.RegisterRoutes(api, jwt)

	c.NotificationHandler.RegisterRoutes(api, jwt)
}
