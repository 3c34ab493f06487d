package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"

	"rosterdesk/app/config"
	"rosterdesk/app/gateway"
	"rosterdesk/app/routes/students"
	"rosterdesk/app/routes/summary"
)

// errorHandler renders failures that escape the handlers. API requests get a
// JSON envelope; everything else gets an error page.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if strings.HasPrefix(c.Path(), "/api") {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"code":    code,
		})
	}

	switch code {
	case fiber.StatusNotFound:
		return c.Status(code).Render("404", fiber.Map{
			"Title":       "Not Found - RosterDesk",
			"CurrentPage": "",
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - RosterDesk",
			"CurrentPage":  "",
			"ErrorTitle":   "Something went wrong",
			"ErrorMessage": err.Error(),
			"ShowRetry":    true,
		})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("loading configuration: %v", err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})

	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New())

	gw := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayTimeout)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/students")
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "app": "rosterdesk"})
	})

	students.Setup(app, students.NewHandler(gw, log))
	summary.Setup(app, summary.NewHandler(gw, log))

	// Shut down cleanly on SIGINT/SIGTERM so in-flight renders finish.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		_ = app.Shutdown()
	}()

	log.WithFields(logrus.Fields{
		"addr":    cfg.ListenAddr,
		"gateway": cfg.GatewayBaseURL,
	}).Info("starting rosterdesk")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
