package http

import (
	"os"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// DocsSettings names the API in Swagger UI and locates the OpenAPI
// document. SpecPath is relative to the server's working directory.
type DocsSettings struct {
	Title    string
	SpecPath string
}

func (s DocsSettings) withDefaults() DocsSettings {
	if s.Title == "" {
		s.Title = "Geodash API"
	}
	if s.SpecPath == "" {
		s.SpecPath = "api/openapi.yaml"
	}
	return s
}

// SetupDocs registers Swagger UI at /docs and the raw OpenAPI document at /docs/openapi.yaml.
func SetupDocs(app *fiber.App, settings DocsSettings) {
	settings = settings.withDefaults()

	app.Get("/docs", adaptor.HTTPHandler(templ.Handler(DocsPage(settings.Title))))

	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		data, err := os.ReadFile(settings.SpecPath)
		if err != nil {
			return errNotFound(c, "openapi.yaml not found")
		}
		c.Set("Content-Type", "application/yaml")
		return c.Send(data)
	})
}
