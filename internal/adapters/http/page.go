package http

//go:generate templ generate

import (
	_ "embed"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

var (
	//go:embed static/bridge.js
	bridgeJS []byte

	//go:embed static/dashboard.css
	dashboardCSS []byte
)

const defaultDashboardTitle = "Georgia Transparency Dashboard"

// PageData is rendered into the dashboard shell page.
type PageData struct {
	Title string
	// Token is false when no map access token is configured; the page then
	// shows a notice above the map.
	Token bool
}

// DashboardPageHandler serves the dashboard shell.
func DashboardPageHandler(deps *Dependencies) fiber.Handler {
	data := PageData{
		Title: deps.Title,
		Token: deps.Map.AccessToken != "",
	}
	if data.Title == "" {
		data.Title = defaultDashboardTitle
	}
	return adaptor.HTTPHandler(templ.Handler(DashboardPage(data)))
}

// BridgeScriptHandler serves the browser side of the map session.
func BridgeScriptHandler() fiber.Handler {
	return staticAsset("js", bridgeJS)
}

// StylesheetHandler serves the dashboard stylesheet.
func StylesheetHandler() fiber.Handler {
	return staticAsset("css", dashboardCSS)
}

func staticAsset(ext string, body []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Type(ext, "utf-8")
		return c.Send(body)
	}
}
