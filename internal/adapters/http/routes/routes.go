package routes

import (
	"cardhub/internal/adapters/http/handlers"
	"cardhub/internal/adapters/http/middleware"
	"cardhub/internal/core/domain"

	_ "cardhub/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Handlers bundles everything the router wires up
type Handlers struct {
	Auth        *handlers.AuthHandler
	CardRequest *handlers.CardRequestHandler
	Lookup      *handlers.LookupHandler
	Dashboard   *handlers.DashboardHandler
}

// Setup registers all routes
func Setup(app *fiber.App, h *Handlers, jwtSecret string) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "cardhub",
		})
	})

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Public auth routes
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)

	// Everything below requires a valid access token
	protected := api.Group("", middleware.AuthMiddleware(jwtSecret))

	protected.Get("/auth/profile", h.Auth.Profile)

	// Card request lifecycle
	requests := protected.Group("/card-requests")
	requests.Post("", h.CardRequest.Create)
	requests.Get("/status", h.CardRequest.List)
	requests.Post("/check-tracking-number", h.CardRequest.CheckTrackingNumber)
	requests.Get("/:id", h.CardRequest.Get)
	requests.Put("/:id", h.CardRequest.SaveStage)
	requests.Get("/:id/history", h.CardRequest.History)
	requests.Post("/:id/submit", h.CardRequest.Submit)

	// Approval is reserved for SMEs and managers
	requests.Post("/:id/approve",
		middleware.RoleMiddleware(domain.RoleSME, domain.RoleManager), h.CardRequest.Approve)
	requests.Post("/:id/reject",
		middleware.RoleMiddleware(domain.RoleSME, domain.RoleManager), h.CardRequest.Reject)

	// Fulfillment commands are SME-only
	fulfillment := middleware.RoleMiddleware(domain.RoleSME)
	requests.Post("/:id/assign-card", fulfillment, h.CardRequest.AssignCard)
	requests.Post("/:id/ship", fulfillment, h.CardRequest.Ship)
	requests.Post("/:id/complete-shipment", fulfillment, h.CardRequest.CompleteShipment)
	requests.Post("/:id/stop-fulfillment", fulfillment, h.CardRequest.StopFulfillment)

	// Master data lookups
	protected.Get("/partners", h.Lookup.Partners)
	protected.Get("/cards/list", h.Lookup.Cards)
	protected.Get("/cards/vault-count", h.Lookup.VaultCount)
	protected.Get("/issuers", h.Lookup.Issuers)
	protected.Get("/issuers/:id", h.Lookup.Issuer)
	protected.Get("/users/testers/:partner_id", h.Lookup.Testers)
	protected.Get("/test-cases/filter/terminal", h.Lookup.TestCases)

	// Dashboard
	protected.Get("/dashboard/fulfillment", h.Dashboard.Fulfillment)
}
