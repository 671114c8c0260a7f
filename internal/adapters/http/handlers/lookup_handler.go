package handlers

import (
	"errors"
	"strconv"

	"cardhub/internal/adapters/persistence/repositories"
	"cardhub/internal/core/domain"
	"cardhub/internal/core/services"
	"cardhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LookupHandler serves the master data endpoints behind the wizard dropdowns
type LookupHandler struct {
	lookupService *services.LookupService
}

// NewLookupHandler creates a new lookup handler
func NewLookupHandler(lookupService *services.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

// Partners godoc
// @Summary List active partners
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/partners [get]
func (h *LookupHandler) Partners(c *fiber.Ctx) error {
	partners, err := h.lookupService.Partners(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load partners")
	}
	return response.Success(c, "Partners", partners)
}

// Cards godoc
// @Summary List active card products
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/cards/list [get]
func (h *LookupHandler) Cards(c *fiber.Ctx) error {
	products, err := h.lookupService.CardProducts(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load card products")
	}
	return response.Success(c, "Card products", products)
}

// Issuers godoc
// @Summary List active issuers
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/issuers [get]
func (h *LookupHandler) Issuers(c *fiber.Ctx) error {
	issuers, err := h.lookupService.Issuers(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load issuers")
	}
	return response.Success(c, "Issuers", issuers)
}

// Issuer godoc
// @Summary Get an issuer
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Issuer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/issuers/{id} [get]
func (h *LookupHandler) Issuer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Invalid issuer ID")
	}

	issuer, err := h.lookupService.IssuerByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Issuer not found")
		}
		return response.InternalServerError(c, "Failed to load issuer")
	}
	return response.Success(c, "Issuer", issuer)
}

// Testers godoc
// @Summary List a partner's active testers
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Param partner_id path int true "Partner ID"
// @Success 200 {object} response.Response
// @Router /api/v1/users/testers/{partner_id} [get]
func (h *LookupHandler) Testers(c *fiber.Ctx) error {
	partnerID, err := strconv.ParseUint(c.Params("partner_id"), 10, 32)
	if err != nil || partnerID == 0 {
		return response.BadRequest(c, "Invalid partner ID")
	}

	testers, err := h.lookupService.TestersByPartner(c.Context(), uint(partnerID))
	if err != nil {
		return response.InternalServerError(c, "Failed to load testers")
	}
	return response.Success(c, "Testers", testers)
}

// TestCases godoc
// @Summary List test cases for a terminal type
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Param terminal_type query string true "Terminal type (Pos or Ecomm)"
// @Success 200 {object} response.Response
// @Router /api/v1/test-cases/filter/terminal [get]
func (h *LookupHandler) TestCases(c *fiber.Ctx) error {
	terminalType := c.Query("terminal_type")

	cases, err := h.lookupService.TestCasesByTerminal(c.Context(), terminalType)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "terminal_type must be Pos or Ecomm")
		}
		return response.InternalServerError(c, "Failed to load test cases")
	}
	return response.Success(c, "Test cases", cases)
}

// VaultCount godoc
// @Summary Count unassigned vault cards for a card profile
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Param product query string true "Card product"
// @Param special_feature query string false "Special feature"
// @Param issuer query string true "Issuer"
// @Param environment query int true "Environment"
// @Success 200 {object} response.Response
// @Router /api/v1/cards/vault-count [get]
func (h *LookupHandler) VaultCount(c *fiber.Ctx) error {
	env, _ := strconv.Atoi(c.Query("environment"))

	count, err := h.lookupService.VaultCount(c.Context(), repositories.VaultKey{
		Product:        c.Query("product"),
		SpecialFeature: c.Query("special_feature"),
		Issuer:         c.Query("issuer"),
		Environment:    env,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "product and issuer are required")
		}
		return response.InternalServerError(c, "Failed to count vault cards")
	}
	return response.Success(c, "Vault count", fiber.Map{
		"count": count,
	})
}
