package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"cardhub/internal/adapters/http/middleware"
	"cardhub/internal/adapters/persistence/repositories"
	"cardhub/internal/core/domain"
	"cardhub/internal/core/services"
	"cardhub/internal/core/workflow"
	"cardhub/internal/pkg/pagination"
	"cardhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CardRequestHandler handles the card request lifecycle endpoints
type CardRequestHandler struct {
	cardRequestService *services.CardRequestService
}

// NewCardRequestHandler creates a new card request handler
func NewCardRequestHandler(cardRequestService *services.CardRequestService) *CardRequestHandler {
	return &CardRequestHandler{cardRequestService: cardRequestService}
}

func (h *CardRequestHandler) actor(c *fiber.Ctx) *services.Actor {
	return &services.Actor{
		UserID: middleware.CurrentUserID(c),
		Role:   middleware.CurrentRole(c),
		IP:     c.IP(),
	}
}

func requestID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidInput
	}
	return uint(id), nil
}

// handleError maps service errors onto HTTP responses. Validation failures
// carry the first violation as the toast message and the full list as data.
func handleError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return response.ErrorWithData(c, fiber.StatusBadRequest, vErr.Error(), fiber.Map{
			"violations": vErr.Violations,
		})
	}

	switch {
	case errors.Is(err, domain.ErrRequestNotFound), errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Card request not found")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You are not allowed to perform this action")
	case errors.Is(err, domain.ErrRequestReadOnly):
		return response.Conflict(c, "Card request is read-only")
	case errors.Is(err, domain.ErrInvalidStatusChange):
		return response.Conflict(c, "The request's status does not allow this action")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid request")
	default:
		return response.InternalServerError(c, "Something went wrong")
	}
}

// Create godoc
// @Summary Create a card request
// @Description Creates a draft request from its first requestor-info save
// @Tags card-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateCardRequestInput true "Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/card-requests [post]
func (h *CardRequestHandler) Create(c *fiber.Ctx) error {
	var input services.CreateCardRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(input.ReqInfo) == 0 {
		return response.BadRequest(c, "submit_data is required")
	}

	req, err := h.cardRequestService.Create(c.Context(), h.actor(c), &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Card request created", req.ToResponse())
}

// Get godoc
// @Summary Get a card request
// @Description Returns the request with its derived step and action gating
// @Tags card-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/card-requests/{id} [get]
func (h *CardRequestHandler) Get(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	detail, err := h.cardRequestService.GetByID(c.Context(), id, h.actor(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Card request", detail)
}

// List godoc
// @Summary List card requests
// @Tags card-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param environment query int false "Environment filter"
// @Param terminal_type query string false "Terminal type filter"
// @Param mine query bool false "Only requests created by the caller"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /api/v1/card-requests/status [get]
func (h *CardRequestHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := &repositories.ListFilter{}
	if status := c.Query("status"); status != "" {
		// Drafts are stored with an empty status
		if status == "draft" {
			status = ""
		}
		filter.Status = &status
	}
	if env, err := strconv.Atoi(c.Query("environment")); err == nil {
		filter.Environment = &env
	}
	if tt := c.Query("terminal_type"); tt != "" {
		filter.TerminalType = &tt
	}
	if c.QueryBool("mine") {
		uid := middleware.CurrentUserID(c)
		filter.CreatedBy = &uid
	}

	requests, total, err := h.cardRequestService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Card requests", pagination.NewResponse(requests, params, total))
}

// SaveStageRequest is the stage save envelope: which column to replace and
// the payload that replaces it
type SaveStageRequest struct {
	Column     string          `json:"column"`
	SubmitData json.RawMessage `json:"submit_data"`
}

// SaveStage godoc
// @Summary Save one stage of a card request
// @Description Replaces the named stage column with the submitted payload
// @Tags card-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Param request body SaveStageRequest true "Stage payload"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/card-requests/{id} [put]
func (h *CardRequestHandler) SaveStage(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	var req SaveStageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Column == "" || len(req.SubmitData) == 0 {
		return response.BadRequest(c, "column and submit_data are required")
	}

	updated, err := h.cardRequestService.SaveStage(c.Context(), id, h.actor(c),
		workflow.Column(req.Column), req.SubmitData)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Stage saved", updated.ToResponse())
}

// SubmitRequest carries the submission acknowledgement
type SubmitRequest struct {
	IsChecked bool `json:"is_checked"`
}

// Submit godoc
// @Summary Submit a card request for approval
// @Tags card-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Param request body SubmitRequest true "Acknowledgement"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/card-requests/{id}/submit [post]
func (h *CardRequestHandler) Submit(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.cardRequestService.Submit(c.Context(), id, h.actor(c), req.IsChecked)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Card request submitted", updated.ToResponse())
}

// Approve godoc
// @Summary Approve a submitted card request
// @Tags card-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Success 200 {object} response.Response
// @Router /api/v1/card-requests/{id}/approve [post]
func (h *CardRequestHandler) Approve(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	updated, err := h.cardRequestService.Approve(c.Context(), id, h.actor(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Card request approved", updated.ToResponse())
}

// CommentRequest carries an optional or mandatory comment
type CommentRequest struct {
	Comment string `json:"comment"`
}

// Reject godoc
// @Summary Return a submitted card request for rework
// @Tags card-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Param request body CommentRequest false "Reviewer comment"
// @Success 200 {object} response.Response
// @Router /api/v1/card-requests/{id}/reject [post]
func (h *CardRequestHandler) Reject(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	var req CommentRequest
	_ = c.BodyParser(&req)

	updated, err := h.cardRequestService.Reject(c.Context(), id, h.actor(c), req.Comment)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Card request returned", updated.ToResponse())
}

// StagePayloadRequest carries a raw stage payload for a fulfillment command
type StagePayloadRequest struct {
	SubmitData json.RawMessage `json:"submit_data"`
}

// AssignCard godoc
// @Summary Assign a test card to an approved request
// @Tags card-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Param request body StagePayloadRequest true "Card assignment"
// @Success 200 {object} response.Response
// @Router /api/v1/card-requests/{id}/assign-card [post]
func (h *CardRequestHandler) AssignCard(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	var req StagePayloadRequest
	if err := c.BodyParser(&req); err != nil || len(req.SubmitData) == 0 {
		return response.BadRequest(c, "submit_data is required")
	}

	updated, err := h.cardRequestService.AssignCard(c.Context(), id, h.actor(c), req.SubmitData)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Card assigned", updated.ToResponse())
}

// Ship godoc
// @Summary Record shipment details and mark the request shipped
// @Tags card-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Param request body StagePayloadRequest true "Shipment details"
// @Success 200 {object} response.Response
// @Router /api/v1/card-requests/{id}/ship [post]
func (h *CardRequestHandler) Ship(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	var req StagePayloadRequest
	if err := c.BodyParser(&req); err != nil || len(req.SubmitData) == 0 {
		return response.BadRequest(c, "submit_data is required")
	}

	updated, err := h.cardRequestService.Ship(c.Context(), id, h.actor(c), req.SubmitData)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Shipment recorded", updated.ToResponse())
}

// CompleteShipment godoc
// @Summary Complete a card request
// @Description Closes out a shipped request, or an assigned mobile-only request
// @Tags card-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Success 200 {object} response.Response
// @Router /api/v1/card-requests/{id}/complete-shipment [post]
func (h *CardRequestHandler) CompleteShipment(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	updated, err := h.cardRequestService.CompleteShipment(c.Context(), id, h.actor(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Card request completed", updated.ToResponse())
}

// StopFulfillment godoc
// @Summary Stop fulfillment of an in-flight request
// @Tags card-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Param request body CommentRequest true "Reason"
// @Success 200 {object} response.Response
// @Router /api/v1/card-requests/{id}/stop-fulfillment [post]
func (h *CardRequestHandler) StopFulfillment(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.cardRequestService.StopFulfillment(c.Context(), id, h.actor(c), req.Comment)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Fulfillment stopped", updated.ToResponse())
}

// CheckTrackingRequest is the tracking-number usage probe payload. A single
// number or a list may be sent; both fields combine into one query.
type CheckTrackingRequest struct {
	CardRequestID   uint     `json:"card_request_id"`
	TrackingNumber  string   `json:"tracking_number"`
	TrackingNumbers []string `json:"tracking_numbers"`
}

// Numbers merges the single and list forms into one trimmed, deduplicated
// slice
func (r *CheckTrackingRequest) Numbers() []string {
	var numbers []string
	seen := make(map[string]bool)

	for _, n := range append([]string{r.TrackingNumber}, r.TrackingNumbers...) {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers
}

// CheckTrackingNumber godoc
// @Summary Count how many other shipments reuse the given tracking numbers
// @Tags card-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckTrackingRequest true "Tracking numbers"
// @Success 200 {object} response.Response
// @Router /api/v1/card-requests/check-tracking-number [post]
func (h *CardRequestHandler) CheckTrackingNumber(c *fiber.Ctx) error {
	var req CheckTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	numbers := req.Numbers()
	if len(numbers) == 0 {
		return response.BadRequest(c, "tracking_number or tracking_numbers is required")
	}

	counts, err := h.cardRequestService.CheckTrackingNumbers(c.Context(), req.CardRequestID, numbers)
	if err != nil {
		return handleError(c, err)
	}

	duplicate := false
	for _, count := range counts {
		if count > 0 {
			duplicate = true
			break
		}
	}

	return response.Success(c, "Tracking numbers checked", fiber.Map{
		"usage_counts": counts,
		"is_duplicate": duplicate,
	})
}

// History godoc
// @Summary Audit trail of a card request
// @Tags card-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card request ID"
// @Success 200 {object} response.Response
// @Router /api/v1/card-requests/{id}/history [get]
func (h *CardRequestHandler) History(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card request ID")
	}

	history, err := h.cardRequestService.GetHistory(c.Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "History", history)
}
