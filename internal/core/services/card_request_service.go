package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cardhub/internal/adapters/persistence/models"
	"cardhub/internal/adapters/persistence/repositories"
	"cardhub/internal/core/domain"
	"cardhub/internal/core/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValidationError carries the full violation list of a rejected save or
// command. The first violation is the toast message; the rest ride along in
// the response data.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return FirstMessage(e.Violations)
}

// Actor identifies who is performing an operation
type Actor struct {
	UserID uint
	Role   domain.Role
	IP     string
}

// CardRequestService owns the card request lifecycle: stage saves, the
// status machine and the audit trail behind both.
type CardRequestService struct {
	cardRequestRepo *repositories.CardRequestRepository
	transactionRepo *repositories.TransactionRepository
	vaultRepo       *repositories.VaultRepository
	notification    *NotificationService
}

// NewCardRequestService creates a new card request service
func NewCardRequestService(
	cardRequestRepo *repositories.CardRequestRepository,
	transactionRepo *repositories.TransactionRepository,
	vaultRepo *repositories.VaultRepository,
	notification *NotificationService,
) *CardRequestService {
	return &CardRequestService{
		cardRequestRepo: cardRequestRepo,
		transactionRepo: transactionRepo,
		vaultRepo:       vaultRepo,
		notification:    notification,
	}
}

// CardRequestDetail is the per-request view the console renders from: the
// row itself plus every derived gating flag, recomputed on each fetch.
type CardRequestDetail struct {
	*models.CardRequestResponse
	ReadOnly     bool                             `json:"read_only"`
	Availability workflow.Availability            `json:"availability"`
	Steps        []workflow.StepState             `json:"steps"`
	Actions      []workflow.ActionState           `json:"actions"`
	History      []*models.CardRequestTransaction `json:"history,omitempty"`
}

// CreateCardRequestInput is the payload for creating a request. A request is
// created by its first requestor-info save.
type CreateCardRequestInput struct {
	Environment  int             `json:"environment"`
	TerminalType string          `json:"terminal_type"`
	ReqInfo      json.RawMessage `json:"submit_data"`
}

func generateRequestNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TCR-%s-%s", time.Now().Format("20060102"), suffix)
}

// Create creates a new draft card request from its first requestor-info save
func (s *CardRequestService) Create(ctx context.Context, actor *Actor, input *CreateCardRequestInput) (*models.CardRequest, error) {
	env := domain.Environment(input.Environment)
	if env != domain.EnvProd && env != domain.EnvQA && env != domain.EnvCert {
		return nil, domain.ErrInvalidInput
	}
	if input.TerminalType != domain.TerminalPos && input.TerminalType != domain.TerminalEcomm {
		return nil, domain.ErrInvalidInput
	}

	payload, err := models.DecodeStage(workflow.ColumnReqInfo, input.ReqInfo)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if violations := ValidateStage(workflow.ColumnReqInfo, payload, 0); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	raw := string(input.ReqInfo)
	req := &models.CardRequest{
		RequestNumberID: generateRequestNumber(),
		Status:          string(workflow.StatusDraft),
		Environment:     input.Environment,
		TerminalType:    input.TerminalType,
		CreatedBy:       actor.UserID,
		ReqInfo:         &raw,
	}

	if err := s.cardRequestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.audit(ctx, req.ID, models.TxActionCreate, string(workflow.ColumnReqInfo), "", req.Status,
		"Card request created", actor)

	return req, nil
}

// GetByID returns a request with its derived flags for the given viewer
func (s *CardRequestService) GetByID(ctx context.Context, id uint, actor *Actor) (*CardRequestDetail, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := req.Snapshot()

	history, err := s.transactionRepo.GetByCardRequestID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CardRequestDetail{
		CardRequestResponse: req.ToResponse(),
		ReadOnly:            workflow.ReadOnly(snapshot.Status, actor.UserID, req.CreatedBy),
		Availability:        workflow.Derive(snapshot),
		Steps:               workflow.LeftSteps(snapshot),
		Actions:             workflow.RightActions(snapshot, actor.Role),
		History:             history,
	}, nil
}

// List lists card requests with filters and pagination
func (s *CardRequestService) List(ctx context.Context, filter *repositories.ListFilter, offset, limit int) ([]*models.CardRequestResponse, int64, error) {
	requests, total, err := s.cardRequestRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.CardRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, r.ToResponse())
	}
	return responses, total, nil
}

// SaveStage replaces one stage column with the submitted payload. The raw
// JSON is stored verbatim after it decodes and validates; saves never merge.
func (s *CardRequestService) SaveStage(ctx context.Context, id uint, actor *Actor, column workflow.Column, raw json.RawMessage) (*models.CardRequest, error) {
	// The stop-fulfillment comment is written by its command, not by a
	// stage save.
	if column == workflow.ColumnStopFulfillmentComment {
		return nil, domain.ErrInvalidInput
	}

	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	status := workflow.Status(req.Status)
	fulfillmentColumn := column == workflow.ColumnUserCardInfo || column == workflow.ColumnShipmentInfo

	if fulfillmentColumn {
		// Fulfillment columns are written through their commands; direct
		// saves only update an already-open stage.
		if !actor.Role.CanFulfill() {
			return nil, domain.ErrForbidden
		}
		if workflow.IsTerminal(status) {
			return nil, domain.ErrRequestReadOnly
		}
	} else if workflow.ReadOnly(status, actor.UserID, req.CreatedBy) {
		return nil, domain.ErrRequestReadOnly
	}

	payload, err := models.DecodeStage(column, raw)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	vaultCount := 0
	if column == workflow.ColumnTesterDetails {
		td := payload.(*models.TesterDetails)
		count, err := s.vaultRepo.CountAvailable(ctx, repositories.VaultKey{
			Product:        td.Product,
			SpecialFeature: td.SpecialFeature,
			Issuer:         td.Issuer,
			Environment:    req.Environment,
		})
		if err != nil {
			return nil, err
		}
		vaultCount = int(count)
	}

	if violations := ValidateStage(column, payload, vaultCount); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if err := s.cardRequestRepo.UpdateColumn(ctx, id, string(column), string(raw)); err != nil {
		return nil, err
	}
	if err := req.SetStage(column, string(raw)); err != nil {
		return nil, err
	}

	s.audit(ctx, id, models.TxActionStageSave, string(column), req.Status, req.Status,
		fmt.Sprintf("Saved %s", column), actor)

	return req, nil
}

// Submit moves a draft or returned request to submitted
func (s *CardRequestService) Submit(ctx context.Context, id uint, actor *Actor, isChecked bool) (*models.CardRequest, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only the requester who owns the request may submit it
	if actor.UserID != req.CreatedBy {
		return nil, domain.ErrForbidden
	}

	if violations := ValidateSubmit(req, isChecked); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	return s.transition(ctx, req, workflow.ActionSubmit, actor, models.TxActionSubmit, "Request submitted for approval", func(r *models.CardRequest) {
		s.notification.NotifyApprovers(ctx, &r.ID, "Card request submitted",
			fmt.Sprintf("Request %s is awaiting approval", r.RequestNumberID))
	})
}

// Approve moves a submitted request to approved
func (s *CardRequestService) Approve(ctx context.Context, id uint, actor *Actor) (*models.CardRequest, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, req, workflow.ActionApprove, actor, models.TxActionApprove, "Request approved", func(r *models.CardRequest) {
		s.notification.Notify(ctx, r.CreatedBy, &r.ID, "Card request approved",
			fmt.Sprintf("Request %s has been approved", r.RequestNumberID))
	})
}

// Reject returns a submitted request to its requester for rework
func (s *CardRequestService) Reject(ctx context.Context, id uint, actor *Actor, comment string) (*models.CardRequest, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	description := "Request returned"
	if strings.TrimSpace(comment) != "" {
		description = "Request returned: " + comment
	}

	return s.transition(ctx, req, workflow.ActionReject, actor, models.TxActionReject, description, func(r *models.CardRequest) {
		s.notification.Notify(ctx, r.CreatedBy, &r.ID, "Card request returned",
			fmt.Sprintf("Request %s was returned for changes", r.RequestNumberID))
	})
}

// AssignCard records the card assignment and moves an approved request to
// assign_card. Re-running it on an assign_card request just updates the
// assignment.
func (s *CardRequestService) AssignCard(ctx context.Context, id uint, actor *Actor, raw json.RawMessage) (*models.CardRequest, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanFulfill() {
		return nil, domain.ErrForbidden
	}

	payload, err := models.DecodeStage(workflow.ColumnUserCardInfo, raw)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if violations := ValidateStage(workflow.ColumnUserCardInfo, payload, 0); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	status := workflow.Status(req.Status)
	if status != workflow.StatusApproved && status != workflow.StatusAssignCard {
		return nil, domain.ErrInvalidStatusChange
	}

	if err := s.cardRequestRepo.UpdateColumn(ctx, id, string(workflow.ColumnUserCardInfo), string(raw)); err != nil {
		return nil, err
	}
	_ = req.SetStage(workflow.ColumnUserCardInfo, string(raw))

	if status == workflow.StatusApproved {
		return s.transition(ctx, req, workflow.ActionAssignCard, actor, models.TxActionAssignCard, "Card assigned", func(r *models.CardRequest) {
			s.notification.Notify(ctx, r.CreatedBy, &r.ID, "Card assigned",
				fmt.Sprintf("A test card was assigned to request %s", r.RequestNumberID))
		})
	}

	s.audit(ctx, id, models.TxActionAssignCard, string(workflow.ColumnUserCardInfo),
		req.Status, req.Status, "Card assignment updated", actor)
	return req, nil
}

// Ship records shipment legs and moves the request to shipped. Legs are
// saved incrementally, so shipping an already-shipped request just updates
// them. Cert requests have no card-assignment stage and ship straight from
// approved.
func (s *CardRequestService) Ship(ctx context.Context, id uint, actor *Actor, raw json.RawMessage) (*models.CardRequest, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanFulfill() {
		return nil, domain.ErrForbidden
	}

	snapshot := req.Snapshot()
	if !snapshot.PhysicalCard {
		return nil, domain.ErrInvalidStatusChange
	}

	payload, err := models.DecodeStage(workflow.ColumnShipmentInfo, raw)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if violations := ValidateStage(workflow.ColumnShipmentInfo, payload, 0); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	status := workflow.Status(req.Status)
	certDirect := domain.Environment(req.Environment) == domain.EnvCert && status == workflow.StatusApproved

	if status != workflow.StatusAssignCard && status != workflow.StatusShipped && !certDirect {
		return nil, domain.ErrInvalidStatusChange
	}

	if err := s.cardRequestRepo.UpdateColumn(ctx, id, string(workflow.ColumnShipmentInfo), string(raw)); err != nil {
		return nil, err
	}
	_ = req.SetStage(workflow.ColumnShipmentInfo, string(raw))

	if status == workflow.StatusShipped {
		s.audit(ctx, id, models.TxActionShip, string(workflow.ColumnShipmentInfo),
			req.Status, req.Status, "Shipment details updated", actor)
		return req, nil
	}

	from := req.Status
	req.Status = string(workflow.StatusShipped)
	if err := s.cardRequestRepo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}

	s.audit(ctx, id, models.TxActionShip, string(workflow.ColumnShipmentInfo),
		from, req.Status, "Cards shipped", actor)
	s.notification.Notify(ctx, req.CreatedBy, &req.ID, "Cards shipped",
		fmt.Sprintf("Cards for request %s are on their way", req.RequestNumberID))

	return req, nil
}

// CompleteShipment closes out the request. Physical-card requests require
// every shipment leg to carry a shipping date and tracking number;
// mobile-only requests complete straight from card assignment.
func (s *CardRequestService) CompleteShipment(ctx context.Context, id uint, actor *Actor) (*models.CardRequest, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := req.Snapshot()
	if snapshot.PhysicalCard && workflow.Status(req.Status) == workflow.StatusShipped {
		si := req.ParsedShipmentInfo()
		if si == nil || !workflow.ShipmentComplete(si.WorkflowLegs()) {
			return nil, &ValidationError{Violations: []Violation{{
				Field:   "legs",
				Message: "Every shipment needs a shipping date and tracking number before completing",
			}}}
		}
	}

	return s.transition(ctx, req, workflow.ActionCompleteShipment, actor, models.TxActionCompleteShip, "Request completed", func(r *models.CardRequest) {
		s.notification.Notify(ctx, r.CreatedBy, &r.ID, "Card request completed",
			fmt.Sprintf("Request %s is complete", r.RequestNumberID))
	})
}

// StopFulfillment short-circuits an in-flight request to completed with a
// mandatory comment
func (s *CardRequestService) StopFulfillment(ctx context.Context, id uint, actor *Actor, comment string) (*models.CardRequest, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if violations := ValidateStopComment(comment); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	snapshot := req.Snapshot()
	from := workflow.Status(req.Status)

	next, err := workflow.Apply(from, workflow.ActionStopFulfillment, actor.Role, snapshot.PhysicalCard)
	if err != nil {
		return nil, err
	}

	if err := s.cardRequestRepo.UpdateColumn(ctx, id, string(workflow.ColumnStopFulfillmentComment), comment); err != nil {
		return nil, err
	}
	_ = req.SetStage(workflow.ColumnStopFulfillmentComment, comment)

	req.Status = string(next)
	if err := s.cardRequestRepo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}

	s.audit(ctx, id, models.TxActionStopFulfillment, string(workflow.ColumnStopFulfillmentComment),
		string(from), req.Status, comment, actor)
	s.notification.Notify(ctx, req.CreatedBy, &req.ID, "Fulfillment stopped",
		fmt.Sprintf("Fulfillment of request %s was stopped: %s", req.RequestNumberID, comment))

	return req, nil
}

// CheckTrackingNumbers counts, per tracking number, how many other requests
// already reference it in their shipment info
func (s *CardRequestService) CheckTrackingNumbers(ctx context.Context, id uint, trackingNumbers []string) (map[string]int64, error) {
	if len(trackingNumbers) == 0 {
		return nil, domain.ErrInvalidInput
	}

	counts := make(map[string]int64, len(trackingNumbers))
	for _, number := range trackingNumbers {
		number = strings.TrimSpace(number)
		if number == "" {
			return nil, domain.ErrInvalidInput
		}
		if _, ok := counts[number]; ok {
			continue
		}
		count, err := s.cardRequestRepo.CountTrackingNumberUsage(ctx, number, id)
		if err != nil {
			return nil, err
		}
		counts[number] = count
	}
	return counts, nil
}

// GetHistory returns the audit trail of a request
func (s *CardRequestService) GetHistory(ctx context.Context, id uint) ([]*models.CardRequestTransaction, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByCardRequestID(ctx, id)
}

func (s *CardRequestService) get(ctx context.Context, id uint) (*models.CardRequest, error) {
	req, err := s.cardRequestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// transition runs one policy action end to end: evaluate, persist, audit,
// notify
func (s *CardRequestService) transition(
	ctx context.Context,
	req *models.CardRequest,
	action workflow.Action,
	actor *Actor,
	txAction, description string,
	notify func(*models.CardRequest),
) (*models.CardRequest, error) {
	snapshot := req.Snapshot()
	from := workflow.Status(req.Status)

	next, err := workflow.Apply(from, action, actor.Role, snapshot.PhysicalCard)
	if err != nil {
		return nil, err
	}

	req.Status = string(next)
	if err := s.cardRequestRepo.UpdateStatus(ctx, req.ID, req.Status); err != nil {
		return nil, err
	}

	s.audit(ctx, req.ID, txAction, "", string(from), req.Status, description, actor)
	if notify != nil {
		notify(req)
	}

	return req, nil
}

func (s *CardRequestService) audit(ctx context.Context, requestID uint, action, column, from, to, description string, actor *Actor) {
	tx := &models.CardRequestTransaction{
		CardRequestID: requestID,
		Action:        action,
		Column:        column,
		FromStatus:    from,
		ToStatus:      to,
		Description:   description,
		PerformedBy:   actor.UserID,
		IPAddress:     actor.IP,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		// The audit trail is best-effort; a failed write must not undo the
		// state change it records.
		log.Printf("⚠️ Failed to record transaction for request %d: %v", requestID, err)
	}
}
