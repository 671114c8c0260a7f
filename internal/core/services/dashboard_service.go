package services

import (
	"context"

	"cardhub/internal/adapters/persistence/repositories"
	"cardhub/internal/core/workflow"
)

// DashboardService aggregates fulfillment counters for the admin dashboard
type DashboardService struct {
	cardRequestRepo *repositories.CardRequestRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(cardRequestRepo *repositories.CardRequestRepository) *DashboardService {
	return &DashboardService{cardRequestRepo: cardRequestRepo}
}

// FulfillmentSummary is the per-status request count rollup
type FulfillmentSummary struct {
	Draft      int64 `json:"draft"`
	Returned   int64 `json:"returned"`
	Submitted  int64 `json:"submitted"`
	Approved   int64 `json:"approved"`
	AssignCard int64 `json:"assign_card"`
	Shipped    int64 `json:"shipped"`
	Completed  int64 `json:"completed"`
	InFlight   int64 `json:"in_flight"`
	Total      int64 `json:"total"`
}

// FulfillmentSummary returns request counts grouped by lifecycle status
func (s *DashboardService) FulfillmentSummary(ctx context.Context) (*FulfillmentSummary, error) {
	counts, err := s.cardRequestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	summary := &FulfillmentSummary{
		Draft:      counts[string(workflow.StatusDraft)],
		Returned:   counts[string(workflow.StatusReturned)],
		Submitted:  counts[string(workflow.StatusSubmitted)],
		Approved:   counts[string(workflow.StatusApproved)],
		AssignCard: counts[string(workflow.StatusAssignCard)],
		Shipped:    counts[string(workflow.StatusShipped)],
		Completed:  counts[string(workflow.StatusCompleted)],
	}

	summary.InFlight = summary.Submitted + summary.Approved + summary.AssignCard + summary.Shipped
	for _, c := range counts {
		summary.Total += c
	}

	return summary, nil
}
