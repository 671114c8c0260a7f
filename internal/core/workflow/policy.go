package workflow

import (
	"cardhub/internal/core/domain"
)

// Status represents the lifecycle status of a card request.
// The empty string is a draft: a request that has never been submitted.
type Status string

const (
	StatusDraft      Status = ""
	StatusReturned   Status = "returned"
	StatusSubmitted  Status = "submitted"
	StatusApproved   Status = "approved"
	StatusAssignCard Status = "assign_card"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
)

// afterSubmitStatuses are the statuses reached only after initial submission
// has been approved. Membership drives the read-only gate and most of the
// right-sidebar visibility rules.
var afterSubmitStatuses = map[Status]bool{
	StatusApproved:   true,
	StatusAssignCard: true,
	StatusShipped:    true,
	StatusCompleted:  true,
}

// AfterSubmit reports whether the status is past the approval gate
func AfterSubmit(s Status) bool {
	return afterSubmitStatuses[s]
}

// IsTerminal reports whether the status is final. Returned requests stay
// editable and can be resubmitted, so completed is the only terminal status.
func IsTerminal(s Status) bool {
	return s == StatusCompleted
}

// Editable reports whether stage data may still change: drafts, returned
// requests and submitted-but-not-yet-approved requests.
func Editable(s Status) bool {
	return !AfterSubmit(s)
}

// ReadOnly reports whether the viewer must see the stage forms disabled.
// Editing is permitted only to the original requester while the request has
// not moved past approval.
func ReadOnly(s Status, viewerID, createdBy uint) bool {
	return AfterSubmit(s) || viewerID != createdBy
}

// Action is a named lifecycle command
type Action string

const (
	ActionSubmit           Action = "submit"
	ActionApprove          Action = "approve"
	ActionReject           Action = "reject"
	ActionAssignCard       Action = "assign_card"
	ActionShip             Action = "ship"
	ActionCompleteShipment Action = "complete_shipment"
	ActionStopFulfillment  Action = "stop_fulfillment"
)

// Apply evaluates the transition table for one action against the current
// status, the actor's role and whether the request is for a physical card.
// It returns the next status, or domain.ErrForbidden when the role may not
// perform the action and domain.ErrInvalidStatusChange when the status does
// not admit it.
func Apply(current Status, action Action, role domain.Role, physicalCard bool) (Status, error) {
	if !roleAllows(action, role) {
		return current, domain.ErrForbidden
	}

	switch action {
	case ActionSubmit:
		if current == StatusDraft || current == StatusReturned {
			return StatusSubmitted, nil
		}
	case ActionApprove:
		if current == StatusSubmitted {
			return StatusApproved, nil
		}
	case ActionReject:
		if current == StatusSubmitted {
			return StatusReturned, nil
		}
	case ActionAssignCard:
		if current == StatusApproved {
			return StatusAssignCard, nil
		}
	case ActionShip:
		if current == StatusAssignCard && physicalCard {
			return StatusShipped, nil
		}
	case ActionCompleteShipment:
		if current == StatusShipped {
			return StatusCompleted, nil
		}
		// Mobile-only cards have nothing to ship and complete straight
		// from assignment.
		if current == StatusAssignCard && !physicalCard {
			return StatusCompleted, nil
		}
	case ActionStopFulfillment:
		// Fulfillment staff may short-circuit any in-flight request
		// after submission.
		if current == StatusSubmitted || current == StatusApproved ||
			current == StatusAssignCard || current == StatusShipped {
			return StatusCompleted, nil
		}
	}

	return current, domain.ErrInvalidStatusChange
}

// roleAllows maps each action to the roles that may perform it (§ actor
// column of the transition table)
func roleAllows(action Action, role domain.Role) bool {
	switch action {
	case ActionSubmit:
		return role == domain.RoleRequester
	case ActionApprove, ActionReject:
		return role.CanApprove()
	case ActionAssignCard, ActionShip, ActionCompleteShipment, ActionStopFulfillment:
		return role.CanFulfill()
	}
	return false
}

// ShipmentLeg is one address-level shipment entry: the fields whose presence
// decides whether the shipment can be closed out.
type ShipmentLeg struct {
	ShippingDate   string
	TrackingNumber string
}

// ShipmentComplete is the single rule behind the CompleteShipment command:
// every required leg carries both a shipping date and a tracking number.
func ShipmentComplete(legs []ShipmentLeg) bool {
	if len(legs) == 0 {
		return false
	}
	for _, leg := range legs {
		if leg.ShippingDate == "" || leg.TrackingNumber == "" {
			return false
		}
	}
	return true
}
