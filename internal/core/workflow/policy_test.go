package workflow

import (
	"testing"

	"cardhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOnlyGate(t *testing.T) {
	const creator, other = uint(7), uint(9)

	// Pre-approval statuses stay editable for the creator only
	for _, s := range []Status{StatusDraft, StatusReturned, StatusSubmitted} {
		assert.False(t, ReadOnly(s, creator, creator), "creator should edit %q", s)
		assert.True(t, ReadOnly(s, other, creator), "non-creator must not edit %q", s)
	}

	// Past approval nobody edits, creator included
	for _, s := range []Status{StatusApproved, StatusAssignCard, StatusShipped, StatusCompleted} {
		assert.True(t, ReadOnly(s, creator, creator), "%q must be read-only", s)
		assert.True(t, ReadOnly(s, other, creator), "%q must be read-only", s)
	}
}

func TestAfterSubmitMembership(t *testing.T) {
	assert.False(t, AfterSubmit(StatusDraft))
	assert.False(t, AfterSubmit(StatusReturned))
	assert.False(t, AfterSubmit(StatusSubmitted))
	assert.True(t, AfterSubmit(StatusApproved))
	assert.True(t, AfterSubmit(StatusAssignCard))
	assert.True(t, AfterSubmit(StatusShipped))
	assert.True(t, AfterSubmit(StatusCompleted))
}

func TestApplyHappyPath(t *testing.T) {
	next, err := Apply(StatusDraft, ActionSubmit, domain.RoleRequester, true)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, next)

	next, err = Apply(StatusSubmitted, ActionApprove, domain.RoleManager, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, next)

	next, err = Apply(StatusApproved, ActionAssignCard, domain.RoleSME, true)
	require.NoError(t, err)
	assert.Equal(t, StatusAssignCard, next)

	next, err = Apply(StatusAssignCard, ActionShip, domain.RoleSME, true)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, next)

	next, err = Apply(StatusShipped, ActionCompleteShipment, domain.RoleSME, true)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, next)
}

func TestApplyRejectReturnsToEditable(t *testing.T) {
	next, err := Apply(StatusSubmitted, ActionReject, domain.RoleSME, true)
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, next)

	// A returned request can be resubmitted by the requester
	next, err = Apply(StatusReturned, ActionSubmit, domain.RoleRequester, true)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, next)
}

func TestApplyMobileShortcut(t *testing.T) {
	// Mobile-only cards skip shipping: assignment completes directly
	next, err := Apply(StatusAssignCard, ActionCompleteShipment, domain.RoleSME, false)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, next)

	// Physical cards must ship first
	_, err = Apply(StatusAssignCard, ActionCompleteShipment, domain.RoleSME, true)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusChange)

	// Shipping a mobile-only card is not a thing
	_, err = Apply(StatusAssignCard, ActionShip, domain.RoleSME, false)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusChange)
}

func TestApplyStopFulfillment(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusApproved, StatusAssignCard, StatusShipped} {
		next, err := Apply(s, ActionStopFulfillment, domain.RoleSME, true)
		require.NoError(t, err, "stop fulfillment from %q", s)
		assert.Equal(t, StatusCompleted, next)
	}

	for _, s := range []Status{StatusDraft, StatusReturned, StatusCompleted} {
		_, err := Apply(s, ActionStopFulfillment, domain.RoleSME, true)
		assert.ErrorIs(t, err, domain.ErrInvalidStatusChange, "stop fulfillment from %q", s)
	}
}

func TestApplyRoleGates(t *testing.T) {
	// Only the requester submits
	_, err := Apply(StatusDraft, ActionSubmit, domain.RoleSME, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// View-only users perform nothing
	for _, a := range []Action{ActionSubmit, ActionApprove, ActionReject, ActionAssignCard, ActionShip, ActionCompleteShipment, ActionStopFulfillment} {
		_, err := Apply(StatusSubmitted, a, domain.RoleViewOnly, true)
		assert.ErrorIs(t, err, domain.ErrForbidden, "action %q", a)
	}

	// Managers approve but do not fulfill
	_, err = Apply(StatusApproved, ActionAssignCard, domain.RoleManager, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApplyInvalidTransitions(t *testing.T) {
	_, err := Apply(StatusSubmitted, ActionSubmit, domain.RoleRequester, true)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusChange)

	_, err = Apply(StatusDraft, ActionApprove, domain.RoleManager, true)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusChange)

	_, err = Apply(StatusCompleted, ActionApprove, domain.RoleManager, true)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusChange)

	_, err = Apply(StatusApproved, ActionShip, domain.RoleSME, true)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusChange)
}

func TestShipmentComplete(t *testing.T) {
	assert.False(t, ShipmentComplete(nil))
	assert.False(t, ShipmentComplete([]ShipmentLeg{}))

	assert.True(t, ShipmentComplete([]ShipmentLeg{
		{ShippingDate: "2025-04-01", TrackingNumber: "1Z999"},
	}))

	assert.False(t, ShipmentComplete([]ShipmentLeg{
		{ShippingDate: "2025-04-01", TrackingNumber: "1Z999"},
		{ShippingDate: "", TrackingNumber: "1Z998"},
	}))

	assert.False(t, ShipmentComplete([]ShipmentLeg{
		{ShippingDate: "2025-04-01", TrackingNumber: ""},
	}))
}
