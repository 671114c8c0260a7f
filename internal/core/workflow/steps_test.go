package workflow

import (
	"testing"

	"cardhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepByID(t *testing.T, steps []StepState, id Step) StepState {
	t.Helper()
	for _, s := range steps {
		if s.Step == id {
			return s
		}
	}
	t.Fatalf("step %d not present", id)
	return StepState{}
}

func actionByID(t *testing.T, actions []ActionState, id Step) ActionState {
	t.Helper()
	for _, a := range actions {
		if a.Step == id {
			return a
		}
	}
	t.Fatalf("action %d not present", id)
	return ActionState{}
}

func TestDeriveTerminalInfoNeverAvailableForEcommOrCert(t *testing.T) {
	base := Snapshot{
		Status:       StatusDraft,
		TerminalType: domain.TerminalPos,
		Environment:  domain.EnvProd,
		HasReqInfo:   true,
		HasTestInfo:  true,
	}

	require.True(t, Derive(base).TerminalInfo)

	ecomm := base
	ecomm.TerminalType = domain.TerminalEcomm
	assert.False(t, Derive(ecomm).TerminalInfo)

	cert := base
	cert.Environment = domain.EnvCert
	assert.False(t, Derive(cert).TerminalInfo)
}

func TestDeriveShipmentForcing(t *testing.T) {
	s := Snapshot{
		Status:       StatusAssignCard,
		TerminalType: domain.TerminalPos,
		Environment:  domain.EnvProd,
		PhysicalCard: true,
	}
	// No shipment info yet, but assign_card + Pos forces the flag on
	assert.True(t, Derive(s).Shipment)

	s.Status = StatusShipped
	assert.True(t, Derive(s).Shipment)

	// Ecomm terminals never ship
	s.TerminalType = domain.TerminalEcomm
	assert.False(t, Derive(s).Shipment)

	// Mobile-only cards never ship either, even with data present
	s.TerminalType = domain.TerminalPos
	s.PhysicalCard = false
	s.HasShipmentInfo = true
	assert.False(t, Derive(s).Shipment)
}

func TestLeftStepsFreshProdPosRequest(t *testing.T) {
	// environment=Prod, terminalType=Pos, nothing saved yet: only
	// Requestor Info is enabled.
	s := Snapshot{
		Status:       StatusDraft,
		Environment:  domain.EnvProd,
		TerminalType: domain.TerminalPos,
		PhysicalCard: true,
	}
	steps := LeftSteps(s)

	assert.True(t, stepByID(t, steps, StepRequestorInfo).Enabled)
	assert.False(t, stepByID(t, steps, StepTestInfo).Enabled)
	assert.False(t, stepByID(t, steps, StepTerminalInfo).Enabled)
	assert.False(t, stepByID(t, steps, StepTesterDetails).Enabled)
	assert.False(t, stepByID(t, steps, StepShipping).Enabled)
}

func TestLeftStepsUnlockInOrder(t *testing.T) {
	s := Snapshot{
		Status:       StatusDraft,
		Environment:  domain.EnvProd,
		TerminalType: domain.TerminalPos,
		PhysicalCard: true,
		HasReqInfo:   true,
	}
	steps := LeftSteps(s)
	assert.True(t, stepByID(t, steps, StepTestInfo).Enabled)
	assert.False(t, stepByID(t, steps, StepTerminalInfo).Enabled)

	s.HasTestInfo = true
	steps = LeftSteps(s)
	assert.True(t, stepByID(t, steps, StepTerminalInfo).Enabled)
	// Tester details still wait on terminal info in the Pos branch
	assert.False(t, stepByID(t, steps, StepTesterDetails).Enabled)

	s.HasTermInfo = true
	steps = LeftSteps(s)
	assert.True(t, stepByID(t, steps, StepTesterDetails).Enabled)
}

func TestLeftStepsTerminalBranchDisabled(t *testing.T) {
	// Cert environment: Terminal Details is hidden and Tester Details
	// gates on test info directly.
	s := Snapshot{
		Status:       StatusDraft,
		Environment:  domain.EnvCert,
		TerminalType: domain.TerminalPos,
		HasReqInfo:   true,
		HasTestInfo:  true,
	}
	steps := LeftSteps(s)
	term := stepByID(t, steps, StepTerminalInfo)
	assert.False(t, term.Visible)
	assert.False(t, term.Enabled)
	assert.True(t, stepByID(t, steps, StepTesterDetails).Enabled)

	// Same for Ecomm terminals in any environment
	s.Environment = domain.EnvProd
	s.TerminalType = domain.TerminalEcomm
	steps = LeftSteps(s)
	assert.False(t, stepByID(t, steps, StepTerminalInfo).Visible)
	assert.True(t, stepByID(t, steps, StepTesterDetails).Enabled)
}

func TestLeftStepsShippingHiddenForMobileCard(t *testing.T) {
	s := Snapshot{
		Status:           StatusApproved,
		Environment:      domain.EnvProd,
		TerminalType:     domain.TerminalPos,
		PhysicalCard:     false,
		HasReqInfo:       true,
		HasTestInfo:      true,
		HasTermInfo:      true,
		HasTesterDetails: true,
	}
	shipping := stepByID(t, LeftSteps(s), StepShipping)
	assert.False(t, shipping.Visible)
	assert.False(t, shipping.Enabled)
}

func TestRightActionsApprovalTab(t *testing.T) {
	s := Snapshot{Status: StatusSubmitted, Environment: domain.EnvProd, TerminalType: domain.TerminalPos, PhysicalCard: true}

	assert.True(t, actionByID(t, RightActions(s, domain.RoleManager), StepApproval).Visible)
	assert.True(t, actionByID(t, RightActions(s, domain.RoleSME), StepApproval).Visible)
	assert.False(t, actionByID(t, RightActions(s, domain.RoleRequester), StepApproval).Visible)

	// Approval tab disappears once the request moves past submission
	s.Status = StatusApproved
	assert.False(t, actionByID(t, RightActions(s, domain.RoleManager), StepApproval).Visible)
}

func TestRightActionsMobileOnlyApproved(t *testing.T) {
	// status=approved, mobile-only card: Assign Card shows, Ship Card does not
	s := Snapshot{
		Status:       StatusApproved,
		Environment:  domain.EnvProd,
		TerminalType: domain.TerminalPos,
		PhysicalCard: false,
	}
	actions := RightActions(s, domain.RoleSME)
	assert.True(t, actionByID(t, actions, StepCardAssignment).Visible)
	assert.False(t, actionByID(t, actions, StepShipCard).Visible)
}

func TestRightActionsShipCard(t *testing.T) {
	s := Snapshot{
		Status:       StatusAssignCard,
		Environment:  domain.EnvProd,
		TerminalType: domain.TerminalPos,
		PhysicalCard: true,
	}
	assert.True(t, actionByID(t, RightActions(s, domain.RoleSME), StepShipCard).Visible)

	// Cert environment shows Ship Card already at approved
	s.Status = StatusApproved
	s.Environment = domain.EnvCert
	assert.True(t, actionByID(t, RightActions(s, domain.RoleSME), StepShipCard).Visible)

	// But Assign Card is never offered in Cert
	assert.False(t, actionByID(t, RightActions(s, domain.RoleSME), StepCardAssignment).Visible)
}

func TestRightActionsStopFulfillmentWindow(t *testing.T) {
	s := Snapshot{Environment: domain.EnvProd, TerminalType: domain.TerminalPos, PhysicalCard: true}

	for _, status := range []Status{StatusSubmitted, StatusApproved, StatusAssignCard, StatusShipped} {
		s.Status = status
		assert.True(t, actionByID(t, RightActions(s, domain.RoleSME), StepStopFulfillment).Visible, "status %q", status)
	}
	for _, status := range []Status{StatusDraft, StatusReturned, StatusCompleted} {
		s.Status = status
		assert.False(t, actionByID(t, RightActions(s, domain.RoleSME), StepStopFulfillment).Visible, "status %q", status)
	}
}

func TestRightActionsTestCaseGatesOnUserCard(t *testing.T) {
	s := Snapshot{Status: StatusAssignCard, Environment: domain.EnvProd, TerminalType: domain.TerminalPos, PhysicalCard: true}
	assert.False(t, actionByID(t, RightActions(s, domain.RoleSME), StepTestCase).Visible)

	s.HasUserCardID = true
	assert.True(t, actionByID(t, RightActions(s, domain.RoleSME), StepTestCase).Visible)
}

func TestColumnForStep(t *testing.T) {
	col, ok := ColumnForStep(StepShipping)
	require.True(t, ok)
	assert.Equal(t, ColumnShipDetails, col)

	_, ok = ColumnForStep(StepApproval)
	assert.False(t, ok)
}
