package workflow

import (
	"cardhub/internal/core/domain"
)

// Step identifies one wizard step. The numeric values are the ?step=N query
// parameter the console navigates with.
type Step int

const (
	StepRequestorInfo   Step = 1
	StepTestInfo        Step = 2
	StepTerminalInfo    Step = 3
	StepTesterDetails   Step = 4
	StepShipping        Step = 5
	StepApproval        Step = 6
	StepCardAssignment  Step = 7
	StepShipCard        Step = 8
	StepStopFulfillment Step = 9
	StepTestCase        Step = 10
)

// Column names one persisted stage column of a card request
type Column string

const (
	ColumnReqInfo                Column = "req_info"
	ColumnTestInfo               Column = "test_info"
	ColumnTermInfo               Column = "term_info"
	ColumnTesterDetails          Column = "tester_details"
	ColumnShipDetails            Column = "ship_details"
	ColumnShipmentInfo           Column = "shipment_info"
	ColumnUserCardInfo           Column = "user_card_info"
	ColumnStopFulfillmentComment Column = "stop_fulfillment_comment"
)

// stepColumns maps each step to the stage column it edits. Approval edits no
// column; it only fires transitions.
var stepColumns = map[Step]Column{
	StepRequestorInfo:   ColumnReqInfo,
	StepTestInfo:        ColumnTestInfo,
	StepTerminalInfo:    ColumnTermInfo,
	StepTesterDetails:   ColumnTesterDetails,
	StepShipping:        ColumnShipDetails,
	StepCardAssignment:  ColumnUserCardInfo,
	StepShipCard:        ColumnShipmentInfo,
	StepStopFulfillment: ColumnStopFulfillmentComment,
}

// stepTitles are the step labels shown in the progress indicator
var stepTitles = map[Step]string{
	StepRequestorInfo:   "Requestor Info",
	StepTestInfo:        "Test Information",
	StepTerminalInfo:    "Terminal Details",
	StepTesterDetails:   "Tester Details",
	StepShipping:        "Shipping Details",
	StepApproval:        "Approval",
	StepCardAssignment:  "Assign Card",
	StepShipCard:        "Ship Card",
	StepStopFulfillment: "Stop Fulfillment",
	StepTestCase:        "Test Case",
}

// ColumnForStep returns the stage column a step persists into
func ColumnForStep(s Step) (Column, bool) {
	col, ok := stepColumns[s]
	return col, ok
}

// Title returns the display label of a step
func (s Step) Title() string {
	return stepTitles[s]
}

// Snapshot is the pure-policy view of a card request: everything the gating
// rules need and nothing else.
type Snapshot struct {
	Status       Status
	Environment  domain.Environment
	TerminalType string

	HasReqInfo       bool
	HasTestInfo      bool
	HasTermInfo      bool
	HasTesterDetails bool
	HasShipDetails   bool
	HasShipmentInfo  bool
	HasUserCardID    bool

	// PhysicalCard mirrors testerDetails.physicalCard == "yes"
	PhysicalCard bool
}

// Availability carries the derived per-stage availability flags the console
// recomputes on every fetch
type Availability struct {
	TestInfo     bool `json:"is_test_info_available"`
	TerminalInfo bool `json:"is_terminal_info_available"`
	ShippingInfo bool `json:"is_shipping_info_available"`
	Shipment     bool `json:"is_shipment_available"`
	TestCase     bool `json:"is_test_case_available"`
}

// Derive computes the availability flags from a request snapshot
func Derive(s Snapshot) Availability {
	a := Availability{
		TestInfo: s.HasReqInfo,
		TerminalInfo: s.HasTestInfo &&
			s.TerminalType != domain.TerminalEcomm &&
			s.Environment != domain.EnvCert,
		ShippingInfo: s.HasTermInfo || s.HasShipDetails,
		TestCase:     s.HasUserCardID,
	}

	a.Shipment = s.HasShipmentInfo
	if (s.Status == StatusShipped || s.Status == StatusAssignCard) &&
		s.TerminalType == domain.TerminalPos {
		a.Shipment = true
	}
	if s.TerminalType == domain.TerminalEcomm || !s.PhysicalCard {
		a.Shipment = false
	}

	return a
}

// StepState is one left-sidebar entry: whether the step is shown at all and
// whether it can be navigated to.
type StepState struct {
	Step    Step   `json:"step"`
	Title   string `json:"title"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
}

// LeftSteps computes the left-sidebar step gating. Requestor Info is always
// enabled; everything later gates on the data saved so far and on the
// environment / terminal-type branch.
func LeftSteps(s Snapshot) []StepState {
	avail := Derive(s)

	terminalApplies := s.TerminalType == domain.TerminalPos && s.Environment != domain.EnvCert

	// When the terminal branch is disabled, Tester Details gates on test
	// info instead of terminal info.
	testerEnabled := s.HasTermInfo
	if !terminalApplies {
		testerEnabled = s.HasTestInfo
	}

	return []StepState{
		{Step: StepRequestorInfo, Title: StepRequestorInfo.Title(), Visible: true, Enabled: true},
		{Step: StepTestInfo, Title: StepTestInfo.Title(), Visible: true, Enabled: avail.TestInfo},
		{Step: StepTerminalInfo, Title: StepTerminalInfo.Title(), Visible: terminalApplies, Enabled: terminalApplies && avail.TerminalInfo},
		{Step: StepTesterDetails, Title: StepTesterDetails.Title(), Visible: true, Enabled: testerEnabled},
		{Step: StepShipping, Title: StepShipping.Title(), Visible: s.PhysicalCard, Enabled: s.PhysicalCard && s.HasTesterDetails},
	}
}

// ActionState is one right-sidebar entry: a role-gated post-submission action
type ActionState struct {
	Step    Step   `json:"step"`
	Title   string `json:"title"`
	Visible bool   `json:"visible"`
}

// RightActions computes the role-gated action tabs shown after submission
func RightActions(s Snapshot, role domain.Role) []ActionState {
	avail := Derive(s)

	approval := s.Status == StatusSubmitted && role.CanApprove()

	assignCard := role.CanFulfill() &&
		s.Environment != domain.EnvCert &&
		(s.Status == StatusApproved || s.Status == StatusAssignCard)

	shipCard := role.CanFulfill() && s.PhysicalCard &&
		(s.Status == StatusAssignCard || s.Status == StatusShipped ||
			(s.Environment == domain.EnvCert && s.Status == StatusApproved))

	stopFulfillment := role.CanFulfill() &&
		s.Status != StatusDraft && s.Status != StatusReturned && !IsTerminal(s.Status)

	return []ActionState{
		{Step: StepApproval, Title: StepApproval.Title(), Visible: approval},
		{Step: StepCardAssignment, Title: StepCardAssignment.Title(), Visible: assignCard},
		{Step: StepShipCard, Title: StepShipCard.Title(), Visible: shipCard},
		{Step: StepStopFulfillment, Title: StepStopFulfillment.Title(), Visible: stopFulfillment},
		{Step: StepTestCase, Title: StepTestCase.Title(), Visible: avail.TestCase},
	}
}
