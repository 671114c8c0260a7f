package models

import (
	"encoding/json"
	"fmt"

	"cardhub/internal/core/domain"
	"cardhub/internal/core/workflow"
)

// Typed stage payloads. Stage data is persisted exactly as submitted (whole
// column, raw JSON) so saves round-trip byte-for-byte; these types exist so
// the boundary can parse and validate before anything is written, instead of
// unguarded parsing scattered through consumers.

// RequestorInfo is the req_info stage payload
type RequestorInfo struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Organization  string `json:"organization"`
	Justification string `json:"justification"`
	Status        string `json:"status"`
}

// TestInfo is the test_info stage payload
type TestInfo struct {
	TestName    string `json:"testName"`
	TestType    string `json:"testType"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// TerminalInfo is the term_info stage payload
type TerminalInfo struct {
	TerminalType       string `json:"terminalType"`
	TestingScope       string `json:"testingScope"`
	PaymentTechnology  string `json:"paymentTechnology"`
	PinEntryCapability string `json:"pinEntryCapability"`
	CashbackPIN        string `json:"cashbackPIN"`
}

// Tester is one tester row inside the tester_details payload
type Tester struct {
	ID     uint   `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// TesterDetails is the tester_details stage payload. MediaCard and
// PhysicalCard are mutually exclusive "yes"/"no" strings; exactly one is
// "yes".
type TesterDetails struct {
	SpecialFeature string   `json:"specialFeature"`
	Product        string   `json:"product"`
	PartnerID      uint     `json:"partner_id"`
	ProductBundle  string   `json:"productBundle"`
	DomesticGlobal string   `json:"domesticGlobal"`
	Issuer         string   `json:"issuer"`
	MediaCard      string   `json:"mediaCard"`
	PhysicalCard   string   `json:"physicalCard"`
	Testers        []Tester `json:"testers"`
	AvailableCards int      `json:"availableCards"`
}

// IsPhysical reports whether the request is for physical cards
func (td *TesterDetails) IsPhysical() bool {
	return td.PhysicalCard == "yes"
}

// Address is one shipping address inside ship_details
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// UpdatedTester binds a tester to their shipping address when shipping to
// multiple addresses
type UpdatedTester struct {
	TesterID        uint   `json:"testerId"`
	ShippingAddress string `json:"shippingAddress"`
}

// ShipDetails is the ship_details stage payload. When ShipTo is "one"
// exactly one address is authoritative; when "multiple", one per tester.
type ShipDetails struct {
	ShipTo         string          `json:"shipTo"`
	AddressDetails []Address       `json:"addressDetails"`
	UpdatedTesters []UpdatedTester `json:"updatedTesters"`
}

// ShipmentLeg is one per-address shipment entry inside shipment_info
type ShipmentLeg struct {
	TesterID       uint   `json:"testerId"`
	Carrier        string `json:"carrier"`
	ShippingDate   string `json:"shippingDate"`
	TrackingNumber string `json:"trackingNumber"`
}

// ShipmentInfo is the shipment_info stage payload
type ShipmentInfo struct {
	Legs []ShipmentLeg `json:"legs"`
}

// WorkflowLegs converts shipment legs to the policy's completeness inputs
func (si *ShipmentInfo) WorkflowLegs() []workflow.ShipmentLeg {
	legs := make([]workflow.ShipmentLeg, 0, len(si.Legs))
	for _, l := range si.Legs {
		legs = append(legs, workflow.ShipmentLeg{
			ShippingDate:   l.ShippingDate,
			TrackingNumber: l.TrackingNumber,
		})
	}
	return legs
}

// UserCardInfo is the user_card_info stage payload
type UserCardInfo struct {
	UserCardID string `json:"user_card_id"`
	VaultID    uint   `json:"vaultId"`
	Last4      string `json:"last4"`
	ExpiryDate string `json:"expiryDate"`
}

// DecodeStage parses a raw stage payload into its typed form. A decode error
// means the payload never reaches a column.
func DecodeStage(column workflow.Column, raw []byte) (interface{}, error) {
	var payload interface{}

	switch column {
	case workflow.ColumnReqInfo:
		payload = &RequestorInfo{}
	case workflow.ColumnTestInfo:
		payload = &TestInfo{}
	case workflow.ColumnTermInfo:
		payload = &TerminalInfo{}
	case workflow.ColumnTesterDetails:
		payload = &TesterDetails{}
	case workflow.ColumnShipDetails:
		payload = &ShipDetails{}
	case workflow.ColumnShipmentInfo:
		payload = &ShipmentInfo{}
	case workflow.ColumnUserCardInfo:
		payload = &UserCardInfo{}
	default:
		return nil, fmt.Errorf("unknown stage column: %s", column)
	}

	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", column, err)
	}
	return payload, nil
}

// StageRaw returns the stored blob for a stage column
func (r *CardRequest) StageRaw(column workflow.Column) *string {
	switch column {
	case workflow.ColumnReqInfo:
		return r.ReqInfo
	case workflow.ColumnTestInfo:
		return r.TestInfo
	case workflow.ColumnTermInfo:
		return r.TermInfo
	case workflow.ColumnTesterDetails:
		return r.TesterDetails
	case workflow.ColumnShipDetails:
		return r.ShipDetails
	case workflow.ColumnShipmentInfo:
		return r.ShipmentInfo
	case workflow.ColumnUserCardInfo:
		return r.UserCardInfo
	case workflow.ColumnStopFulfillmentComment:
		return r.StopFulfillmentComment
	}
	return nil
}

// SetStage replaces the stored blob for a stage column
func (r *CardRequest) SetStage(column workflow.Column, raw string) error {
	switch column {
	case workflow.ColumnReqInfo:
		r.ReqInfo = &raw
	case workflow.ColumnTestInfo:
		r.TestInfo = &raw
	case workflow.ColumnTermInfo:
		r.TermInfo = &raw
	case workflow.ColumnTesterDetails:
		r.TesterDetails = &raw
	case workflow.ColumnShipDetails:
		r.ShipDetails = &raw
	case workflow.ColumnShipmentInfo:
		r.ShipmentInfo = &raw
	case workflow.ColumnUserCardInfo:
		r.UserCardInfo = &raw
	case workflow.ColumnStopFulfillmentComment:
		r.StopFulfillmentComment = &raw
	default:
		return fmt.Errorf("unknown stage column: %s", column)
	}
	return nil
}

// ParsedTesterDetails decodes the tester_details column, nil when absent or
// unparseable
func (r *CardRequest) ParsedTesterDetails() *TesterDetails {
	if r.TesterDetails == nil {
		return nil
	}
	var td TesterDetails
	if err := json.Unmarshal([]byte(*r.TesterDetails), &td); err != nil {
		return nil
	}
	return &td
}

// ParsedShipmentInfo decodes the shipment_info column, nil when absent or
// unparseable
func (r *CardRequest) ParsedShipmentInfo() *ShipmentInfo {
	if r.ShipmentInfo == nil {
		return nil
	}
	var si ShipmentInfo
	if err := json.Unmarshal([]byte(*r.ShipmentInfo), &si); err != nil {
		return nil
	}
	return &si
}

// ParsedUserCardInfo decodes the user_card_info column, nil when absent or
// unparseable
func (r *CardRequest) ParsedUserCardInfo() *UserCardInfo {
	if r.UserCardInfo == nil {
		return nil
	}
	var uci UserCardInfo
	if err := json.Unmarshal([]byte(*r.UserCardInfo), &uci); err != nil {
		return nil
	}
	return &uci
}

// Snapshot projects the request into the pure workflow view the gating rules
// consume
func (r *CardRequest) Snapshot() workflow.Snapshot {
	s := workflow.Snapshot{
		Status:           workflow.Status(r.Status),
		Environment:      domain.Environment(r.Environment),
		TerminalType:     r.TerminalType,
		HasReqInfo:       r.ReqInfo != nil,
		HasTestInfo:      r.TestInfo != nil,
		HasTermInfo:      r.TermInfo != nil,
		HasTesterDetails: r.TesterDetails != nil,
		HasShipDetails:   r.ShipDetails != nil,
		HasShipmentInfo:  r.ShipmentInfo != nil,
	}

	if td := r.ParsedTesterDetails(); td != nil {
		s.PhysicalCard = td.IsPhysical()
	}
	if uci := r.ParsedUserCardInfo(); uci != nil {
		s.HasUserCardID = uci.UserCardID != ""
	}

	return s
}
