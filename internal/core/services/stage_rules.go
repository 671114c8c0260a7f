package services

import (
	"fmt"
	"regexp"
	"strings"

	"cardhub/internal/adapters/persistence/models"
	"cardhub/internal/core/domain"
	"cardhub/internal/core/workflow"
)

// Violation is one failed validation rule. Validation never stops at the
// first failure: the full list is collected and returned together, the first
// entry doubling as the toast message.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MaxTestersPerRequest caps tester rows regardless of vault inventory
const MaxTestersPerRequest = 10

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateStage runs the per-stage rules against a decoded payload.
// vaultCount is the unassigned inventory for the request's card profile; it
// only matters for tester_details.
func ValidateStage(column workflow.Column, payload interface{}, vaultCount int) []Violation {
	switch p := payload.(type) {
	case *models.RequestorInfo:
		return validateRequestorInfo(p)
	case *models.TestInfo:
		return validateTestInfo(p)
	case *models.TerminalInfo:
		return validateTerminalInfo(p)
	case *models.TesterDetails:
		return validateTesterDetails(p, vaultCount)
	case *models.ShipDetails:
		return validateShipDetails(p)
	case *models.ShipmentInfo:
		return validateShipmentInfo(p)
	case *models.UserCardInfo:
		return validateUserCardInfo(p)
	}
	return nil
}

func required(v []Violation, field, value, label string) []Violation {
	if strings.TrimSpace(value) == "" {
		v = append(v, Violation{Field: field, Message: label + " is required"})
	}
	return v
}

func validateRequestorInfo(p *models.RequestorInfo) []Violation {
	var v []Violation
	v = required(v, "firstName", p.FirstName, "First name")
	v = required(v, "lastName", p.LastName, "Last name")
	v = required(v, "email", p.Email, "Email")
	if p.Email != "" && !emailPattern.MatchString(p.Email) {
		v = append(v, Violation{Field: "email", Message: "Email is not a valid address"})
	}
	v = required(v, "organization", p.Organization, "Organization")
	return v
}

func validateTestInfo(p *models.TestInfo) []Violation {
	var v []Violation
	v = required(v, "testName", p.TestName, "Test name")
	v = required(v, "testType", p.TestType, "Test type")
	v = required(v, "startDate", p.StartDate, "Start date")
	v = required(v, "endDate", p.EndDate, "End date")
	return v
}

func validateTerminalInfo(p *models.TerminalInfo) []Violation {
	var v []Violation
	v = required(v, "terminalType", p.TerminalType, "Terminal type")
	v = required(v, "testingScope", p.TestingScope, "Testing scope")
	v = required(v, "paymentTechnology", p.PaymentTechnology, "Payment technology")
	v = required(v, "pinEntryCapability", p.PinEntryCapability, "PIN entry capability")
	v = required(v, "cashbackPIN", p.CashbackPIN, "Cashback PIN")
	return v
}

func validateTesterDetails(p *models.TesterDetails, vaultCount int) []Violation {
	var v []Violation
	v = required(v, "product", p.Product, "Product")
	v = required(v, "issuer", p.Issuer, "Issuer")
	if p.PartnerID == 0 {
		v = append(v, Violation{Field: "partner_id", Message: "Partner is required"})
	}

	// Exactly one of mediaCard / physicalCard must be "yes"
	media := p.MediaCard == "yes"
	physical := p.PhysicalCard == "yes"
	if media == physical {
		v = append(v, Violation{Field: "mediaCard", Message: "Select either a mobile card or a physical card"})
	}

	if len(p.Testers) == 0 {
		v = append(v, Violation{Field: "testers", Message: "At least one tester is required"})
	}

	maxTesters := MaxTestersPerRequest
	if vaultCount < maxTesters {
		maxTesters = vaultCount
	}
	if len(p.Testers) > maxTesters {
		v = append(v, Violation{
			Field:   "testers",
			Message: fmt.Sprintf("No more than %d testers can be added for this card profile", maxTesters),
		})
	}

	seen := make(map[string]bool, len(p.Testers))
	for _, t := range p.Testers {
		email := strings.ToLower(strings.TrimSpace(t.Email))
		if email == "" {
			continue
		}
		if seen[email] {
			v = append(v, Violation{
				Field:   "testers",
				Message: fmt.Sprintf("Tester %s is listed more than once", t.Email),
			})
		}
		seen[email] = true
	}

	return v
}

func validateShipDetails(p *models.ShipDetails) []Violation {
	var v []Violation

	switch p.ShipTo {
	case "one":
		if len(p.AddressDetails) != 1 {
			v = append(v, Violation{Field: "addressDetails", Message: "Exactly one shipping address is required"})
			break
		}
		v = append(v, validateAddress(&p.AddressDetails[0])...)
	case "multiple":
		if len(p.UpdatedTesters) == 0 {
			v = append(v, Violation{Field: "updatedTesters", Message: "Each tester needs a shipping address"})
		}
		for _, ut := range p.UpdatedTesters {
			if strings.TrimSpace(ut.ShippingAddress) == "" {
				v = append(v, Violation{
					Field:   "updatedTesters",
					Message: fmt.Sprintf("Tester %d has no shipping address", ut.TesterID),
				})
			}
		}
	default:
		v = append(v, Violation{Field: "shipTo", Message: "Ship-to must be one or multiple"})
	}

	return v
}

func validateAddress(a *models.Address) []Violation {
	var v []Violation
	v = required(v, "addressDetails.name", a.Name, "Recipient name")
	v = required(v, "addressDetails.line1", a.Line1, "Address line 1")
	v = required(v, "addressDetails.city", a.City, "City")
	v = required(v, "addressDetails.postalCode", a.PostalCode, "Postal code")
	v = required(v, "addressDetails.country", a.Country, "Country")
	return v
}

// Shipment legs are saved incrementally, so a save only requires the list to
// exist; completeness is checked by the complete-shipment command.
func validateShipmentInfo(p *models.ShipmentInfo) []Violation {
	var v []Violation
	if len(p.Legs) == 0 {
		v = append(v, Violation{Field: "legs", Message: "At least one shipment entry is required"})
	}
	return v
}

func validateUserCardInfo(p *models.UserCardInfo) []Violation {
	var v []Violation
	v = required(v, "user_card_id", p.UserCardID, "Card assignment")
	return v
}

// ValidateStopComment guards the stop-fulfillment command: the comment must
// not be blank.
func ValidateStopComment(comment string) []Violation {
	if strings.TrimSpace(comment) == "" {
		return []Violation{{Field: "comment", Message: "A comment is required to stop fulfillment"}}
	}
	return nil
}

// ValidateSubmit collects everything that blocks initial submission:
// the acknowledgement checkbox, the requestor-info approval marker and the
// presence of every stage the request's branch requires.
func ValidateSubmit(req *models.CardRequest, isChecked bool) []Violation {
	var v []Violation

	if !isChecked {
		v = append(v, Violation{Field: "isChecked", Message: "Acknowledge the request details before submitting"})
	}

	if req.ReqInfo == nil {
		v = append(v, Violation{Field: "req_info", Message: "Requestor information has not been saved"})
	} else {
		payload, err := models.DecodeStage(workflow.ColumnReqInfo, []byte(*req.ReqInfo))
		if err != nil {
			v = append(v, Violation{Field: "req_info", Message: "Requestor information is unreadable"})
		} else if ri := payload.(*models.RequestorInfo); ri.Status != "approved" {
			v = append(v, Violation{Field: "req_info", Message: "Requestor information must be marked approved before submitting"})
		}
	}

	if req.TestInfo == nil {
		v = append(v, Violation{Field: "test_info", Message: "Test information has not been saved"})
	}

	terminalApplies := req.TerminalType == domain.TerminalPos &&
		domain.Environment(req.Environment) != domain.EnvCert
	if terminalApplies && req.TermInfo == nil {
		v = append(v, Violation{Field: "term_info", Message: "Terminal details have not been saved"})
	}

	td := req.ParsedTesterDetails()
	if req.TesterDetails == nil || td == nil {
		v = append(v, Violation{Field: "tester_details", Message: "Tester details have not been saved"})
	} else if td.IsPhysical() && req.ShipDetails == nil {
		v = append(v, Violation{Field: "ship_details", Message: "Shipping details are required for physical cards"})
	}

	return v
}

// FirstMessage returns the toast message for a violation list
func FirstMessage(violations []Violation) string {
	if len(violations) == 0 {
		return ""
	}
	return violations[0].Message
}
