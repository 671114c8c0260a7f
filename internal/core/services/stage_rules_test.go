package services

import (
	"fmt"
	"testing"

	"cardhub/internal/adapters/persistence/models"
	"cardhub/internal/core/domain"
	"cardhub/internal/core/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTesterDetails() *models.TesterDetails {
	return &models.TesterDetails{
		Product:      "Classic",
		Issuer:       "First Test Bank",
		PartnerID:    1,
		MediaCard:    "no",
		PhysicalCard: "yes",
		Testers: []models.Tester{
			{ID: 1, Name: "Alice", Email: "alice@example.com"},
			{ID: 2, Name: "Bob", Email: "bob@example.com"},
		},
	}
}

func TestValidateStageCollectsAllViolations(t *testing.T) {
	v := ValidateStage(workflow.ColumnReqInfo, &models.RequestorInfo{}, 0)

	require.NotEmpty(t, v)
	assert.GreaterOrEqual(t, len(v), 4)
	assert.Equal(t, "First name is required", FirstMessage(v))
}

func TestValidateRequestorInfoEmailFormat(t *testing.T) {
	v := ValidateStage(workflow.ColumnReqInfo, &models.RequestorInfo{
		FirstName:    "Alice",
		LastName:     "Tester",
		Email:        "not-an-email",
		Organization: "Acme",
	}, 0)

	require.Len(t, v, 1)
	assert.Equal(t, "email", v[0].Field)
}

func TestValidateTerminalInfoRequiresAllFiveFields(t *testing.T) {
	full := &models.TerminalInfo{
		TerminalType:       "Pos",
		TestingScope:       "full",
		PaymentTechnology:  "contactless",
		PinEntryCapability: "online",
		CashbackPIN:        "yes",
	}
	assert.Empty(t, ValidateStage(workflow.ColumnTermInfo, full, 0))

	partial := &models.TerminalInfo{
		TerminalType:      "Pos",
		TestingScope:      "full",
		PaymentTechnology: "contactless",
	}
	v := ValidateStage(workflow.ColumnTermInfo, partial, 0)
	require.Len(t, v, 2)
	assert.Equal(t, "pinEntryCapability", v[0].Field)
	assert.Equal(t, "cashbackPIN", v[1].Field)

	v = ValidateStage(workflow.ColumnTermInfo, &models.TerminalInfo{}, 0)
	assert.Len(t, v, 5)
}

func TestValidateTesterDetailsCapIsMinOfVaultAndTen(t *testing.T) {
	td := validTesterDetails()
	td.Testers = nil
	for i := 0; i < 5; i++ {
		td.Testers = append(td.Testers, models.Tester{
			ID: uint(i + 1), Name: "T", Email: fmt.Sprintf("t%d@example.com", i),
		})
	}

	// Vault smaller than the list blocks the save
	v := ValidateStage(workflow.ColumnTesterDetails, td, 3)
	require.Len(t, v, 1)
	assert.Contains(t, v[0].Message, "3 testers")

	// Enough inventory passes
	v = ValidateStage(workflow.ColumnTesterDetails, td, 5)
	assert.Empty(t, v)

	// The hard cap holds even with deep inventory
	td.Testers = nil
	for i := 0; i < 11; i++ {
		td.Testers = append(td.Testers, models.Tester{
			ID: uint(i + 1), Name: "T", Email: fmt.Sprintf("t%d@example.com", i),
		})
	}
	v = ValidateStage(workflow.ColumnTesterDetails, td, 100)
	require.Len(t, v, 1)
	assert.Contains(t, v[0].Message, "10 testers")
}

func TestValidateTesterDetailsDuplicateEmails(t *testing.T) {
	td := validTesterDetails()
	td.Testers = append(td.Testers, models.Tester{ID: 3, Name: "Alice Again", Email: "ALICE@example.com"})

	v := ValidateStage(workflow.ColumnTesterDetails, td, 10)
	require.Len(t, v, 1)
	assert.Contains(t, v[0].Message, "listed more than once")
}

func TestValidateTesterDetailsCardTypeExclusive(t *testing.T) {
	td := validTesterDetails()

	td.MediaCard, td.PhysicalCard = "yes", "yes"
	v := ValidateStage(workflow.ColumnTesterDetails, td, 10)
	require.Len(t, v, 1)
	assert.Equal(t, "mediaCard", v[0].Field)

	td.MediaCard, td.PhysicalCard = "no", "no"
	v = ValidateStage(workflow.ColumnTesterDetails, td, 10)
	require.Len(t, v, 1)

	td.MediaCard, td.PhysicalCard = "yes", "no"
	v = ValidateStage(workflow.ColumnTesterDetails, td, 10)
	assert.Empty(t, v)
}

func TestValidateShipDetails(t *testing.T) {
	v := ValidateStage(workflow.ColumnShipDetails, &models.ShipDetails{ShipTo: "nowhere"}, 0)
	require.Len(t, v, 1)
	assert.Equal(t, "shipTo", v[0].Field)

	v = ValidateStage(workflow.ColumnShipDetails, &models.ShipDetails{
		ShipTo: "one",
		AddressDetails: []models.Address{{
			Name: "Alice", Line1: "1 Main St", City: "Springfield",
			PostalCode: "12345", Country: "US",
		}},
	}, 0)
	assert.Empty(t, v)

	v = ValidateStage(workflow.ColumnShipDetails, &models.ShipDetails{
		ShipTo: "multiple",
		UpdatedTesters: []models.UpdatedTester{
			{TesterID: 1, ShippingAddress: "1 Main St"},
			{TesterID: 2, ShippingAddress: "  "},
		},
	}, 0)
	require.Len(t, v, 1)
	assert.Contains(t, v[0].Message, "Tester 2")
}

func TestValidateStopComment(t *testing.T) {
	assert.NotEmpty(t, ValidateStopComment("   "))
	assert.Empty(t, ValidateStopComment("duplicate request, closing out"))
}

func submittableRequest() *models.CardRequest {
	reqInfo := `{"firstName":"Alice","lastName":"Tester","email":"alice@example.com","organization":"Acme","status":"approved"}`
	testInfo := `{"testName":"Contactless pilot","testType":"regression","startDate":"2026-09-01","endDate":"2026-09-30"}`
	termInfo := `{"terminalType":"Pos","testingScope":"full","paymentTechnology":"contactless","pinEntryCapability":"online","cashbackPIN":"yes"}`
	testers := `{"product":"Classic","issuer":"First Test Bank","partner_id":1,"mediaCard":"yes","physicalCard":"no","testers":[{"id":1,"name":"Alice","email":"alice@example.com"}]}`

	return &models.CardRequest{
		Environment:   int(domain.EnvProd),
		TerminalType:  domain.TerminalPos,
		ReqInfo:       &reqInfo,
		TestInfo:      &testInfo,
		TermInfo:      &termInfo,
		TesterDetails: &testers,
	}
}

func TestValidateSubmitHappyPath(t *testing.T) {
	assert.Empty(t, ValidateSubmit(submittableRequest(), true))
}

func TestValidateSubmitRequiresAcknowledgement(t *testing.T) {
	v := ValidateSubmit(submittableRequest(), false)
	require.Len(t, v, 1)
	assert.Equal(t, "isChecked", v[0].Field)
}

func TestValidateSubmitRequiresApprovedRequestorInfo(t *testing.T) {
	req := submittableRequest()
	pending := `{"firstName":"Alice","lastName":"Tester","email":"alice@example.com","organization":"Acme","status":"pending"}`
	req.ReqInfo = &pending

	v := ValidateSubmit(req, true)
	require.Len(t, v, 1)
	assert.Contains(t, v[0].Message, "marked approved")
}

func TestValidateSubmitPhysicalCardNeedsShipping(t *testing.T) {
	req := submittableRequest()
	physical := `{"product":"Classic","issuer":"First Test Bank","partner_id":1,"mediaCard":"no","physicalCard":"yes","testers":[{"id":1,"name":"Alice","email":"alice@example.com"}]}`
	req.TesterDetails = &physical

	v := ValidateSubmit(req, true)
	require.Len(t, v, 1)
	assert.Equal(t, "ship_details", v[0].Field)
}

func TestValidateSubmitTerminalBranchOptionalForEcomm(t *testing.T) {
	req := submittableRequest()
	req.TerminalType = domain.TerminalEcomm
	req.TermInfo = nil

	assert.Empty(t, ValidateSubmit(req, true))
}

func TestValidateSubmitAccumulatesAcrossStages(t *testing.T) {
	req := &models.CardRequest{
		Environment:  int(domain.EnvProd),
		TerminalType: domain.TerminalPos,
	}

	v := ValidateSubmit(req, false)
	require.GreaterOrEqual(t, len(v), 4)
	assert.Equal(t, "Acknowledge the request details before submitting", FirstMessage(v))
}
