package models

import (
	"testing"

	"cardhub/internal/core/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageSaveRoundTrip(t *testing.T) {
	// Stage columns store the submitted payload verbatim, so a save
	// followed by a fetch returns data deep-equal to what went in,
	// unknown fields included.
	raw := `{"testName":"EMV contact","testType":"regression","extra":{"client":"keeps this"}}`

	_, err := DecodeStage(workflow.ColumnTestInfo, []byte(raw))
	require.NoError(t, err)

	var req CardRequest
	require.NoError(t, req.SetStage(workflow.ColumnTestInfo, raw))

	stored := req.StageRaw(workflow.ColumnTestInfo)
	require.NotNil(t, stored)
	assert.Equal(t, raw, *stored)
}

func TestDecodeStageRejectsMalformedPayloads(t *testing.T) {
	for _, col := range []workflow.Column{
		workflow.ColumnReqInfo,
		workflow.ColumnTestInfo,
		workflow.ColumnTermInfo,
		workflow.ColumnTesterDetails,
		workflow.ColumnShipDetails,
		workflow.ColumnShipmentInfo,
		workflow.ColumnUserCardInfo,
	} {
		_, err := DecodeStage(col, []byte(`{"broken`))
		assert.Error(t, err, "column %s", col)
	}

	_, err := DecodeStage(workflow.Column("no_such_column"), []byte(`{}`))
	assert.Error(t, err)
}

func TestSetStageUnknownColumn(t *testing.T) {
	var req CardRequest
	assert.Error(t, req.SetStage(workflow.Column("no_such_column"), "{}"))
}

func TestSnapshotDerivesPhysicalCardAndUserCard(t *testing.T) {
	tester := `{"physicalCard":"yes","mediaCard":"no","testers":[{"email":"a@b.test","name":"A"}]}`
	userCard := `{"user_card_id":"UC-1001","last4":"4242"}`

	req := CardRequest{
		Status:       "assign_card",
		Environment:  1,
		TerminalType: "Pos",
	}
	require.NoError(t, req.SetStage(workflow.ColumnTesterDetails, tester))
	require.NoError(t, req.SetStage(workflow.ColumnUserCardInfo, userCard))

	snap := req.Snapshot()
	assert.True(t, snap.PhysicalCard)
	assert.True(t, snap.HasUserCardID)
	assert.True(t, snap.HasTesterDetails)
	assert.False(t, snap.HasReqInfo)
	assert.Equal(t, workflow.StatusAssignCard, snap.Status)
}

func TestSnapshotToleratesCorruptBlobs(t *testing.T) {
	corrupt := `{"physicalCard":`
	req := CardRequest{TesterDetails: &corrupt}

	snap := req.Snapshot()
	assert.True(t, snap.HasTesterDetails)
	assert.False(t, snap.PhysicalCard)
}

func TestWorkflowLegs(t *testing.T) {
	si := ShipmentInfo{Legs: []ShipmentLeg{
		{TesterID: 1, ShippingDate: "2025-05-02", TrackingNumber: "1Z1"},
		{TesterID: 2, ShippingDate: "", TrackingNumber: "1Z2"},
	}}

	legs := si.WorkflowLegs()
	require.Len(t, legs, 2)
	assert.False(t, workflow.ShipmentComplete(legs))

	si.Legs[1].ShippingDate = "2025-05-03"
	assert.True(t, workflow.ShipmentComplete(si.WorkflowLegs()))
}
