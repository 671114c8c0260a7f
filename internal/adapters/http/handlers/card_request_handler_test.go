package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTrackingRequestNumbers(t *testing.T) {
	req := CheckTrackingRequest{TrackingNumber: "1Z999AA10123456784"}
	assert.Equal(t, []string{"1Z999AA10123456784"}, req.Numbers())

	req = CheckTrackingRequest{
		TrackingNumbers: []string{"TRACK-1", "TRACK-2"},
	}
	assert.Equal(t, []string{"TRACK-1", "TRACK-2"}, req.Numbers())

	// Single and list forms combine, duplicates and blanks drop out
	req = CheckTrackingRequest{
		TrackingNumber:  "TRACK-1",
		TrackingNumbers: []string{" TRACK-1 ", "", "TRACK-2", "TRACK-2"},
	}
	assert.Equal(t, []string{"TRACK-1", "TRACK-2"}, req.Numbers())

	req = CheckTrackingRequest{TrackingNumbers: []string{"  ", ""}}
	assert.Empty(t, req.Numbers())
}
