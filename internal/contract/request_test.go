package contract

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewPlanRequest_DefaultsToRecordedDryRun(t *testing.T) {
	req := NewPlanRequest()

	assert.False(t, req.Apply)
	assert.True(t, req.Record)
	assert.Nil(t, req.Now)
}

func TestNewCreateRequest_SetsPath(t *testing.T) {
	req := NewCreateRequest("backlog.yaml")

	assert.Equal(t, "backlog.yaml", req.BacklogPath)
	assert.False(t, req.Apply)
	assert.True(t, req.Record)
}

func TestNewSyncAndScheduleRequests(t *testing.T) {
	assert.False(t, NewSyncRequest().Apply)
	assert.True(t, NewSyncRequest().Record)
	assert.Equal(t, "b.json", NewScheduleRequest("b.json").BacklogPath)
}

func TestItemChange_Changed(t *testing.T) {
	a := domain.MustParseDay("2025-06-01")
	b := domain.MustParseDay("2025-06-20")
	b2 := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	assert.False(t, ItemChange{Start: &a, Target: &b, PrevStart: &a, PrevTarget: &b2}.Changed())
	assert.True(t, ItemChange{Start: &a, Target: &b}.Changed())
	assert.True(t, ItemChange{Start: &a, Target: &b, PrevStart: &b, PrevTarget: &b}.Changed())
}

func TestUseCaseError_UnwrapsAndFormats(t *testing.T) {
	cause := errors.New("timeout")
	err := &UseCaseError{Code: ErrTracker, Message: "querying items", Err: cause}

	assert.Equal(t, "TRACKER_ERROR: querying items: timeout", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "NO_ITEMS: nothing", (&UseCaseError{Code: ErrNoItems, Message: "nothing"}).Error())
}
