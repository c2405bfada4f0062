package mutate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/pkg/models"
)

func TestBulkStartAllSucceed(t *testing.T) {
	features := seedFeatures()
	api := &fakeAPI{}
	notices := &recordingNotifier{}
	m := NewMutator(api, features, notices, testLogger())

	res := m.Bulk(context.Background(), BulkStart, []string{"F001", "F002"}, "", 2)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, models.StatusInProgress, featureByID(features, "F001").Status)
	assert.Equal(t, models.StatusInProgress, featureByID(features, "F002").Status)

	// One aggregate notice, not one per ID.
	require.Len(t, notices.successes, 1)
	assert.Contains(t, notices.successes[0], "2")
}

func TestBulkPartialFailure(t *testing.T) {
	features := seedFeatures()
	api := &fakeAPI{verifyErr: dasherr.ServerRejected("verify", 409, "unmet dependencies")}
	notices := &recordingNotifier{}
	m := NewMutator(api, features, notices, testLogger())

	res := m.Bulk(context.Background(), BulkVerify, []string{"F001", "F003"}, "evidence", 0)

	assert.Equal(t, 0, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	require.Len(t, notices.errors, 1)

	// Both rolled back independently.
	assert.Equal(t, models.StatusNotStarted, featureByID(features, "F001").Status)
	assert.Equal(t, models.StatusInProgress, featureByID(features, "F003").Status)
}

func TestBulkUnknownAction(t *testing.T) {
	m := NewMutator(&fakeAPI{}, seedFeatures(), &recordingNotifier{}, testLogger())
	res := m.Bulk(context.Background(), BulkAction("nuke"), []string{"F001"}, "", 1)
	assert.Equal(t, 1, res.Failed)
}

func TestMatchIDs(t *testing.T) {
	features := []models.Feature{
		{ID: "F001", Category: models.CategoryCore},
		{ID: "F002", Category: models.CategoryUI},
		{ID: "F010", Category: models.CategoryCore},
	}

	ids, err := MatchIDs(features, "F00*")
	require.NoError(t, err)
	assert.Equal(t, []string{"F001", "F002"}, ids)

	ids, err = MatchIDs(features, "core")
	require.NoError(t, err)
	assert.Equal(t, []string{"F001", "F010"}, ids)

	ids, err = MatchIDs(features, "nothing-matches")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
