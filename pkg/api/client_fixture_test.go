package api_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/pkg/api"
	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/testutil"
)

func TestClientAgainstTrackerFixture(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	client := api.NewClient(ts.URL(), 0)

	features, err := client.ListFeatures(context.Background())
	require.NoError(t, err)
	require.Len(t, features, len(testutil.Fixtures()))
	assert.Equal(t, "F001", features[0].ID)

	require.NoError(t, client.StartFeature(context.Background(), "F003"))

	features, err = client.ListFeatures(context.Background())
	require.NoError(t, err)
	for _, f := range features {
		if f.ID == "F003" {
			assert.Equal(t, models.StatusInProgress, f.Status)
		}
	}

	summary, err := client.StatusSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(features), summary.TotalFeatures)
}

func TestClientSurfacesInjectedFailure(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	ts.FailPaths["/verify"] = 409

	client := api.NewClient(ts.URL(), 0)
	err := client.VerifyFeature(context.Background(), "F002", "tests green")
	require.Error(t, err)
	assert.True(t, dasherr.Is(err, dasherr.ErrCodeServerRejected))
}
