package mutate

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/store"
)

// fakeAPI scripts per-operation outcomes.
type fakeAPI struct {
	mu        sync.Mutex
	startErr  error
	blockErr  error
	verifyErr error
	reorder   error
	started   []string
	release   chan struct{} // when non-nil, Start blocks until closed
}

func (f *fakeAPI) StartFeature(ctx context.Context, id string) error {
	f.mu.Lock()
	f.started = append(f.started, id)
	release := f.release
	err := f.startErr
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return err
}

func (f *fakeAPI) BlockFeature(ctx context.Context, id, reason string) error  { return f.blockErr }
func (f *fakeAPI) VerifyFeature(ctx context.Context, id, ev string) error     { return f.verifyErr }
func (f *fakeAPI) ReorderFeatures(ctx context.Context, o []models.ReorderItem) error {
	return f.reorder
}

// recordingNotifier captures notices in order.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "mutate-test")
}

func seedFeatures() *store.Store[[]models.Feature] {
	return store.New([]models.Feature{
		{ID: "F001", Description: "login flow", Status: models.StatusNotStarted},
		{ID: "F002", Description: "session log", Status: models.StatusNotStarted},
		{ID: "F003", Description: "activity feed", Status: models.StatusInProgress},
	})
}

func featureByID(s *store.Store[[]models.Feature], id string) models.Feature {
	for _, f := range s.Get() {
		if f.ID == id {
			return f
		}
	}
	return models.Feature{}
}

func TestStartSuccessKeepsSpeculativeState(t *testing.T) {
	features := seedFeatures()
	api := &fakeAPI{}
	notices := &recordingNotifier{}
	m := NewMutator(api, features, notices, testLogger())

	require.NoError(t, m.Start(context.Background(), "F001"))

	assert.Equal(t, models.StatusInProgress, featureByID(features, "F001").Status)
	require.Len(t, notices.successes, 1)
	assert.Contains(t, notices.successes[0], "F001")
	assert.Empty(t, notices.errors)
}

func TestStartFailureRollsBack(t *testing.T) {
	features := seedFeatures()
	api := &fakeAPI{startErr: dasherr.ServerRejected("start feature F001", 500, "internal error")}
	notices := &recordingNotifier{}
	m := NewMutator(api, features, notices, testLogger())

	var observed []models.FeatureStatus
	features.Subscribe(func(fs []models.Feature) {
		observed = append(observed, fs[0].Status)
	})

	err := m.Start(context.Background(), "F001")
	require.Error(t, err)

	// Speculative flip then revert, visible to subscribers in order.
	assert.Equal(t, []models.FeatureStatus{models.StatusInProgress, models.StatusNotStarted}, observed)
	assert.Equal(t, models.StatusNotStarted, featureByID(features, "F001").Status)
	require.Len(t, notices.errors, 1)
	assert.Contains(t, notices.errors[0], "internal error")
	assert.Empty(t, notices.successes)
}

func TestVerifyRollbackRestoresPasses(t *testing.T) {
	features := seedFeatures()
	api := &fakeAPI{verifyErr: dasherr.ServerRejected("verify feature F003", 409, "unmet dependencies")}
	notices := &recordingNotifier{}
	m := NewMutator(api, features, notices, testLogger())

	require.Error(t, m.Verify(context.Background(), "F003", "tests green"))

	got := featureByID(features, "F003")
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.False(t, got.Passes)
}

func TestBlockAppendsReasonAndRollsBackOnFailure(t *testing.T) {
	features := seedFeatures()
	notices := &recordingNotifier{}

	m := NewMutator(&fakeAPI{}, features, notices, testLogger())
	require.NoError(t, m.Block(context.Background(), "F002", "waiting on infra"))
	got := featureByID(features, "F002")
	assert.Equal(t, models.StatusBlocked, got.Status)
	assert.Equal(t, []string{"waiting on infra"}, got.BlockedBy)

	features2 := seedFeatures()
	m2 := NewMutator(&fakeAPI{blockErr: dasherr.Network("block feature F002", context.DeadlineExceeded)}, features2, notices, testLogger())
	require.Error(t, m2.Block(context.Background(), "F002", "nope"))
	got2 := featureByID(features2, "F002")
	assert.Equal(t, models.StatusNotStarted, got2.Status)
	assert.Empty(t, got2.BlockedBy)
}

func TestSecondMutationOnBusyEntityRejected(t *testing.T) {
	features := seedFeatures()
	api := &fakeAPI{release: make(chan struct{})}
	notices := &recordingNotifier{}
	m := NewMutator(api, features, notices, testLogger())

	done := make(chan error, 1)
	go func() { done <- m.Start(context.Background(), "F001") }()

	// Wait for the first mutation to reach the API call.
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.started) == 1
	}, time.Second, 5*time.Millisecond)

	err := m.Start(context.Background(), "F001")
	require.Error(t, err)
	assert.True(t, dasherr.Is(err, dasherr.ErrCodeMutationInFlight))

	close(api.release)
	require.NoError(t, <-done)
}

func TestUnknownFeatureStillIssuesRequest(t *testing.T) {
	features := seedFeatures()
	api := &fakeAPI{}
	m := NewMutator(api, features, &recordingNotifier{}, testLogger())

	require.NoError(t, m.Start(context.Background(), "F999"))
	assert.Equal(t, []string{"F999"}, api.started)
}

func TestReorderSuccessAndRollback(t *testing.T) {
	features := seedFeatures()
	notices := &recordingNotifier{}
	m := NewMutator(&fakeAPI{}, features, notices, testLogger())

	order := []models.ReorderItem{
		{ID: "F003", Priority: 1},
		{ID: "F001", Priority: 2},
		{ID: "F002", Priority: 3},
	}
	require.NoError(t, m.Reorder(context.Background(), order))
	assert.Equal(t, 1, featureByID(features, "F003").Priority)

	features2 := seedFeatures()
	m2 := NewMutator(&fakeAPI{reorder: dasherr.ServerRejected("reorder features", 500, "")}, features2, notices, testLogger())
	require.Error(t, m2.Reorder(context.Background(), order))
	assert.Equal(t, 0, featureByID(features2, "F003").Priority)
}
