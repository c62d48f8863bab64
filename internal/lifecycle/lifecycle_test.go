package lifecycle

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/model"
	"github.com/Veda-rathna/mou-management-system/internal/store"
)

func newTestManager(t *testing.T) (*Manager, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	cfg := config.LifecycleConfig{UrgentDays: 30, WarningDays: 60, InfoDays: 90}
	return NewManager(st, cfg), st
}

func createMOU(t *testing.T, st store.Store, title string, status model.MOUStatus, expiry *time.Time) *model.MOU {
	t.Helper()
	ctx := context.Background()
	m, err := st.CreateMOU(ctx, model.MOU{Title: title, PartnerName: "Alpha University", ExpiryDate: expiry})
	require.NoError(t, err)
	if status != "" && status != model.MOUStatusDraft {
		require.NoError(t, st.UpdateMOUStatus(ctx, m.ID, status))
		m.Status = status
	}
	return m
}

func TestTransition_DraftToActive(t *testing.T) {
	mgr, st := newTestManager(t)
	ctx := context.Background()
	m := createMOU(t, st, "Draft MOU", model.MOUStatusDraft, nil)

	got, err := mgr.Transition(ctx, m.ID, model.MOUStatusActive, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.MOUStatusActive, got.Status)

	entries, err := st.ListActivity(ctx, m.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionStatusChange, entries[0].Action)
	assert.Equal(t, "admin", entries[0].Actor)
	assert.Equal(t, "draft -> active", entries[0].Description)
}

func TestTransition_Disallowed(t *testing.T) {
	mgr, st := newTestManager(t)
	m := createMOU(t, st, "Draft MOU", model.MOUStatusDraft, nil)

	_, err := mgr.Transition(context.Background(), m.ID, model.MOUStatusExpired, "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot move")
}

func TestTransition_SameStatusIsNoOp(t *testing.T) {
	mgr, st := newTestManager(t)
	ctx := context.Background()
	m := createMOU(t, st, "Draft MOU", model.MOUStatusDraft, nil)

	got, err := mgr.Transition(ctx, m.ID, model.MOUStatusDraft, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.MOUStatusDraft, got.Status)

	entries, err := st.ListActivity(ctx, m.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransition_ExpiredCanReactivate(t *testing.T) {
	mgr, st := newTestManager(t)
	ctx := context.Background()
	m := createMOU(t, st, "Renewed", model.MOUStatusActive, nil)
	_, err := mgr.Transition(ctx, m.ID, model.MOUStatusExpired, "admin")
	require.NoError(t, err)

	got, err := mgr.Transition(ctx, m.ID, model.MOUStatusActive, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.MOUStatusActive, got.Status)
}

func TestSweepExpired(t *testing.T) {
	mgr, st := newTestManager(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	past := now.AddDate(0, 0, -5)
	future := now.AddDate(0, 0, 30)

	overdue := createMOU(t, st, "Overdue", model.MOUStatusActive, &past)
	current := createMOU(t, st, "Current", model.MOUStatusActive, &future)
	// Past-date draft is not swept; only active records expire automatically.
	createMOU(t, st, "Stale Draft", model.MOUStatusDraft, &past)

	expired, err := mgr.SweepExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, overdue.ID, expired[0].ID)

	got, err := st.GetMOU(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MOUStatusExpired, got.Status)

	untouched, err := st.GetMOU(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MOUStatusActive, untouched.Status)

	entries, err := st.ListActivity(ctx, overdue.ID, 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, model.ActionAutoExpired, entries[0].Action)
}

func TestSweepExpired_NothingToDo(t *testing.T) {
	mgr, st := newTestManager(t)
	future := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	createMOU(t, st, "Current", model.MOUStatusActive, &future)

	expired, err := mgr.SweepExpired(context.Background(), time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestExpiringSoon_Bands(t *testing.T) {
	mgr, st := newTestManager(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	urgent := now.AddDate(0, 0, 10)
	warning := now.AddDate(0, 0, 45)
	info := now.AddDate(0, 0, 75)
	farOut := now.AddDate(0, 0, 200)

	createMOU(t, st, "Urgent", model.MOUStatusActive, &urgent)
	createMOU(t, st, "Warning", model.MOUStatusActive, &warning)
	createMOU(t, st, "Info", model.MOUStatusActive, &info)
	createMOU(t, st, "Far Out", model.MOUStatusActive, &farOut)

	got, err := mgr.ExpiringSoon(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 3)

	bands := map[string]Band{}
	days := map[string]int{}
	for _, e := range got {
		bands[e.MOU.Title] = e.Band
		days[e.MOU.Title] = e.DaysLeft
	}
	assert.Equal(t, BandUrgent, bands["Urgent"])
	assert.Equal(t, BandWarning, bands["Warning"])
	assert.Equal(t, BandInfo, bands["Info"])
	assert.Equal(t, 10, days["Urgent"])
	assert.Equal(t, 45, days["Warning"])
}

func TestExpiringSoon_BandBoundaries(t *testing.T) {
	mgr, _ := newTestManager(t)

	assert.Equal(t, BandUrgent, mgr.band(0))
	assert.Equal(t, BandUrgent, mgr.band(30))
	assert.Equal(t, BandWarning, mgr.band(31))
	assert.Equal(t, BandWarning, mgr.band(60))
	assert.Equal(t, BandInfo, mgr.band(61))
	assert.Equal(t, BandInfo, mgr.band(90))
}
