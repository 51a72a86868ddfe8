package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evokcrm/internal/models"
)

func storedLead(id string) *models.Lead {
	return &models.Lead{
		ID:        id,
		Business:  "Biz " + id,
		Contact:   "123",
		Location:  "Somewhere",
		District:  "Kollam",
		Status:    models.StatusNew,
		Logs:      []models.LogEntry{},
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreCloneIsolation(t *testing.T) {
	store := NewMemoryLeadRepository()
	lead := storedLead("a")
	require.NoError(t, store.Create(lead))

	// mutating the argument after Create must not reach the store
	lead.Business = "mutated"

	got, err := store.GetByID("a")
	require.NoError(t, err)
	assert.Equal(t, "Biz a", got.Business)

	// mutating a returned lead must not reach the store either
	got.Status = models.StatusLost
	again, err := store.GetByID("a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, again.Status)
}

func TestMemoryStoreListInsertionOrder(t *testing.T) {
	store := NewMemoryLeadRepository()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Create(storedLead(id)))
	}
	leads, err := store.List()
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, "c", leads[0].ID)
	assert.Equal(t, "a", leads[1].ID)
	assert.Equal(t, "b", leads[2].ID)
}

func TestMemoryStoreUpdatePreservesLogs(t *testing.T) {
	store := NewMemoryLeadRepository()
	require.NoError(t, store.Create(storedLead("a")))

	entry := models.LogEntry{Date: time.Now(), From: models.StatusNew, To: models.StatusWon, Note: "n"}
	_, err := store.ApplyTransition("a", models.StatusWon, entry, nil)
	require.NoError(t, err)

	// an update payload carrying a stale or empty log must not clobber it
	edited := storedLead("a")
	edited.Business = "Renamed"
	edited.Logs = nil
	require.NoError(t, store.Update(edited))

	got, err := store.GetByID("a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Business)
	require.Len(t, got.Logs, 1)
	assert.Equal(t, "n", got.Logs[0].Note)
}

func TestMemoryStoreApplyTransition(t *testing.T) {
	store := NewMemoryLeadRepository()
	require.NoError(t, store.Create(storedLead("a")))

	meeting := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	entry := models.LogEntry{From: models.StatusNew, To: models.StatusMeetingScheduled, Note: "booked"}
	got, err := store.ApplyTransition("a", models.StatusMeetingScheduled, entry, &MeetingUpdate{
		MeetingDate: &meeting,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusMeetingScheduled, got.Status)
	require.Len(t, got.Logs, 1)
	require.NotNil(t, got.MeetingDate)
	assert.Equal(t, meeting, *got.MeetingDate)
	assert.Empty(t, got.ReminderNote, "empty members leave stored values as is")

	_, err = store.ApplyTransition("missing", models.StatusWon, entry, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreAppendLog(t *testing.T) {
	store := NewMemoryLeadRepository()
	require.NoError(t, store.Create(storedLead("a")))

	entry := models.LogEntry{From: models.StatusNew, To: models.StatusNew, Note: "note only"}
	got, err := store.AppendLog("a", entry)
	require.NoError(t, err)
	require.Len(t, got.Logs, 1)
	assert.Equal(t, models.StatusNew, got.Status)

	_, err = store.AppendLog("missing", entry)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryLeadRepository()
	require.NoError(t, store.Create(storedLead("a")))
	require.NoError(t, store.Create(storedLead("b")))

	require.NoError(t, store.Delete("a"))
	require.ErrorIs(t, store.Delete("a"), ErrNotFound)

	_, err := store.GetByID("a")
	require.ErrorIs(t, err, ErrNotFound)

	leads, err := store.List()
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "b", leads[0].ID)
}
