package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamza-bely/4hybd/internal/db"
	"github.com/hamza-bely/4hybd/internal/models"
)

func testDB(t *testing.T) *SessionRepo {
	t.Helper()
	database, err := db.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewSessionRepo(database)
}

func TestPersistAndLookupSession(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	user := models.User{ID: 4, Username: "amel", Email: "amel@example.com"}
	require.NoError(t, repo.PersistSession(ctx, "tok-1", user))

	session, err := repo.SessionByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, user, session.User())

	current, err := repo.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", current.Token)
}

func TestPersistSessionReplacesPrevious(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	require.NoError(t, repo.PersistSession(ctx, "tok-1", models.User{ID: 1, Username: "a"}))
	require.NoError(t, repo.PersistSession(ctx, "tok-2", models.User{ID: 2, Username: "b"}))

	_, err := repo.SessionByToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	current, err := repo.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", current.Token)
}

func TestClearSession(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	require.NoError(t, repo.PersistSession(ctx, "tok-1", models.User{ID: 1, Username: "a"}))
	require.NoError(t, repo.ClearSession(ctx))

	_, err := repo.CurrentSession(ctx)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPreferences(t *testing.T) {
	database, err := db.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	repo := NewPreferenceRepo(database)
	ctx := context.Background()

	_, err = repo.Preference(ctx, "max_distance_km")
	assert.ErrorIs(t, err, ErrPreferenceNotFound)

	require.NoError(t, repo.SetPreference(ctx, "max_distance_km", "10"))
	require.NoError(t, repo.SetPreference(ctx, "max_distance_km", "25"))

	value, err := repo.Preference(ctx, "max_distance_km")
	require.NoError(t, err)
	assert.Equal(t, "25", value)

	all, err := repo.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"max_distance_km": "25"}, all)

	require.NoError(t, repo.DeletePreference(ctx, "max_distance_km"))
	_, err = repo.Preference(ctx, "max_distance_km")
	assert.ErrorIs(t, err, ErrPreferenceNotFound)
}
