package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/workops/internal/ado"
	"github.com/bjulian5/workops/internal/model"
)

func day(now time.Time, n int) *time.Time {
	t := now.Add(time.Duration(n) * 24 * time.Hour)
	return &t
}

func TestSelectIteration(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		iterations []model.Iteration
		want       string
	}{
		{
			name: "running iteration wins over older one",
			iterations: []model.Iteration{
				{ID: "b", Path: "P\\B", StartDate: day(now, -30), FinishDate: day(now, -10)},
				{ID: "a", Path: "P\\A", StartDate: day(now, -5), FinishDate: day(now, 5)},
			},
			want: "P\\A",
		},
		{
			name: "finish day itself still counts",
			iterations: []model.Iteration{
				{ID: "a", Path: "P\\A", StartDate: day(now, -14), FinishDate: func() *time.Time { t := now.Add(-6 * time.Hour); return &t }()},
			},
			want: "P\\A",
		},
		{
			name: "first upcoming when nothing runs",
			iterations: []model.Iteration{
				{ID: "old", Path: "P\\Old", StartDate: day(now, -30), FinishDate: day(now, -10)},
				{ID: "next", Path: "P\\Next", StartDate: day(now, 3), FinishDate: day(now, 17)},
				{ID: "later", Path: "P\\Later", StartDate: day(now, 18), FinishDate: day(now, 32)},
			},
			want: "P\\Next",
		},
		{
			name: "last retained when nothing runs or is upcoming",
			iterations: []model.Iteration{
				{ID: "1", Path: "P\\1", StartDate: day(now, -60), FinishDate: day(now, -30)},
				{ID: "2", Path: "P\\2", StartDate: day(now, -29), FinishDate: day(now, -15)},
			},
			want: "P\\2",
		},
		{
			name: "iterations finished long ago are dropped",
			iterations: []model.Iteration{
				{ID: "1", Path: "P\\1", StartDate: day(now, -90), FinishDate: day(now, -60)},
			},
			want: "",
		},
		{
			name: "missing dates count as running",
			iterations: []model.Iteration{
				{ID: "1", Path: "P\\Backlog"},
			},
			want: "P\\Backlog",
		},
		{
			name: "empty list",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectIteration(tt.iterations, now))
		})
	}
}

func TestFilterIterations_DeduplicatesByID(t *testing.T) {
	now := time.Now()
	list := FilterIterations([]model.Iteration{
		{ID: "a", Path: "first"},
		{ID: "b", Path: "other"},
		{ID: "a", Path: "second"},
	}, now)

	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Path)
}

func TestSettings_Users(t *testing.T) {
	st := &Settings{
		Project: model.ProjectContext{
			ProjectID:              "p",
			CurrentUserID:          "u1",
			CurrentUserDisplayName: "Jan Kowalski",
			CurrentUserUniqueName:  "jan@example.com",
		},
		Users: []model.UserEntry{
			{Alias: model.MeAlias, Identity: model.Identity{ID: "u1"}},
			{Alias: "ann@example.com", Identity: model.Identity{ID: "u2", DisplayName: "Ann", UniqueName: "ann@example.com"}},
		},
	}

	me, err := st.Lookup("@ME")
	require.NoError(t, err)
	assert.Equal(t, "jan@example.com", me.UniqueName)

	ann, err := st.Lookup("ann")
	require.NoError(t, err)
	assert.Equal(t, "u2", ann.ID)

	_, err = st.Lookup("nobody")
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.True(t, st.IsCurrentUser("JAN@example.com"))
	assert.True(t, st.ContainsCurrentUserMention("hi @<U1>"))
	assert.True(t, st.ContainsCurrentUserNameMention("hi @Jan Kowalski"))
	assert.False(t, st.ContainsCurrentUserNameMention("hi Jan Kowalski"))
}

func TestSettings_IterationLabel(t *testing.T) {
	st := &Settings{IterationPath: "P\\A"}
	assert.Equal(t, "Sprint A (Current)", st.IterationLabel(model.Iteration{Name: "Sprint A", Path: "P\\A"}))
	assert.Equal(t, "Sprint B", st.IterationLabel(model.Iteration{Name: "Sprint B", Path: "P\\B"}))
	assert.Equal(t, "P\\B", st.WithIteration("P\\B").IterationPath)
	assert.Equal(t, "P\\A", st.IterationPath)
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workops", "settings.json")
	store := NewStore(path)

	st, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, st)

	saved := &Settings{IterationPath: "P\\A", Project: model.ProjectContext{ProjectID: "p", CurrentUserID: "u"}}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, "P\\A", loaded.IterationPath)
	assert.True(t, loaded.Ready())
}

func TestStore_DiscardsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schemaVersion": 0, "currentIterationPath": "x"}`), 0644))

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	r := NewResolver(&ado.MockClient{}, NewStore(path), "Fabrikam", time.Second)
	assert.Nil(t, r.Load())
}

func newService() *ado.MockClient {
	svc := &ado.MockClient{}
	svc.On("Project", mock.Anything, "Fabrikam").Return(model.Project{ID: "p1", Name: "Fabrikam"}, nil)
	svc.On("CurrentUser", mock.Anything).Return(model.Identity{ID: "u1", DisplayName: "Jan", UniqueName: "jan@example.com"}, nil)
	svc.On("Teams", mock.Anything, "p1").Return([]model.Team{{ID: "t1", Name: "TeamA"}, {ID: "t2", Name: "TeamB"}}, nil)
	svc.On("TeamIterations", mock.Anything, "p1", "t1").Return([]model.Iteration{{ID: "i1", Name: "Sprint 1", Path: "Fabrikam\\Sprint 1"}}, nil)
	svc.On("TeamIterations", mock.Anything, "p1", "t2").Return([]model.Iteration{{ID: "i1", Name: "Sprint 1", Path: "Fabrikam\\Sprint 1"}}, nil)
	svc.On("TeamMembers", mock.Anything, "p1", "t1").Return([]model.Identity{{ID: "u1", UniqueName: "jan@example.com"}, {ID: "u2", UniqueName: "ann@example.com"}}, nil)
	svc.On("TeamMembers", mock.Anything, "p1", "t2").Return([]model.Identity{{ID: "u2", UniqueName: "ann@example.com"}}, nil)
	return svc
}

func TestResolver_Resolve(t *testing.T) {
	svc := newService()
	r := NewResolver(svc, NewStore(filepath.Join(t.TempDir(), "s.json")), "Fabrikam", time.Second)

	st, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.True(t, st.Ready())
	assert.Equal(t, "p1", st.Project.ProjectID)
	assert.Equal(t, "jan@example.com", st.Project.CurrentUserUniqueName)
	assert.Len(t, st.Iterations, 1)
	assert.Equal(t, "Fabrikam\\Sprint 1", st.IterationPath)
	require.Len(t, st.Users, 2)
	assert.Equal(t, model.MeAlias, st.Users[0].Alias)
	assert.Equal(t, "ann@example.com", st.Users[1].Alias)
	svc.AssertExpectations(t)
}

func TestResolver_NoProjectIsNotReady(t *testing.T) {
	svc := &ado.MockClient{}
	r := NewResolver(svc, NewStore(filepath.Join(t.TempDir(), "s.json")), "", time.Second)

	st, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Ready())
	svc.AssertNotCalled(t, "Project", mock.Anything, mock.Anything)
}

func TestResolver_UnknownProjectIsNotReady(t *testing.T) {
	svc := &ado.MockClient{}
	svc.On("Project", mock.Anything, "Missing").Return(model.Project{}, fmt.Errorf("project %q: %w", "Missing", model.ErrNotFound))
	r := NewResolver(svc, NewStore(filepath.Join(t.TempDir(), "s.json")), "Missing", time.Second)

	st, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Ready())
	svc.AssertNotCalled(t, "CurrentUser", mock.Anything)
}

func TestResolver_Start(t *testing.T) {
	t.Run("resolves synchronously without cache", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "s.json")
		r := NewResolver(newService(), NewStore(path), "Fabrikam", time.Second)

		st, err := r.Start(context.Background(), func(*Settings) { t.Fatal("unexpected change") })
		require.NoError(t, err)
		assert.True(t, st.Ready())

		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("serves cache and signals changed settings", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			store := NewStore(filepath.Join(t.TempDir(), "s.json"))
			stale := &Settings{Project: model.ProjectContext{ProjectID: "p1", ProjectName: "Old", CurrentUserID: "u1"}}
			require.NoError(t, store.Save(stale))

			r := NewResolver(newService(), store, "Fabrikam", 3*time.Second)
			start := time.Now()

			var changed atomic.Pointer[Settings]
			st, err := r.Start(context.Background(), func(s *Settings) { changed.Store(s) })
			require.NoError(t, err)
			assert.Equal(t, "Old", st.Project.ProjectName)

			r.Wait()
			assert.GreaterOrEqual(t, time.Since(start), 3*time.Second)
			require.NotNil(t, changed.Load())
			assert.Equal(t, "Fabrikam", changed.Load().Project.ProjectName)

			reloaded, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, "Fabrikam", reloaded.Project.ProjectName)
		})
	})

	t.Run("unchanged settings are not signaled", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			store := NewStore(filepath.Join(t.TempDir(), "s.json"))
			r := NewResolver(newService(), store, "Fabrikam", 3*time.Second)
			r.now = func() time.Time { return time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC) }

			fresh, err := r.Resolve(context.Background())
			require.NoError(t, err)
			require.NoError(t, store.Save(fresh))

			called := false
			_, err = r.Start(context.Background(), func(*Settings) { called = true })
			require.NoError(t, err)
			r.Wait()
			assert.False(t, called)
		})
	})
}
