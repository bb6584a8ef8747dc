package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bjulian5/workops/internal/model"
)

// Service is the subset of the tracking service the resolver needs.
type Service interface {
	Project(ctx context.Context, nameOrID string) (model.Project, error)
	CurrentUser(ctx context.Context) (model.Identity, error)
	Teams(ctx context.Context, projectID string) ([]model.Team, error)
	TeamIterations(ctx context.Context, projectID, teamID string) ([]model.Iteration, error)
	TeamMembers(ctx context.Context, projectID, teamID string) ([]model.Identity, error)
}

// Resolver resolves session settings and keeps the persisted copy fresh.
type Resolver struct {
	svc     Service
	store   *Store
	project string
	delay   time.Duration
	now     func() time.Time

	wg sync.WaitGroup
}

// NewResolver creates a resolver for the named project. Cached settings are
// revalidated delay after they are served.
func NewResolver(svc Service, store *Store, project string, delay time.Duration) *Resolver {
	return &Resolver{
		svc:     svc,
		store:   store,
		project: project,
		delay:   delay,
		now:     time.Now,
	}
}

// Load returns the persisted settings, or nil when none are usable.
// Files with an incompatible schema are discarded.
func (r *Resolver) Load() *Settings {
	st, err := r.store.Load()
	if err != nil {
		return nil
	}
	return st
}

// Start serves settings stale-while-revalidate. With usable cached settings
// it returns them at once and resolves fresh ones in the background; if the
// fresh ones differ they are saved and passed to onChange. Without a cache
// it resolves and saves synchronously.
func (r *Resolver) Start(ctx context.Context, onChange func(*Settings)) (*Settings, error) {
	cached := r.Load()
	if cached == nil {
		st, err := r.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		if err := r.store.Save(st); err != nil {
			return nil, err
		}
		return st, nil
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		timer := time.NewTimer(r.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		fresh, changed, err := r.Revalidate(ctx, cached)
		if err != nil || !changed {
			return
		}
		if onChange != nil {
			onChange(fresh)
		}
	}()

	return cached, nil
}

// Wait blocks until background revalidation has finished.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

// Revalidate resolves fresh settings and saves them when they serialize
// differently from cached.
func (r *Resolver) Revalidate(ctx context.Context, cached *Settings) (*Settings, bool, error) {
	fresh, err := r.Resolve(ctx)
	if err != nil {
		return nil, false, err
	}
	if equal(cached, fresh) {
		return cached, false, nil
	}
	if err := r.store.Save(fresh); err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

// Resolve queries the service for the project, user, iterations and team
// members. Without a configured or existing project it returns settings
// that are not ready.
func (r *Resolver) Resolve(ctx context.Context) (*Settings, error) {
	st := &Settings{SchemaVersion: SchemaVersion}
	if r.project == "" {
		return st, nil
	}

	project, err := r.svc.Project(ctx, r.project)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return st, nil
		}
		return nil, err
	}
	user, err := r.svc.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	st.Project = model.ProjectContext{
		ProjectID:              project.ID,
		ProjectName:            project.Name,
		CurrentUserID:          user.ID,
		CurrentUserDisplayName: user.DisplayName,
		CurrentUserUniqueName:  user.UniqueName,
	}

	teams, err := r.svc.Teams(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	iterations := make([][]model.Iteration, len(teams))
	members := make([][]model.Identity, len(teams))
	g, gctx := errgroup.WithContext(ctx)
	for i, team := range teams {
		g.Go(func() error {
			its, err := r.svc.TeamIterations(gctx, project.ID, team.ID)
			if err != nil {
				return fmt.Errorf("team %s: %w", team.Name, err)
			}
			iterations[i] = its
			return nil
		})
		g.Go(func() error {
			ms, err := r.svc.TeamMembers(gctx, project.ID, team.ID)
			if err != nil {
				return fmt.Errorf("team %s: %w", team.Name, err)
			}
			members[i] = ms
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Iteration
	for _, its := range iterations {
		all = append(all, its...)
	}
	now := r.now()
	st.Iterations = FilterIterations(all, now)
	st.IterationPath = SelectIteration(all, now)
	st.Users = buildDirectory(user, members)

	return st, nil
}

// buildDirectory lists the signed-in user under MeAlias followed by every
// other team member once.
func buildDirectory(me model.Identity, members [][]model.Identity) []model.UserEntry {
	users := []model.UserEntry{{Alias: model.MeAlias, Identity: me}}
	seen := map[string]bool{me.ID: true}
	for _, ms := range members {
		for _, m := range ms {
			if m.ID == "" || seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			users = append(users, model.UserEntry{Alias: m.UniqueName, Identity: m})
		}
	}
	return users
}

func equal(a, b *Settings) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}
