package links

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bjulian5/workops/internal/model"
)

// State is the resolution progress of a cache key.
type State int

const (
	Unresolved State = iota
	Resolving
	Resolved
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "unresolved"
	}
}

// Resolution is the display record of a resolved artifact link.
type Resolution struct {
	Name  string
	Title string
	URL   string
	// Degraded marks entries stored after a failed lookup.
	Degraded bool
}

// Degraded is the entry stored when the artifact behind label is gone or
// cannot be read.
func Degraded(label string) Resolution {
	return Resolution{
		Name:     label + " [R]",
		Title:    label + " [Removed]",
		Degraded: true,
	}
}

// Service is the subset of the source-control service the cache needs.
type Service interface {
	PullRequestByID(ctx context.Context, projectID string, id int) (model.PullRequest, error)
	Branch(ctx context.Context, projectID, repositoryID, name string) (model.BranchRef, error)
	Commit(ctx context.Context, projectID, repositoryID, commitID string) (model.CommitRef, error)
}

// Cache resolves artifact links at most once per key for the life of the
// process and notifies subscribers when a key resolves.
type Cache struct {
	svc   Service
	group singleflight.Group
	wg    sync.WaitGroup

	mu       sync.Mutex
	entries  map[string]Resolution
	inflight map[string]bool
	subs     map[string]map[int]func(Resolution)
	nextSub  int
}

// NewCache creates an empty cache backed by svc.
func NewCache(svc Service) *Cache {
	return &Cache{
		svc:      svc,
		entries:  make(map[string]Resolution),
		inflight: make(map[string]bool),
		subs:     make(map[string]map[int]func(Resolution)),
	}
}

// State reports how far key has progressed.
func (c *Cache) State(key string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return Resolved
	}
	if c.inflight[key] {
		return Resolving
	}
	return Unresolved
}

// Get returns the resolution of key, if any.
func (c *Cache) Get(key string) (Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	return r, ok
}

// Put stores a resolution that is already known, such as the branches of a
// fetched pull request. Resolved keys are left unchanged.
func (c *Cache) Put(key string, r Resolution) {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return
	}
	c.entries[key] = r
	subs := c.subscribersLocked(key)
	c.mu.Unlock()

	notify(subs, r)
}

// Subscribe registers fn to run after key resolves. The returned function
// removes the subscription.
func (c *Cache) Subscribe(key string, fn func(Resolution)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	if c.subs[key] == nil {
		c.subs[key] = make(map[int]func(Resolution))
	}
	c.subs[key][id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs[key], id)
		if len(c.subs[key]) == 0 {
			delete(c.subs, key)
		}
	}
}

// ResolveFor starts background resolution of every artifact relation of items.
func (c *Cache) ResolveFor(ctx context.Context, items []model.WorkItem) {
	for _, it := range items {
		for _, rel := range Relations(it) {
			c.ResolveAsync(ctx, rel)
		}
	}
}

// ResolveAsync starts resolving rel unless it is resolved or in flight.
func (c *Cache) ResolveAsync(ctx context.Context, rel Relation) {
	key := rel.Key()
	c.mu.Lock()
	if _, ok := c.entries[key]; ok || c.inflight[key] {
		c.mu.Unlock()
		return
	}
	c.inflight[key] = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.resolve(ctx, rel)
	}()
}

// Resolve resolves rel and waits for the result. Concurrent callers for one
// key share a single lookup.
func (c *Cache) Resolve(ctx context.Context, rel Relation) Resolution {
	key := rel.Key()
	c.mu.Lock()
	if r, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return r
	}
	c.inflight[key] = true
	c.mu.Unlock()

	return c.resolve(ctx, rel)
}

// Wait blocks until every background resolution has finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) resolve(ctx context.Context, rel Relation) Resolution {
	key := rel.Key()
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.Lock()
		if r, ok := c.entries[key]; ok {
			delete(c.inflight, key)
			c.mu.Unlock()
			return r, nil
		}
		c.mu.Unlock()

		r := c.lookup(ctx, rel)

		c.mu.Lock()
		if r.Degraded && ctx.Err() != nil {
			// a cancelled lookup leaves the key unresolved for a later caller
			delete(c.inflight, key)
			c.mu.Unlock()
			return r, nil
		}
		c.entries[key] = r
		delete(c.inflight, key)
		subs := c.subscribersLocked(key)
		c.mu.Unlock()

		notify(subs, r)
		return r, nil
	})
	return v.(Resolution)
}

// lookup fetches the artifact behind rel. Failures become degraded entries,
// which resolve keeps unless ctx was cancelled.
func (c *Cache) lookup(ctx context.Context, rel Relation) Resolution {
	a, err := ParseArtifact(rel.URI)
	if err != nil {
		return Degraded(string(rel.Kind))
	}

	switch rel.Kind {
	case KindPR, KindPRBranch:
		id, err := strconv.Atoi(a.Ref)
		if err != nil {
			return Degraded(shortLabel(rel.Kind, a))
		}
		pr, err := c.svc.PullRequestByID(ctx, a.ProjectID, id)
		if err != nil {
			return Degraded(shortLabel(rel.Kind, a))
		}
		if rel.Kind == KindPR {
			return Resolution{Name: fmt.Sprintf("!%d", pr.ID), Title: pr.Title, URL: pr.WebURL}
		}
		name := model.BranchName(pr.SourceRef)
		return Resolution{Name: name, Title: pr.SourceRef, URL: model.BranchWebURL(pr.RepoWebURL, name)}

	case KindCommit:
		cm, err := c.svc.Commit(ctx, a.ProjectID, a.RepositoryID, a.Ref)
		if err != nil {
			return Degraded(shortLabel(rel.Kind, a))
		}
		title, _, _ := strings.Cut(cm.Comment, "\n")
		return Resolution{Name: shortSHA(cm.ID), Title: title, URL: cm.WebURL}

	case KindBranch:
		b, err := c.svc.Branch(ctx, a.ProjectID, a.RepositoryID, a.Ref)
		if err != nil {
			return Degraded(shortLabel(rel.Kind, a))
		}
		return Resolution{Name: b.Name, Title: b.Name, URL: b.WebURL}
	}

	return Degraded(shortLabel(rel.Kind, a))
}

func (c *Cache) subscribersLocked(key string) []func(Resolution) {
	subs := make([]func(Resolution), 0, len(c.subs[key]))
	for _, fn := range c.subs[key] {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Resolution), r Resolution) {
	for _, fn := range subs {
		fn(r)
	}
}
