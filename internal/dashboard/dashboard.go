package dashboard

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bjulian5/workops/internal/ado"
	"github.com/bjulian5/workops/internal/links"
	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/pullrequests"
	"github.com/bjulian5/workops/internal/settings"
	"github.com/bjulian5/workops/internal/tree"
	"github.com/bjulian5/workops/internal/workitems"
)

// WorkItemFetcher loads work items and mentions.
type WorkItemFetcher interface {
	Fetch(ctx context.Context, project, iterationPath string, filter model.TaskFilter, user string) ([]model.WorkItem, []model.LinkEdge, error)
	FetchMentioned(ctx context.Context, project string) ([]workitems.Mentioned, error)
}

// PullRequestFetcher loads pull requests with their threads.
type PullRequestFetcher interface {
	Fetch(ctx context.Context, role pullrequests.Role, projectID string, subject model.Identity, filter model.TaskFilter) ([]pullrequests.Info, error)
}

// Options wires a Dashboard to its collaborators.
type Options struct {
	OrgURL       string
	WorkItems    WorkItemFetcher
	PullRequests PullRequestFetcher
	Links        *links.Cache
	// Open navigates to a URL. Defaults to the system browser.
	Open func(url string) error
}

// Dashboard owns the filters and the current tree, and refreshes the tree
// when either changes.
type Dashboard struct {
	opts Options

	mu       sync.Mutex
	settings *settings.Settings
	filter   model.TaskFilter
	userKey  string
	roots    []*tree.Node
	expanded map[string]bool
	gen      uint64
	linkSubs map[string]func()

	subsMu  sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New creates a dashboard showing the loading placeholder.
func New(opts Options) *Dashboard {
	if opts.Open == nil {
		opts.Open = openBrowser
	}
	return &Dashboard{
		opts:     opts,
		filter:   model.FilterActive,
		userKey:  model.MeAlias,
		roots:    []*tree.Node{tree.LoadingNode()},
		expanded: make(map[string]bool),
		linkSubs: make(map[string]func()),
		subs:     make(map[int]func()),
	}
}

// Tree returns the current root nodes.
func (d *Dashboard) Tree() []*tree.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.roots
}

// Rows returns the nodes visible through expanded parents.
func (d *Dashboard) Rows() []tree.Row {
	d.mu.Lock()
	defer d.mu.Unlock()
	return tree.Visible(d.roots)
}

// Settings returns the settings the dashboard works against.
func (d *Dashboard) Settings() *settings.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

// Filter returns the task filter.
func (d *Dashboard) Filter() model.TaskFilter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// UserKey returns the user filter as given to SetUserFilter.
func (d *Dashboard) UserKey() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.userKey
}

// Iteration is an entry of the iteration list.
type Iteration struct {
	model.Iteration
	Label   string
	Current bool
}

// Iterations lists the known iterations, marking the selected one.
func (d *Dashboard) Iterations() []Iteration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return IterationList(d.settings)
}

// IterationList lists the iterations of st, marking the selected one.
func IterationList(st *settings.Settings) []Iteration {
	if st == nil {
		return nil
	}
	out := make([]Iteration, 0, len(st.Iterations))
	for _, it := range st.Iterations {
		out = append(out, Iteration{
			Iteration: it,
			Label:     st.IterationLabel(it),
			Current:   it.Path == st.IterationPath,
		})
	}
	return out
}

// Users lists the cached user directory.
func (d *Dashboard) Users() []model.UserEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.settings == nil {
		return nil
	}
	return d.settings.Users
}

// Link returns the resolution of an inline reference, if it has resolved.
func (d *Dashboard) Link(ref tree.InlineRef) (links.Resolution, bool) {
	return d.opts.Links.Get(ref.Key)
}

// SetSettings replaces the settings and refreshes.
func (d *Dashboard) SetSettings(ctx context.Context, st *settings.Settings) {
	d.mu.Lock()
	d.settings = st
	d.mu.Unlock()
	d.Refresh(ctx)
}

// SetTaskFilter changes the task filter and refreshes.
func (d *Dashboard) SetTaskFilter(ctx context.Context, f model.TaskFilter) {
	d.mu.Lock()
	d.filter = f
	d.mu.Unlock()
	d.Refresh(ctx)
}

// SetUserFilter shows the to-do list of the user found under key and
// refreshes. Unknown users are rejected and leave the filter unchanged.
func (d *Dashboard) SetUserFilter(ctx context.Context, key string) error {
	d.mu.Lock()
	if d.settings != nil {
		if _, err := d.settings.Lookup(key); err != nil {
			d.mu.Unlock()
			return err
		}
	}
	if key == "" {
		key = model.MeAlias
	}
	d.userKey = key
	d.mu.Unlock()
	d.Refresh(ctx)
	return nil
}

// SetIteration selects another known iteration and refreshes.
func (d *Dashboard) SetIteration(ctx context.Context, path string) error {
	d.mu.Lock()
	if d.settings == nil {
		d.mu.Unlock()
		return fmt.Errorf("iteration %q: %w", path, model.ErrNotFound)
	}
	_, err := model.FirstMatching(d.settings.Iterations, func(it model.Iteration) bool {
		return it.Path == path
	})
	if err != nil {
		d.mu.Unlock()
		return fmt.Errorf("iteration %q: %w", path, err)
	}
	d.settings = d.settings.WithIteration(path)
	d.mu.Unlock()
	d.Refresh(ctx)
	return nil
}

// Refresh fetches everything for the current filters and replaces the tree.
// Any fetch failure replaces the tree with a single error node. When
// refreshes overlap, the one started last wins.
func (d *Dashboard) Refresh(ctx context.Context) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	st, filter, userKey := d.settings, d.filter, d.userKey
	d.mu.Unlock()

	if !st.Ready() {
		d.publish(gen, nil)
		return
	}

	roots, err := d.fetch(ctx, st, filter, userKey)
	if err != nil {
		roots = []*tree.Node{tree.ErrorNode(err)}
	}
	d.publish(gen, roots)
}

func (d *Dashboard) fetch(ctx context.Context, st *settings.Settings, filter model.TaskFilter, userKey string) ([]*tree.Node, error) {
	subject, err := st.Lookup(userKey)
	if err != nil {
		return nil, err
	}
	me := st.CurrentUser()
	isMe := subject.ID == me.ID

	wiqlUser := model.MeAlias
	if !isMe {
		wiqlUser = subject.UniqueName
	}

	in := tree.Input{Filter: filter, Viewer: subject}
	project := st.Project.ProjectName
	projectID := st.Project.ProjectID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, edges, err := d.opts.WorkItems.Fetch(gctx, project, st.IterationPath, filter, wiqlUser)
		if err != nil {
			return err
		}
		in.Items, in.Edges = items, edges
		return nil
	})
	if isMe && filter != model.FilterWaiting {
		g.Go(func() error {
			mentioned, err := d.opts.WorkItems.FetchMentioned(gctx, project)
			if err != nil {
				return err
			}
			in.Mentioned = mentioned
			return nil
		})
	}
	g.Go(func() error {
		created, err := d.opts.PullRequests.Fetch(gctx, pullrequests.RoleCreator, projectID, subject, filter)
		if err != nil {
			return err
		}
		in.Created = created
		return nil
	})
	g.Go(func() error {
		assigned, err := d.opts.PullRequests.Fetch(gctx, pullrequests.RoleReviewer, projectID, subject, filter)
		if err != nil {
			return err
		}
		in.Assigned = assigned
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, infos := range [][]pullrequests.Info{in.Created, in.Assigned} {
		for _, info := range infos {
			source, target, sourceRes, targetRes := links.PullRequestBranches(info.PR)
			d.opts.Links.Put(source.Key(), sourceRes)
			d.opts.Links.Put(target.Key(), targetRes)
		}
	}

	return tree.Build(in), nil
}

func (d *Dashboard) publish(gen uint64, roots []*tree.Node) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.expanded = tree.ApplyExpanded(roots, d.expanded)
	d.roots = roots
	d.mu.Unlock()

	d.notify()
}

// Toggle flips the expansion of node id. Expanding a node starts resolving
// the artifact links of the work items under it. It reports whether id
// names an expandable node.
func (d *Dashboard) Toggle(ctx context.Context, id string) bool {
	d.mu.Lock()
	n := tree.Find(d.roots, id)
	if n == nil || !n.HasChildren() {
		d.mu.Unlock()
		return false
	}
	n.Expanded = !n.Expanded
	d.expanded[id] = n.Expanded
	var items []model.WorkItem
	if n.Expanded {
		tree.Walk([]*tree.Node{n}, func(c *tree.Node, _ int) bool {
			if c.Item != nil {
				items = append(items, *c.Item)
			}
			return true
		})
	}
	d.mu.Unlock()

	d.resolveLinks(ctx, items)
	d.notify()
	return true
}

// SetExpanded expands or collapses every group and parent item.
func (d *Dashboard) SetExpanded(ctx context.Context, expanded bool) {
	d.mu.Lock()
	var items []model.WorkItem
	tree.Walk(d.roots, func(n *tree.Node, _ int) bool {
		if n.HasChildren() {
			n.Expanded = expanded
			d.expanded[n.ID] = expanded
		}
		if expanded && n.Item != nil {
			items = append(items, *n.Item)
		}
		return true
	})
	d.mu.Unlock()

	d.resolveLinks(ctx, items)
	d.notify()
}

// ResolveVisible starts resolving the artifact links of every visible work
// item.
func (d *Dashboard) ResolveVisible(ctx context.Context) {
	d.mu.Lock()
	var items []model.WorkItem
	for _, row := range tree.Visible(d.roots) {
		if row.Node.Item != nil {
			items = append(items, *row.Node.Item)
		}
	}
	d.mu.Unlock()

	d.resolveLinks(ctx, items)
}

// WaitLinks blocks until pending link resolutions have finished.
func (d *Dashboard) WaitLinks() {
	d.opts.Links.Wait()
}

// resolveLinks starts resolving the artifact links of items. Listeners are
// notified as each link resolves.
func (d *Dashboard) resolveLinks(ctx context.Context, items []model.WorkItem) {
	if len(items) == 0 {
		return
	}
	for _, it := range items {
		for _, rel := range links.Relations(it) {
			d.watchLink(rel.Key())
		}
	}
	d.opts.Links.ResolveFor(ctx, items)
}

func (d *Dashboard) watchLink(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.linkSubs[key]; ok || d.opts.Links.State(key) == links.Resolved {
		return
	}
	d.linkSubs[key] = d.opts.Links.Subscribe(key, func(links.Resolution) {
		d.linkResolved(key)
	})
}

func (d *Dashboard) linkResolved(key string) {
	d.mu.Lock()
	unsubscribe := d.linkSubs[key]
	delete(d.linkSubs, key)
	d.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	d.notify()
}

// OnChange registers fn to run after the tree changes. The returned
// function removes it.
func (d *Dashboard) OnChange(fn func()) func() {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	return func() {
		d.subsMu.Lock()
		defer d.subsMu.Unlock()
		delete(d.subs, id)
	}
}

func (d *Dashboard) notify() {
	d.subsMu.Lock()
	fns := make([]func(), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.subsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// workItemURL is the editor address of work item id.
func (d *Dashboard) workItemURL(id int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	project := ""
	if d.settings != nil {
		project = d.settings.Project.ProjectName
	}
	return ado.WorkItemURL(d.opts.OrgURL, project, id)
}
