package dashboard

import (
	"fmt"

	"github.com/pkg/browser"

	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/tree"
)

func openBrowser(url string) error {
	return browser.OpenURL(url)
}

// Select returns the address node id navigates to: the editor of a work
// item, or the web page of a pull request. Other ids return "".
func (d *Dashboard) Select(id string) (string, error) {
	target := tree.ParseID(id)
	switch target.Kind {
	case tree.TargetWorkItem:
		return d.workItemURL(target.ID), nil
	case tree.TargetPullRequest:
		d.mu.Lock()
		n := tree.Find(d.roots, id)
		d.mu.Unlock()
		if n == nil || n.URL == "" {
			return "", fmt.Errorf("pull request node %q: %w", id, model.ErrNotFound)
		}
		return n.URL, nil
	}
	return "", nil
}

// Open navigates to the address of node id. Inert ids do nothing.
func (d *Dashboard) Open(id string) (string, error) {
	url, err := d.Select(id)
	if err != nil || url == "" {
		return url, err
	}
	if err := d.opts.Open(url); err != nil {
		return url, fmt.Errorf("failed to open %s: %w", url, err)
	}
	return url, nil
}

// Navigable lists the nodes Open can navigate to, in tree order.
func (d *Dashboard) Navigable() []*tree.Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	var nodes []*tree.Node
	tree.Walk(d.roots, func(n *tree.Node, _ int) bool {
		if tree.ParseID(n.ID).Kind != tree.TargetNone {
			nodes = append(nodes, n)
		}
		return true
	})
	return nodes
}
