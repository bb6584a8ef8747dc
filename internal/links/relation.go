package links

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bjulian5/workops/internal/model"
)

// Kind is the kind of artifact a relation points at.
type Kind string

const (
	KindPR       Kind = "pr"
	KindPRBranch Kind = "prbranch"
	KindCommit   Kind = "commit"
	KindBranch   Kind = "branch"
)

// Relation is one resolvable artifact reference of a work item.
type Relation struct {
	Kind Kind
	URI  string
}

// Key identifies the relation in the cache.
func (r Relation) Key() string {
	return Key(r.Kind, r.URI)
}

// Key builds a cache key from a kind and a raw artifact URI.
func Key(kind Kind, uri string) string {
	return string(kind) + uri
}

// Relations lists the resolvable artifact relations of item. A pull
// request link yields both the request and its source branch.
func Relations(item model.WorkItem) []Relation {
	var rels []Relation
	for _, l := range item.Relations {
		if l.Rel != model.RelArtifactLink {
			continue
		}
		switch {
		case strings.Contains(l.URL, "/PullRequestId/"):
			rels = append(rels, Relation{Kind: KindPR, URI: l.URL}, Relation{Kind: KindPRBranch, URI: l.URL})
		case strings.Contains(l.URL, "/Commit/"):
			rels = append(rels, Relation{Kind: KindCommit, URI: l.URL})
		case strings.Contains(l.URL, "/Ref/"):
			rels = append(rels, Relation{Kind: KindBranch, URI: l.URL})
		}
	}
	return rels
}

// Artifact is a parsed git artifact URI of the form
// vstfs:///Git/<Type>/<project>%2F<repository>%2F<ref>.
type Artifact struct {
	ProjectID    string
	RepositoryID string
	Ref          string
}

// ParseArtifact splits a git artifact URI into its parts. Branch refs lose
// their "GB" prefix.
func ParseArtifact(uri string) (Artifact, error) {
	const prefix = "vstfs:///Git/"
	if !strings.HasPrefix(uri, prefix) {
		return Artifact{}, fmt.Errorf("not a git artifact: %s", uri)
	}
	rest := strings.TrimPrefix(uri, prefix)

	typ, encoded, ok := strings.Cut(rest, "/")
	if !ok {
		return Artifact{}, fmt.Errorf("malformed artifact: %s", uri)
	}
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return Artifact{}, fmt.Errorf("malformed artifact %s: %w", uri, err)
	}

	parts := strings.SplitN(decoded, "/", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Artifact{}, fmt.Errorf("malformed artifact: %s", uri)
	}

	a := Artifact{ProjectID: parts[0], RepositoryID: parts[1], Ref: parts[2]}
	if typ == "Ref" {
		a.Ref = strings.TrimPrefix(a.Ref, "GB")
	}
	return a, nil
}

// BranchURI builds the artifact URI of a branch.
func BranchURI(projectID, repositoryID, branch string) string {
	return "vstfs:///Git/Ref/" + projectID + "%2F" + repositoryID + "%2FGB" + strings.ReplaceAll(branch, "/", "%2F")
}

// PullRequestBranches returns the pre-resolved source and target branch
// entries of pr, keyed the way work item branch links are.
func PullRequestBranches(pr model.PullRequest) (source, target Relation, sourceRes, targetRes Resolution) {
	branch := func(ref string) (Relation, Resolution) {
		name := model.BranchName(ref)
		rel := Relation{Kind: KindBranch, URI: BranchURI(pr.ProjectID, pr.RepositoryID, name)}
		return rel, Resolution{Name: name, Title: name, URL: model.BranchWebURL(pr.RepoWebURL, name)}
	}
	source, sourceRes = branch(pr.SourceRef)
	target, targetRes = branch(pr.TargetRef)
	return source, target, sourceRes, targetRes
}

// shortLabel is the identifier shown for an artifact whose lookup failed.
func shortLabel(kind Kind, a Artifact) string {
	switch kind {
	case KindCommit:
		return shortSHA(a.Ref)
	case KindPR, KindPRBranch:
		return "!" + a.Ref
	}
	return a.Ref
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
