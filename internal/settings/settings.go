package settings

import (
	"fmt"
	"strings"

	"github.com/bjulian5/workops/internal/model"
)

// SchemaVersion is the version of the persisted settings layout.
// Files written with another version are discarded on load.
const SchemaVersion = 1

// Settings is the resolved session context: project, signed-in user,
// iterations and the known user directory.
type Settings struct {
	SchemaVersion int                  `json:"schemaVersion"`
	Project       model.ProjectContext `json:"currentProject"`
	IterationPath string               `json:"currentIterationPath"`
	Iterations    []model.Iteration    `json:"iterations"`
	Users         []model.UserEntry    `json:"cachedUserDirectory"`
}

// Ready reports whether the project and user are resolved. Fetchers are not
// run against settings that are not ready.
func (s *Settings) Ready() bool {
	return s != nil && s.Project.Ready()
}

// CurrentUser returns the signed-in user.
func (s *Settings) CurrentUser() model.Identity {
	return s.Project.CurrentUser()
}

// IsCurrentUser reports whether uniqueName is the signed-in user.
func (s *Settings) IsCurrentUser(uniqueName string) bool {
	return s.CurrentUser().Is(uniqueName)
}

// ContainsCurrentUserMention reports whether text carries the signed-in
// user's opaque mention token.
func (s *Settings) ContainsCurrentUserMention(text string) bool {
	return s.CurrentUser().IsMentionedIn(text)
}

// ContainsCurrentUserNameMention reports whether text carries a plain
// "@DisplayName" mention of the signed-in user.
func (s *Settings) ContainsCurrentUserNameMention(text string) bool {
	return s.CurrentUser().IsNameMentionedIn(text)
}

// Lookup finds a user by alias, id, unique name or display name. The
// MeAlias entry always maps to the signed-in user.
func (s *Settings) Lookup(key string) (model.Identity, error) {
	if key == "" || strings.EqualFold(key, model.MeAlias) {
		return s.CurrentUser(), nil
	}
	entry, err := model.FirstMatching(s.Users, func(u model.UserEntry) bool {
		return strings.EqualFold(u.Alias, key) ||
			strings.EqualFold(u.Identity.ID, key) ||
			strings.EqualFold(u.Identity.UniqueName, key) ||
			strings.EqualFold(u.Identity.DisplayName, key)
	})
	if err != nil {
		return model.Identity{}, fmt.Errorf("user %q: %w", key, err)
	}
	return entry.Identity, nil
}

// CurrentIteration returns the selected iteration, if it is in the list.
func (s *Settings) CurrentIteration() (model.Iteration, bool) {
	it, err := model.FirstMatching(s.Iterations, func(it model.Iteration) bool {
		return it.Path == s.IterationPath
	})
	return it, err == nil
}

// IterationLabel is the display name of it, marking the selected iteration.
func (s *Settings) IterationLabel(it model.Iteration) string {
	if it.Path == s.IterationPath {
		return it.Name + " (Current)"
	}
	return it.Name
}

// WithIteration returns a copy of s with another iteration selected.
func (s *Settings) WithIteration(path string) *Settings {
	c := *s
	c.IterationPath = path
	return &c
}
