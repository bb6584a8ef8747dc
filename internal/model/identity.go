package model

import "strings"

// MeAlias is the user-filter alias that always maps to the signed-in user.
const MeAlias = "@me"

// Identity is a user as reported by the tracking service.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
}

// IsZero reports whether the identity carries no id and no unique name.
func (i Identity) IsZero() bool {
	return i.ID == "" && i.UniqueName == ""
}

// Is reports whether uniqueName belongs to this identity (case-insensitive).
func (i Identity) Is(uniqueName string) bool {
	return i.UniqueName != "" && strings.EqualFold(i.UniqueName, uniqueName)
}

// MentionToken returns the opaque mention marker used in pull request comments.
func (i Identity) MentionToken() string {
	if i.ID == "" {
		return ""
	}
	return "@<" + i.ID + ">"
}

// IsMentionedIn reports whether text contains this identity's opaque mention token.
func (i Identity) IsMentionedIn(text string) bool {
	return containsFold(text, i.MentionToken())
}

// IsNameMentionedIn reports whether text contains a plain "@DisplayName" mention.
func (i Identity) IsNameMentionedIn(text string) bool {
	if i.DisplayName == "" {
		return false
	}
	return containsFold(text, "@"+i.DisplayName)
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ProjectContext is the project and signed-in user a session works against.
type ProjectContext struct {
	ProjectID              string `json:"projectId"`
	ProjectName            string `json:"projectName"`
	CurrentUserID          string `json:"currentUserId"`
	CurrentUserDisplayName string `json:"currentUserDisplayName"`
	CurrentUserUniqueName  string `json:"currentUserUniqueName"`
}

// Ready reports whether both the project and the user are known.
func (p ProjectContext) Ready() bool {
	return p.ProjectID != "" && p.CurrentUserID != ""
}

// CurrentUser returns the signed-in user as an Identity.
func (p ProjectContext) CurrentUser() Identity {
	return Identity{
		ID:          p.CurrentUserID,
		DisplayName: p.CurrentUserDisplayName,
		UniqueName:  p.CurrentUserUniqueName,
	}
}

// Team is a project team.
type Team struct {
	ID   string
	Name string
}

// UserEntry is one row of the cached user directory.
type UserEntry struct {
	Alias    string   `json:"alias"`
	Identity Identity `json:"identity"`
}

// Project is a tracking-service project.
type Project struct {
	ID   string
	Name string
}
