package testutil

import (
	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/settings"
)

// Identities used across session fixtures.
var (
	Me    = model.Identity{ID: "me-id", DisplayName: "Jan Kowalski", UniqueName: "jan@contoso.com"}
	Alice = model.Identity{ID: "alice-id", DisplayName: "Alice", UniqueName: "alice@contoso.com"}
)

// OrgURL is the organization of session fixtures.
const OrgURL = "https://dev.azure.com/contoso"

// NewSettings returns ready settings for project Fabrikam signed in as Me,
// with Sprint 2 of two iterations selected and Alice in the directory.
func NewSettings() *settings.Settings {
	return &settings.Settings{
		SchemaVersion: settings.SchemaVersion,
		Project: model.ProjectContext{
			ProjectID:              "proj-1",
			ProjectName:            "Fabrikam",
			CurrentUserID:          Me.ID,
			CurrentUserDisplayName: Me.DisplayName,
			CurrentUserUniqueName:  Me.UniqueName,
		},
		IterationPath: `Fabrikam\Sprint 2`,
		Iterations: []model.Iteration{
			{ID: "1", Name: "Sprint 1", Path: `Fabrikam\Sprint 1`},
			{ID: "2", Name: "Sprint 2", Path: `Fabrikam\Sprint 2`},
		},
		Users: []model.UserEntry{
			{Alias: model.MeAlias, Identity: Me},
			{Alias: Alice.UniqueName, Identity: Alice},
		},
	}
}
