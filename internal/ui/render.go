package ui

import (
	"strings"
	"time"

	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/settings"
)

// RenderHeader renders the session context above the tree.
func RenderHeader(st *settings.Settings, filter model.TaskFilter, userKey string) string {
	if !st.Ready() {
		return BoxStyle.Render(WarningStyle.Render("Not connected to a project"))
	}

	iteration := st.IterationPath
	if it, ok := st.CurrentIteration(); ok {
		iteration = st.IterationLabel(it)
	}
	if iteration == "" {
		iteration = "@CurrentIteration"
	}

	user := st.CurrentUser().DisplayName
	if userKey != "" && !strings.EqualFold(userKey, model.MeAlias) {
		if id, err := st.Lookup(userKey); err == nil {
			user = id.DisplayName
		}
	}

	pairs := map[string]string{
		"Project":   Highlight(st.Project.ProjectName),
		"User":      user,
		"Iteration": iteration,
		"Filter":    string(filter),
	}
	return BoxStyle.Render(RenderKeyValueList(pairs, []string{"Project", "User", "Iteration", "Filter"}))
}

// RenderError renders an error for display inside other output.
func RenderError(err error) string {
	return ErrorStyle.Render("✗ " + err.Error())
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
