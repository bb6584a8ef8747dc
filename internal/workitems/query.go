package workitems

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bjulian5/workops/internal/model"
)

// LinkTypeChild is the hierarchy link type pointing from parent to child.
const LinkTypeChild = "System.LinkTypes.Hierarchy-Forward"

// topLevelTypes are the item types that may be assigned directly and
// anchor a group.
var topLevelTypes = []string{model.TypeBug, model.TypeUserStory, model.TypeImpediment}

var taskStates = map[model.TaskFilter][]string{
	model.FilterActive:  {model.StateReady, model.StateActive},
	model.FilterWaiting: {model.StateNew},
	model.FilterDone:    {model.StateResolved},
	model.FilterAll:     {model.StateNew, model.StateReady, model.StateActive, model.StateResolved},
}

var topLevelStates = map[model.TaskFilter][]string{
	model.FilterActive: {model.StateReady, model.StateActive},
	model.FilterAll:    {model.StateNew, model.StateReady, model.StateActive},
}

// TaskStates returns the task states a filter selects.
func TaskStates(f model.TaskFilter) []string {
	return taskStates[f]
}

// TopLevelStates returns the states of directly assigned top-level items a
// filter selects. Filters without any skip the top-level query.
func TopLevelStates(f model.TaskFilter) []string {
	return topLevelStates[f]
}

// TaskLinksQuery selects parent links of the user's tasks in the iteration.
// Rows without a relation are the parents.
func TaskLinksQuery(iterationPath string, f model.TaskFilter, user string) string {
	return "SELECT [System.Id] FROM WorkItemLinks" +
		" WHERE [System.Links.LinkType] = " + quote(LinkTypeChild) +
		" AND [Target].[System.AssignedTo] = " + userValue(user) +
		" AND [Target].[System.IterationPath] = " + iterationValue(iterationPath) +
		" AND [Target].[System.WorkItemType] = " + quote(model.TypeTask) +
		" AND [Target].[System.State] IN (" + quoteList(TaskStates(f)) + ")" +
		" MODE (MustContain)"
}

// TopLevelQuery selects top-level items assigned directly to the user.
func TopLevelQuery(iterationPath string, f model.TaskFilter, user string) string {
	return "SELECT [System.Id] FROM WorkItems" +
		" WHERE [System.AssignedTo] = " + userValue(user) +
		" AND [System.IterationPath] = " + iterationValue(iterationPath) +
		" AND [System.WorkItemType] IN (" + quoteList(topLevelTypes) + ")" +
		" AND [System.State] IN (" + quoteList(TopLevelStates(f)) + ")"
}

// ChildLinksQuery selects the direct children of the given items.
func ChildLinksQuery(parents []int) string {
	ids := make([]string, len(parents))
	for i, id := range parents {
		ids[i] = strconv.Itoa(id)
	}
	return "SELECT [System.Id] FROM WorkItemLinks" +
		" WHERE [System.Links.LinkType] = " + quote(LinkTypeChild) +
		" AND [Source].[System.Id] IN (" + strings.Join(ids, ", ") + ")" +
		" MODE (MustContain)"
}

// MentionsQuery selects items the signed-in user was recently mentioned in.
const MentionsQuery = "SELECT [System.Id] FROM WorkItems WHERE [System.Id] IN (@RecentMentions)"

func userValue(user string) string {
	if user == "" || strings.EqualFold(user, model.MeAlias) {
		return "@me"
	}
	return quote(user)
}

func iterationValue(path string) string {
	if path == "" {
		return "@CurrentIteration"
	}
	return quote(path)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return strings.Join(quoted, ", ")
}

func chunk(ids []int, size int) [][]int {
	var chunks [][]int
	for size < len(ids) {
		chunks = append(chunks, ids[:size:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func describe(f model.TaskFilter) string {
	return fmt.Sprintf("%s items", strings.ToLower(string(f)))
}
