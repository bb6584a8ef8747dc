package model

import (
	"fmt"
	"strings"
)

// Work item types the fetcher and tree builder care about.
const (
	TypeTask       = "Task"
	TypeBug        = "Bug"
	TypeUserStory  = "User Story"
	TypeFeature    = "Feature"
	TypeImpediment = "Impediment"
)

// Work item states.
const (
	StateNew       = "New"
	StateActive    = "Active"
	StateReady     = "Ready"
	StateResolved  = "Resolved"
	StateCompleted = "Completed"
	StateClosed    = "Closed"
	StateRemoved   = "Removed"
)

// RelArtifactLink is the relation type of links to git artifacts.
const RelArtifactLink = "ArtifactLink"

// WorkItem is a fetched work item. Parent/child links are kept apart in LinkEdge.
type WorkItem struct {
	ID         int
	Type       string
	Title      string
	State      string
	AssignedTo *Identity
	AreaPath   string
	Priority   int
	Release    string
	Relations  []ArtifactLink
}

// IsTask reports whether the item is a Task. Tasks never anchor a group.
func (w *WorkItem) IsTask() bool {
	return w.Type == TypeTask
}

// IsActive reports whether the item is in a working state.
func (w *WorkItem) IsActive() bool {
	return w.State == StateActive || w.State == StateReady
}

// ArtifactLink is a relation entry on a work item.
type ArtifactLink struct {
	Rel string
	URL string
}

// LinkEdge is a parent/child edge between two work items.
type LinkEdge struct {
	SourceID   int
	TargetID   int
	IsChildRel bool
}

// LinkRow is one row of a link query result. Rows without a relation
// carry only a target and mark a query root.
type LinkRow struct {
	SourceID int
	TargetID int
	Rel      string
}

// WorkItemComment is one entry of a work item's discussion.
type WorkItemComment struct {
	Author Identity
	Text   string
}

// StateIndex orders states for display sorting.
func StateIndex(state string) int {
	switch state {
	case StateNew:
		return 1
	case StateActive:
		return 2
	case StateReady:
		return 3
	case StateResolved:
		return 4
	case StateCompleted:
		return 5
	case StateClosed:
		return 6
	case StateRemoved:
		return 7
	default:
		return 8
	}
}

// TaskFilter selects which items and pull requests a refresh includes.
type TaskFilter string

const (
	FilterActive  TaskFilter = "Active"
	FilterWaiting TaskFilter = "Waiting"
	FilterDone    TaskFilter = "Done"
	FilterAll     TaskFilter = "All"
)

// TaskFilters lists filters in display order.
var TaskFilters = []TaskFilter{FilterActive, FilterWaiting, FilterDone, FilterAll}

// ParseTaskFilter parses a filter name case-insensitively.
func ParseTaskFilter(s string) (TaskFilter, error) {
	for _, f := range TaskFilters {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown task filter %q (want one of Active, Waiting, Done, All)", s)
}

// Next returns the filter after f, wrapping around.
func (f TaskFilter) Next() TaskFilter {
	for i, v := range TaskFilters {
		if v == f {
			return TaskFilters[(i+1)%len(TaskFilters)]
		}
	}
	return FilterActive
}
