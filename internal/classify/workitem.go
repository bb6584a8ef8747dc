package classify

import (
	"strings"

	"github.com/bjulian5/workops/internal/model"
)

// structuredMention marks mentions inserted by the web editor.
const structuredMention = "data-vss-mention"

// WorkItemClassification flags a work item for display.
type WorkItemClassification struct {
	IsActive    bool
	IsMine      bool
	IsMentioned bool
}

// ClassifyWorkItem flags item for viewer. An item assigned to the viewer
// starts out mentioned; comments are then replayed in order.
func ClassifyWorkItem(item model.WorkItem, comments []model.WorkItemComment, viewer model.Identity) WorkItemClassification {
	c := WorkItemClassification{
		IsActive: item.IsActive(),
		IsMine:   item.AssignedTo != nil && sameUser(*item.AssignedTo, viewer),
	}

	c.IsMentioned = c.IsMine
	for _, cm := range comments {
		if viewer.IsNameMentionedIn(cm.Text) {
			c.IsMentioned = true
		}
		if c.IsMine && !strings.Contains(cm.Text, structuredMention) {
			c.IsMentioned = true
		}
		if sameUser(cm.Author, viewer) {
			c.IsMentioned = false
		}
	}
	return c
}

// MentionIncluded reports whether a mentioned item is shown under filter f.
// Waiting never shows mentions.
func MentionIncluded(f model.TaskFilter, isMentioned bool) bool {
	switch f {
	case model.FilterActive:
		return isMentioned
	case model.FilterDone:
		return !isMentioned
	case model.FilterAll:
		return true
	}
	return false
}
