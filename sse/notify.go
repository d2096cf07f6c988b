package sse

import (
	"math"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/mcp"
)

// Convenience builders over SendNotification/BroadcastNotification. Each
// computes a fixed method name and a small params object.

// NotifyToolsListChanged broadcasts that the tool set changed.
func (m *Manager) NotifyToolsListChanged() int {
	return m.BroadcastNotification(string(mcp.ToolsListChangedNotificationMethod), nil)
}

// NotifyPromptsListChanged broadcasts that the prompt set changed.
func (m *Manager) NotifyPromptsListChanged() int {
	return m.BroadcastNotification(string(mcp.PromptsListChangedNotificationMethod), nil)
}

// NotifyResourcesListChanged broadcasts that the resource set changed.
func (m *Manager) NotifyResourcesListChanged() int {
	return m.BroadcastNotification(string(mcp.ResourcesListChangedNotificationMethod), nil)
}

// NotifyResourceUpdated tells one session that a resource's content changed.
func (m *Manager) NotifyResourceUpdated(sessionID, uri string) bool {
	return m.SendNotification(sessionID, string(mcp.ResourcesUpdatedNotificationMethod), map[string]string{
		"uri": uri,
	})
}

// SendLogMessage delivers a leveled message notification to one session.
func (m *Manager) SendLogMessage(sessionID, level, message string) bool {
	return m.SendNotification(sessionID, string(mcp.MessageNotificationMethod), map[string]string{
		"level":   level,
		"message": message,
	})
}

// SendProgress delivers a progress notification. The percentage field is
// round(100*progress/total); when total is zero the field is omitted rather
// than propagating a division by zero.
func (m *Manager) SendProgress(sessionID string, token any, progress, total float64) bool {
	params := map[string]any{
		"progressToken": token,
		"progress":      progress,
		"total":         total,
	}
	if total != 0 {
		params["percentage"] = math.Round(100 * progress / total)
	}
	return m.SendNotification(sessionID, string(mcp.ProgressNotificationMethod), params)
}
