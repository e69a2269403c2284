package realtime

import (
	"fmt"

	"github.com/google/uuid"
)

// Event names delivered to subscribers. The payload for both is the full
// notification record.
const (
	EventNewNotification       = "new-notification"
	EventWorkspaceNotification = "workspace-notification"
)

// UserChannel returns the personal channel name for a user. A connection
// joins it once its identity is established.
func UserChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user-%s", userID)
}

// WorkspaceChannel returns the shared channel name for a workspace.
// Connections join and leave it as the client's active workspace changes.
func WorkspaceChannel(workspaceID uuid.UUID) string {
	return fmt.Sprintf("workspace-%s", workspaceID)
}
