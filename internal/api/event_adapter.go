package api

import (
	"context"
	"time"

	"worklog/app"
)

// ForwardSyncResults drains calendar sync results into the hub until ctx
// ends or the results channel is closed.
func ForwardSyncResults(ctx context.Context, results <-chan app.CalendarSyncResult, hub *SSEHub) {
	for {
		select {
		case <-ctx.Done():
			return
		case result, ok := <-results:
			if !ok {
				return
			}
			hub.Broadcast(toSyncEvent(result, time.Now()))
		}
	}
}

func toSyncEvent(result app.CalendarSyncResult, at time.Time) SyncEvent {
	event := SyncEvent{
		UserID:    result.UserID,
		TaskID:    result.TaskID.String(),
		Op:        string(result.Op),
		EventID:   result.EventID,
		OK:        result.Err == nil,
		Timestamp: at.UTC(),
	}
	if result.Err != nil {
		event.Error = "calendar sync failed"
	}
	return event
}
