package backend

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

func (c *Client) FetchHistory(ctx context.Context, sessionID string) ([]HistoryEntry, error) {
	ctx, span := tracer.Start(ctx, "fetch history")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	var response historyResponse
	if err := c.sendJSON(ctx, span, "fetch history", http.MethodGet,
		sessionPath("/history", sessionID), nil, &response,
	); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("response.history_length", len(response.History)))

	return response.History, nil
}

// DeleteHistoryEntry removes one entry by the ID the history endpoint
// reported for it.
func (c *Client) DeleteHistoryEntry(ctx context.Context, sessionID string, entryID int) error {
	ctx, span := tracer.Start(ctx, "delete history entry")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("history.entry_id", entryID),
	)

	var response messageResponse
	return c.sendJSON(ctx, span, "delete history entry", http.MethodDelete,
		sessionPath("/history", sessionID), deleteHistoryRequest{ID: entryID}, &response)
}
