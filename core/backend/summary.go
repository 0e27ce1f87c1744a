package backend

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// FetchSummary is idempotent and does not touch the conversation.
func (c *Client) FetchSummary(ctx context.Context, sessionID string) (SummaryResponse, error) {
	ctx, span := tracer.Start(ctx, "fetch summary")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	var response SummaryResponse
	if err := c.sendJSON(ctx, span, "fetch summary", http.MethodGet,
		sessionPath("/summary", sessionID), nil, &response,
	); err != nil {
		return SummaryResponse{}, err
	}

	return response, nil
}
