package backend

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// StartSession creates a session for the objective. The backend does not
// produce an opening reply; callers follow up with an empty SubmitText.
func (c *Client) StartSession(ctx context.Context, request SessionRequest) (SessionResponse, error) {
	ctx, span := tracer.Start(ctx, "start session")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.target_language", request.TargetLanguage),
		attribute.String("session.user_language", request.UserLanguage),
		attribute.String("session.country", request.Country),
	)

	var response SessionResponse
	if err := c.sendJSON(ctx, span, "start session", http.MethodPost, "/set_objective", request, &response); err != nil {
		return SessionResponse{}, err
	}
	span.SetAttributes(attribute.String("session.id", response.SessionID))

	return response, nil
}
