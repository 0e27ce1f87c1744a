package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// SynthesizeText asks the backend to render text as speech. The backend
// answers either with audio bytes or with a JSON body naming an audio URL.
func (c *Client) SynthesizeText(ctx context.Context, text, language string) (Speech, error) {
	const op = "synthesize text"
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(
		attribute.String("request.language", language),
		attribute.Int("request.text_length", len(text)),
	)

	requestBodyBytes, err := json.Marshal(synthesizeRequest{Text: text, Language: language})
	if err != nil {
		return Speech{}, recordFailure(span, &Error{Op: op, Err: fmt.Errorf("error marshalling JSON: %w", err)})
	}

	respBody, header, err := c.send(ctx, span, op, http.MethodPost, "/synthesize_text",
		"application/json", bytes.NewReader(requestBodyBytes))
	if err != nil {
		return Speech{}, err
	}

	contentType := header.Get("Content-Type")
	span.SetAttributes(attribute.String("response.content_type", contentType))
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType == "application/json" {
		var response synthesizeResponse
		if err := decode(span, op, respBody, &response); err != nil {
			return Speech{}, err
		}
		return Speech{AudioURL: response.AudioURL}, nil
	}

	return Speech{Audio: respBody, ContentType: contentType}, nil
}
