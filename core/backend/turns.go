package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"go.opentelemetry.io/otel/attribute"
)

const defaultClipFilename = "recording.wav"

// Clip is one recorded utterance in a WAV container.
type Clip struct {
	Data     []byte
	Filename string
}

// SubmitText sends one typed turn. Empty text is allowed and is how a new
// session is primed.
func (c *Client) SubmitText(ctx context.Context, sessionID, text string) (TextTurnResponse, error) {
	ctx, span := tracer.Start(ctx, "submit text")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("request.text_length", len(text)),
	)

	var response TextTurnResponse
	if err := c.sendJSON(ctx, span, "submit text", http.MethodPost,
		sessionPath("/send_message", sessionID), textTurnRequest{Message: text}, &response,
	); err != nil {
		return TextTurnResponse{}, err
	}
	span.SetAttributes(attribute.Int("response.history_length", len(response.History)))

	return response, nil
}

// SubmitAudio uploads one clip as the multipart form field "file".
func (c *Client) SubmitAudio(ctx context.Context, sessionID string, clip Clip) (AudioTurnResponse, error) {
	const op = "submit audio"
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("request.audio_bytes", len(clip.Data)),
	)

	filename := clip.Filename
	if filename == "" {
		filename = defaultClipFilename
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", "audio/wav")
	part, err := form.CreatePart(header)
	if err != nil {
		return AudioTurnResponse{}, recordFailure(span, &Error{Op: op, Err: fmt.Errorf("error creating form file: %w", err)})
	}
	if _, err := part.Write(clip.Data); err != nil {
		return AudioTurnResponse{}, recordFailure(span, &Error{Op: op, Err: fmt.Errorf("error writing form file: %w", err)})
	}
	if err := form.Close(); err != nil {
		return AudioTurnResponse{}, recordFailure(span, &Error{Op: op, Err: fmt.Errorf("error closing form: %w", err)})
	}

	respBody, _, err := c.send(ctx, span, op, http.MethodPost,
		sessionPath("/process_audio", sessionID), form.FormDataContentType(), body)
	if err != nil {
		return AudioTurnResponse{}, err
	}

	var response AudioTurnResponse
	if err := decode(span, op, respBody, &response); err != nil {
		return AudioTurnResponse{}, err
	}
	span.SetAttributes(attribute.Bool("response.fulfilled", response.Fulfilled))

	return response, nil
}
