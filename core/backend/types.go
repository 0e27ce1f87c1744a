package backend

// SessionRequest opens a session for one objective.
type SessionRequest struct {
	Objective      string `json:"objective" jsonschema:"required"`
	TargetLanguage string `json:"target_language" jsonschema:"required"`
	UserLanguage   string `json:"user_language" jsonschema:"required"`
	Country        string `json:"country" jsonschema:"required"`
}

type SessionResponse struct {
	SessionID string `json:"session_id" jsonschema:"required"`
	Message   string `json:"message,omitempty"`
}

type textTurnRequest struct {
	Message string `json:"message"`
}

// HistoryEntry is a single entry of the backend's conversation record. ID and
// Timestamp are only populated by the history endpoint.
type HistoryEntry struct {
	ID        int    `json:"id,omitempty"`
	Role      string `json:"role" jsonschema:"required"`
	Content   string `json:"content" jsonschema:"required"`
	Timestamp string `json:"timestamp,omitempty"`
}

// TextTurnResponse carries the raw reply and the authoritative history,
// bootstrap entry included.
type TextTurnResponse struct {
	AssistantResponse string         `json:"assistant_response" jsonschema:"required"`
	History           []HistoryEntry `json:"history" jsonschema:"required"`
	Summary           string         `json:"summary,omitempty"`
}

type AudioTurnResponse struct {
	UserText          string `json:"user_text" jsonschema:"required"`
	AssistantResponse string `json:"assistant_response" jsonschema:"required"`
	Summary           string `json:"summary,omitempty"`
	Fulfilled         bool   `json:"fulfilled,omitempty"`
}

type SummaryResponse struct {
	Summary string `json:"summary" jsonschema:"required"`
}

type historyResponse struct {
	History []HistoryEntry `json:"history" jsonschema:"required"`
}

type deleteHistoryRequest struct {
	ID int `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type synthesizeRequest struct {
	Text     string `json:"text" jsonschema:"required"`
	Language string `json:"language,omitempty"`
}

type synthesizeResponse struct {
	AudioURL string `json:"audio_url"`
}

// Speech is the result of a synthesis request. Either Audio is set, or the
// backend only handed back AudioURL.
type Speech struct {
	Audio       []byte
	ContentType string
	AudioURL    string
}

func (s Speech) HasAudio() bool {
	return len(s.Audio) > 0
}

type errorResponse struct {
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}
