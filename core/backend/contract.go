package backend

import (
	"github.com/invopop/jsonschema"
)

// ContractSchemas returns JSON Schemas for every body exchanged with the
// backend, keyed by "<operation>.<request|response>".
func ContractSchemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}

	return map[string]*jsonschema.Schema{
		"start_session.request":         reflector.Reflect(&SessionRequest{}),
		"start_session.response":        reflector.Reflect(&SessionResponse{}),
		"submit_text.request":           reflector.Reflect(&textTurnRequest{}),
		"submit_text.response":          reflector.Reflect(&TextTurnResponse{}),
		"submit_audio.response":         reflector.Reflect(&AudioTurnResponse{}),
		"fetch_summary.response":        reflector.Reflect(&SummaryResponse{}),
		"fetch_history.response":        reflector.Reflect(&historyResponse{}),
		"delete_history_entry.request":  reflector.Reflect(&deleteHistoryRequest{}),
		"delete_history_entry.response": reflector.Reflect(&messageResponse{}),
		"synthesize_text.request":       reflector.Reflect(&synthesizeRequest{}),
		"synthesize_text.response":      reflector.Reflect(&synthesizeResponse{}),
		"error.response":                reflector.Reflect(&errorResponse{}),
	}
}
