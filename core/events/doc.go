// Package events defines the typed side-effect contract between the turn
// orchestrator and the presentation surface.
//
// The orchestrator never speaks, draws dialogs or shows notifications by
// itself; it queues events and the presentation surface drains them in order.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - speech.*
//   - dialog.*
//   - notification.*
//   - session.*
//   - turn_state.*
//   - recording.*
//   - history.*
//
// speech events
//
//   - SpeechRequested (speech.requested): text that should be read out loud,
//     with a BCP 47 language hint.
//
// dialog events
//
//   - CautionRequested (dialog.caution_requested): moderation popup.
//   - SummaryRequested (dialog.summary_requested): conversation summary popup.
//
// notification events
//
//   - Notification (notification.raised): transient message with a severity.
//
// session events
//
//   - SessionStarted (session.started): a session was created and primed.
//   - SessionReset (session.reset): the session and all derived state were
//     discarded.
//
// turn_state events
//
//   - TurnStateChanged (turn_state.changed): orchestrator state transition.
//
// recording events
//
//   - RecordingStateChanged (recording.state_changed): capture lifecycle
//     transition.
//
// history events
//
//   - HistoryUpdated (history.updated): point-in-time copy of the
//     conversation history after a batch was applied.
package events
