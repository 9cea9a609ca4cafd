package session

import "encoding/json"

// boardState is the replayable session state of one board: the latest full
// stroke snapshot and the chat transcript. All access happens under the
// owning room's lock.
type boardState struct {
	lines      json.RawMessage
	transcript []ChatEntry
}

// setLines replaces the stroke snapshot wholesale. The payload is copied so
// later reuse of the caller's buffer cannot tear a stored snapshot.
func (st *boardState) setLines(lines json.RawMessage) {
	st.lines = append(json.RawMessage(nil), lines...)
}

func (st *boardState) appendChat(entry ChatEntry) {
	st.transcript = append(st.transcript, entry)
}

// copyLines returns the current snapshot, defaulting to an empty array so a
// board that was never drawn on replays as "no strokes" rather than null.
func (st *boardState) copyLines() json.RawMessage {
	if st.lines == nil {
		return json.RawMessage("[]")
	}
	return append(json.RawMessage(nil), st.lines...)
}

func (st *boardState) copyTranscript() []ChatEntry {
	out := make([]ChatEntry, len(st.transcript))
	copy(out, st.transcript)
	return out
}
