package session

import (
	"sync"

	commonerrors "github.com/boardsync/backend/internal/common/errors"
	"github.com/boardsync/backend/internal/common/logger"
	"github.com/boardsync/backend/internal/observability/metrics"
)

// Hub owns per-board membership and session state. Boards are independent:
// each has its own lock, so traffic on one board never serializes against
// another. Board state outlives membership: a board drawn on and abandoned
// replays its strokes to the next joiner.
type Hub struct {
	mu     sync.RWMutex
	boards map[int64]*boardRoom
	log    *logger.Logger
}

type boardRoom struct {
	mu      sync.Mutex
	members map[*Session]struct{}
	state   boardState
}

// Snapshot is the atomically captured replay state of one board.
type Snapshot struct {
	Lines   []byte
	Chat    []ChatEntry
	Members []string
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		boards: make(map[int64]*boardRoom),
		log:    log,
	}
}

func (h *Hub) room(boardID int64) *boardRoom {
	h.mu.RLock()
	room, ok := h.boards[boardID]
	h.mu.RUnlock()
	if ok {
		return room
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.boards[boardID]; ok {
		return room
	}
	room = &boardRoom{members: make(map[*Session]struct{})}
	h.boards[boardID] = room
	return room
}

// Join registers the session on its board, announces it to the members that
// were already present, and replays the current board state to the joiner.
// The whole sequence runs under the board lock so the joiner cannot observe
// a torn snapshot or miss an event routed concurrently.
func (h *Hub) Join(s *Session) error {
	room := h.room(s.boardID)

	room.mu.Lock()
	if _, ok := room.members[s]; ok {
		room.mu.Unlock()
		return commonerrors.ErrAlreadyJoined
	}

	joinNotice := marshalFrame(presenceFrame{Type: TypeJoin, User: s.identity.Username})
	failed := room.broadcastLocked(s, joinNotice)

	room.members[s] = struct{}{}
	memberCount := len(room.members)

	// Replay goes only to the joiner: strokes first, then the transcript.
	replayErr := s.enqueue(marshalFrame(linesReplayFrame{Type: TypeLines, Lines: room.state.copyLines()}))
	if replayErr == nil {
		replayErr = s.enqueue(marshalFrame(chatHistoryFrame{Type: TypeChatHistory, Chat: room.state.copyTranscript()}))
	}
	room.mu.Unlock()

	metrics.SessionConnectionsActive.Inc()
	metrics.SessionConnectionsTotal.Inc()
	if memberCount == 1 {
		metrics.SessionBoardsActive.Inc()
	}

	h.log.WithFields(nil, logger.Fields{
		"board_id": s.boardID,
		"username": s.identity.Username,
		"members":  memberCount,
		"action":   "session_join",
	}).Info("session joined board")

	h.evict(failed)

	if replayErr != nil {
		// The joiner could not even absorb the replay; treat as disconnect.
		h.evict([]*Session{s})
		return replayErr
	}
	return nil
}

// Leave removes the session from its board and announces the departure to
// the remaining members. Idempotent: a second call for the same session is
// a no-op, so the abrupt-disconnect path and the delivery-failure path can
// both run it safely.
func (h *Hub) Leave(s *Session) {
	room := h.room(s.boardID)

	room.mu.Lock()
	if _, ok := room.members[s]; !ok {
		room.mu.Unlock()
		return
	}
	delete(room.members, s)
	memberCount := len(room.members)

	leaveNotice := marshalFrame(presenceFrame{Type: TypeLeave, User: s.identity.Username})
	failed := room.broadcastLocked(nil, leaveNotice)
	room.mu.Unlock()

	metrics.SessionConnectionsActive.Dec()
	if memberCount == 0 {
		metrics.SessionBoardsActive.Dec()
	}

	h.log.WithFields(nil, logger.Fields{
		"board_id": s.boardID,
		"username": s.identity.Username,
		"members":  memberCount,
		"action":   "session_leave",
	}).Info("session left board")

	h.evict(failed)
}

// Route applies one validated event: mutates board state where the event
// type calls for it and fans the derived frame out to every other member.
func (h *Hub) Route(s *Session, ev Event) {
	if _, ok := ev.(AuthEvent); ok {
		h.dropEvent(s, errUnexpectedAuth)
		return
	}

	room := h.room(s.boardID)
	user := s.identity.Username

	var frame []byte

	room.mu.Lock()
	if _, ok := room.members[s]; !ok {
		// The sender was evicted concurrently; late events go nowhere.
		room.mu.Unlock()
		return
	}

	switch e := ev.(type) {
	case ChatEvent:
		room.state.appendChat(ChatEntry{Username: user, Content: e.Message})
		frame = marshalFrame(chatFrame{Type: TypeChat, User: user, Message: e.Message})
	case LinesEvent:
		room.state.setLines(e.Lines)
		frame = marshalFrame(linesFrame{Type: TypeLines, User: user, Lines: e.Lines})
	case MouseEvent:
		frame = marshalFrame(mouseFrame{Type: TypeMouse, User: user, X: e.X, Y: e.Y})
	case ToolEvent:
		frame = marshalFrame(toolFrame{Type: TypeTool, User: user, Tool: e.Tool})
	default:
		room.mu.Unlock()
		h.dropEvent(s, errUnknownType)
		return
	}

	failed := room.broadcastLocked(s, frame)
	room.mu.Unlock()

	metrics.SessionEventsTotal.WithLabelValues(string(ev.Type())).Inc()
	h.evict(failed)
}

// SnapshotFor captures the board's replay state and member list atomically
// with respect to concurrent Route calls.
func (h *Hub) SnapshotFor(boardID int64) Snapshot {
	room := h.room(boardID)

	room.mu.Lock()
	defer room.mu.Unlock()

	members := make([]string, 0, len(room.members))
	for s := range room.members {
		members = append(members, s.identity.Username)
	}

	return Snapshot{
		Lines:   room.state.copyLines(),
		Chat:    room.state.copyTranscript(),
		Members: members,
	}
}

// DropEvent records an inbound frame that failed validation. The connection
// stays joined; this is deliberately permissive.
func (h *Hub) DropEvent(s *Session, reason error) {
	h.dropEvent(s, reason)
}

func (h *Hub) dropEvent(s *Session, reason error) {
	metrics.SessionEventsDroppedTotal.WithLabelValues(reason.Error()).Inc()
	if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(nil, logger.Fields{
			"board_id": s.boardID,
			"username": s.identity.Username,
			"action":   "session_event_dropped",
		}).Debugf("event dropped: %v", reason)
	}
}

// broadcastLocked enqueues frame to every member except skip and reports the
// members whose queues rejected it. Enqueue never blocks, so one slow or
// dead peer cannot stall delivery to the rest. Caller holds room.mu.
func (room *boardRoom) broadcastLocked(skip *Session, frame []byte) []*Session {
	var failed []*Session
	for member := range room.members {
		if member == skip {
			continue
		}
		if err := member.enqueue(frame); err != nil {
			failed = append(failed, member)
		}
	}
	return failed
}

// evict treats each failed recipient as disconnected: close its session and
// run the normal leave path. Runs outside any room lock.
func (h *Hub) evict(failed []*Session) {
	for _, s := range failed {
		metrics.SessionBroadcastFailuresTotal.Inc()
		h.log.WithFields(nil, logger.Fields{
			"board_id": s.boardID,
			"username": s.identity.Username,
			"action":   "session_evict",
		}).Warn("delivery failed, evicting member")
		s.Close()
		h.Leave(s)
	}
}
