package session

import (
	"sync"

	"github.com/google/uuid"

	commonerrors "github.com/boardsync/backend/internal/common/errors"
	"github.com/boardsync/backend/internal/identity/domain"
)

// Session is the hub-facing half of one live connection: the board it
// belongs to, the immutable identity derived from the credential, and a
// buffered outbound queue. The transport half (Client) drains the queue;
// the hub never touches a socket directly.
type Session struct {
	id       string
	boardID  int64
	identity domain.Identity

	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewSession(boardID int64, identity domain.Identity, sendBufSize int) *Session {
	if sendBufSize <= 0 {
		sendBufSize = 256
	}
	return &Session{
		id:       uuid.NewString(),
		boardID:  boardID,
		identity: identity,
		send:     make(chan []byte, sendBufSize),
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() string                { return s.id }
func (s *Session) BoardID() int64            { return s.boardID }
func (s *Session) Identity() domain.Identity { return s.identity }

// Outbound is the frame queue the transport drains.
func (s *Session) Outbound() <-chan []byte { return s.send }

// Done closes when the session is shut down by either side.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close marks the session finished. Idempotent. The send channel itself is
// never closed so concurrent enqueues cannot panic; consumers watch Done.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// enqueue places a frame on the outbound queue without ever blocking the
// caller. A full buffer or a closed session reports a delivery failure; the
// hub treats that as the recipient's disconnect.
func (s *Session) enqueue(frame []byte) error {
	select {
	case <-s.done:
		return commonerrors.ErrSessionClosed
	default:
	}

	select {
	case s.send <- frame:
		return nil
	default:
		return commonerrors.ErrSendBufferFull
	}
}
