package session

import (
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/boardsync/backend/internal/common/logger"
)

// Client binds a Session to a websocket connection and runs the two pumps.
// The read pump owns the connection lifecycle: however it ends, the deferred
// cleanup deregisters the session and triggers the leave notice.
type Client struct {
	hub  *Hub
	conn *gorillaWS.Conn
	sess *Session
	cfg  PumpConfig
	log  *logger.Logger
}

type PumpConfig struct {
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
	MaxMsgSize int64
}

func NewClient(hub *Hub, conn *gorillaWS.Conn, sess *Session, cfg PumpConfig, log *logger.Logger) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		sess: sess,
		cfg:  cfg,
		log:  log,
	}
}

func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Criticalf("session read loop panic board_id=%d username=%s: %v",
				c.sess.BoardID(), c.sess.Identity().Username, r)
		}
		c.hub.Leave(c.sess)
		c.sess.Close()
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetReadLimit(c.cfg.MaxMsgSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if gorillaWS.IsUnexpectedCloseError(err, gorillaWS.CloseGoingAway, gorillaWS.CloseAbnormalClosure) {
				c.log.Warnf("websocket read error board_id=%d username=%s: %v",
					c.sess.BoardID(), c.sess.Identity().Username, err)
			}
			return
		}

		ev, perr := ParseEvent(data)
		if perr != nil {
			c.hub.DropEvent(c.sess, perr)
			continue
		}

		c.hub.Route(c.sess, ev)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.sess.Outbound():
			// One logical event per websocket message, always.
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(gorillaWS.TextMessage, frame); err != nil {
				return
			}

		case <-c.sess.Done():
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			c.conn.WriteMessage(gorillaWS.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(gorillaWS.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
