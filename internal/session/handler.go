package session

import (
	"net/http"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/boardsync/backend/internal/common/config"
	commonhttp "github.com/boardsync/backend/internal/common/http"
	"github.com/boardsync/backend/internal/common/jwtverify"
	"github.com/boardsync/backend/internal/common/logger"
	"github.com/boardsync/backend/internal/identity/domain"
	"github.com/boardsync/backend/internal/observability/metrics"
)

const wsPrefix = "/whiteboard/"

// Handler upgrades /whiteboard/{id} requests and walks each connection
// through the lifecycle: Connecting -> Authenticating -> Joined -> Closed.
// The first frame must be an auth event; everything after a successful join
// is handled by the client pumps.
type Handler struct {
	hub      *Hub
	verifier *jwtverify.Verifier
	cfg      config.BoardConfig
	upgrader gorillaWS.Upgrader
	log      *logger.Logger
}

func NewHandler(hub *Hub, verifier *jwtverify.Verifier, cfg config.BoardConfig, log *logger.Logger) http.Handler {
	h := &Handler{
		hub:      hub,
		verifier: verifier,
		cfg:      cfg,
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == cfg.AllowedOrigin
			},
		},
		log: log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(wsPrefix, h.handleWebSocket)
	return mux
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	boardID, err := commonhttp.ParseBoardID(r.URL.Path, wsPrefix)
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidBoardIDFormat, "board id must be an integer", nil, "")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"board_id": boardID,
			"action":   "ws_upgrade_failed",
		}).Errorf("websocket upgrade failed: %v", err)
		return
	}

	identity, ok := h.authenticate(conn, boardID)
	if !ok {
		conn.Close()
		return
	}

	sess := NewSession(boardID, identity, h.cfg.WebSocketSendBufSize)
	if err := h.hub.Join(sess); err != nil {
		h.log.Warnf("websocket join failed board_id=%d username=%s: %v", boardID, identity.Username, err)
		conn.Close()
		return
	}

	client := NewClient(h.hub, conn, sess, PumpConfig{
		WriteWait:  h.cfg.WebSocketWriteWait,
		PongWait:   h.cfg.WebSocketPongWait,
		PingPeriod: h.cfg.WebSocketPingPeriod,
		MaxMsgSize: h.cfg.WebSocketMaxMsgSize,
	}, h.log)
	client.Start()
}

// authenticate runs the Authenticating state: one frame, which must be
// {type:"auth", token}, verified against the external issuer. On any
// failure the client gets an error frame and the handshake fails.
func (h *Handler) authenticate(conn *gorillaWS.Conn, boardID int64) (domain.Identity, bool) {
	conn.SetReadLimit(h.cfg.WebSocketMaxMsgSize)
	conn.SetReadDeadline(time.Now().Add(h.cfg.WebSocketAuthTimeout))

	_, data, err := conn.ReadMessage()
	if err != nil {
		metrics.SessionAuthFailuresTotal.WithLabelValues("no_auth_message").Inc()
		return domain.Identity{}, false
	}

	ev, perr := ParseEvent(data)
	if perr != nil {
		h.rejectHandshake(conn, boardID, "Missing auth", "malformed_first_message")
		return domain.Identity{}, false
	}

	auth, ok := ev.(AuthEvent)
	if !ok {
		h.rejectHandshake(conn, boardID, "Missing auth", "first_message_not_auth")
		return domain.Identity{}, false
	}
	if auth.Token == "" {
		h.rejectHandshake(conn, boardID, "Missing token", "missing_token")
		return domain.Identity{}, false
	}

	claims, err := h.verifier.Verify(auth.Token)
	if err != nil {
		h.log.Warnf("websocket auth failed board_id=%d: %v", boardID, err)
		h.rejectHandshake(conn, boardID, "Invalid token", "invalid_token")
		return domain.Identity{}, false
	}

	return domain.Identity{
		Username:      claims.PreferredUsername,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		DisplayName:   claims.Name,
	}, true
}

func (h *Handler) rejectHandshake(conn *gorillaWS.Conn, boardID int64, message, reason string) {
	metrics.SessionAuthFailuresTotal.WithLabelValues(reason).Inc()
	h.log.WithFields(nil, logger.Fields{
		"board_id": boardID,
		"reason":   reason,
		"action":   "ws_auth_rejected",
	}).Warn("websocket handshake rejected")

	conn.SetWriteDeadline(time.Now().Add(h.cfg.WebSocketWriteWait))
	conn.WriteMessage(gorillaWS.TextMessage, marshalFrame(errorFrame{Type: TypeError, Message: message}))
}
