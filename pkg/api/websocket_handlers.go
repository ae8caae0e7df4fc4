package api

import (
	"encoding/json"
	"errors"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/open-teleop/safeteleop/domain/teleop"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
)

// ControlWebSocketHandler applies operator commands received as text frames
// and answers each one with a ControlReply.
func ControlWebSocketHandler(conn *websocket.Conn, logger customlog.Logger, backend TeleopBackend) {
	session := uuid.NewString()
	logger = logger.WithField("session", session)
	logger.Infof("Control WebSocket connected: %s", conn.RemoteAddr())

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("Control WS read error: %v", err)
			} else if !errors.Is(err, syscall.EPIPE) && !errors.Is(err, syscall.ECONNRESET) {
				logger.Infof("Control WS connection closed: %v", err)
			}
			break
		}

		if mt != websocket.TextMessage {
			logger.Infof("Ignoring non-text Control WS message type: %d", mt)
			continue
		}

		reply := handleControlMessage(backend, session, msg)
		if reply.Error != "" {
			logger.Warnf("Rejected control message %q: %s", string(msg), reply.Error)
		}
		if err := conn.WriteJSON(reply); err != nil {
			logger.Errorf("Control WS write error: %v", err)
			break
		}
	}
	logger.Infof("Control WebSocket disconnected: %s", conn.RemoteAddr())
}

func handleControlMessage(backend TeleopBackend, session string, msg []byte) ControlReply {
	var in ControlMessage
	if err := json.Unmarshal(msg, &in); err != nil {
		return ControlReply{Session: session, Status: "error", Error: "invalid control message: " + err.Error()}
	}

	if err := teleop.Dispatch(backend.Commands(), in.Command); err != nil {
		return ControlReply{Session: session, Command: in.Command, Status: "error", Error: err.Error()}
	}

	state := backend.State()
	return ControlReply{Session: session, Command: in.Command, Status: "ok", State: &state}
}
