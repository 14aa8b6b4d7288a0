package playground

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/vform/pkg/form"
)

// streamBuffer is how many snapshots may queue for a slow client before
// older ones are dropped.
const streamBuffer = 16

// Message is a frame sent to websocket clients.
type Message struct {
	Type  string     `json:"type"`
	Seq   uint64     `json:"seq"`
	State form.State `json:"state"`
}

// handleWebSocket streams a snapshot on connect and after every state change
// until the client disconnects. Incoming messages are ignored.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates := make(chan form.State, streamBuffer)
	push := func(state form.State) {
		for {
			select {
			case updates <- state:
				return
			default:
			}
			// Full: drop the oldest snapshot so the newest always arrives.
			select {
			case <-updates:
			default:
			}
		}
	}

	// Subscribe before reading the initial snapshot so no change is missed.
	unsubscribe := s.ctrl.Subscribe(push)
	defer unsubscribe()
	push(s.ctrl.Snapshot())

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Debug("websocket client connected", "remote", r.RemoteAddr)
	var seq uint64
	for {
		select {
		case state := <-updates:
			seq++
			data, err := json.Marshal(Message{Type: "state", Seq: seq, State: state})
			if err != nil {
				s.logger.Error("encode snapshot failed", "error", err)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-closed:
			s.logger.Debug("websocket client disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}
