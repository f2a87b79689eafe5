package site

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/specstudio/internal/orchestrator"
)

// editorMessage is the editor channel's message format, in both directions.
type editorMessage struct {
	Type  string `json:"type"` // "text" in; "preview" or "error" out
	Text  string `json:"text,omitempty"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleEditorSocket keeps the session's editor buffer in step with the
// browser. Every "text" message replaces the buffer. Any change to the
// buffer, including form fallback posts from another tab, is answered with
// the rendered preview.
func (s *Site) handleEditorSocket(w http.ResponseWriter, r *http.Request) {
	o, cookie := s.sessions.resolve(r)
	var header http.Header
	if cookie != nil {
		header = http.Header{"Set-Cookie": {cookie.String()}}
	}

	// Subscribe before the handshake so no edit after it is missed. Changes
	// are coalesced; the writer always renders the current text.
	changed := make(chan struct{}, 1)
	cancel := o.Editor().OnChange(func(string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Printf("site: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	errs := make(chan editorMessage, 8)
	done := make(chan struct{})
	defer close(done)
	go writeLoop(conn, o, changed, errs, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("site: websocket read: %v", err)
			}
			return
		}

		var msg editorMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			errs <- editorMessage{Type: "error", Error: "invalid message format"}
			continue
		}

		switch msg.Type {
		case "text":
			o.Editor().SetText(msg.Text)
		default:
			errs <- editorMessage{Type: "error", Error: "unknown message type: " + msg.Type}
		}
	}
}

// writeLoop is the connection's only writer.
func writeLoop(conn *websocket.Conn, o *orchestrator.Orchestrator, changed <-chan struct{}, errs <-chan editorMessage, done <-chan struct{}) {
	for {
		select {
		case <-changed:
			view := o.RenderPanel(orchestrator.PanelEditor)
			send(conn, editorMessage{Type: "preview", HTML: string(view.Editor.Preview)})
		case msg := <-errs:
			send(conn, msg)
		case <-done:
			return
		}
	}
}

func send(conn *websocket.Conn, msg editorMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("site: websocket write: %v", err)
	}
}
