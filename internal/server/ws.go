package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"galaxy-gen/internal/errors"
	"galaxy-gen/internal/export"
	"galaxy-gen/internal/galaxy"
	"galaxy-gen/internal/server/response"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// Message types exchanged on /ws.
const (
	MessageCloud  = "cloud"
	MessageParams = "params"
	MessageError  = "error"

	MessageCommit = "commit"
	MessagePreset = "preset"
	MessageReseed = "reseed"
)

// ClientMessage is sent by the browser. An empty Type means commit.
type ClientMessage struct {
	Type  string `json:"type,omitempty"`
	Field string `json:"field,omitempty"`
	Value any    `json:"value,omitempty"`
	Name  string `json:"name,omitempty"`
	Seed  uint64 `json:"seed,omitempty"`
}

// ServerMessage is pushed to the browser.
type ServerMessage struct {
	Type    string               `json:"type"`
	Cloud   *export.CloudMessage `json:"cloud,omitempty"`
	Params  *galaxy.Params       `json:"params,omitempty"`
	Error   string               `json:"error,omitempty"`
	Message string               `json:"message,omitempty"`
}

// session binds one websocket connection to its own editor. The editor pushes
// every regenerated cloud through Replace.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	logger  *slog.Logger
}

func (s *session) Replace(prev, next *galaxy.PointCloud) {
	msg := export.NewCloudMessage(next)
	if err := s.send(ServerMessage{Type: MessageCloud, Cloud: &msg}); err != nil {
		s.logger.Debug("Failed to push cloud", "error", err)
	}
	prev.Release()
}

func (s *session) send(msg ServerMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *session) sendError(err error) error {
	return s.send(ServerMessage{
		Type:    MessageError,
		Error:   string(errors.GetType(err)),
		Message: err.Error(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("handler", "ws", "remote_addr", r.RemoteAddr)

	params, err := paramsFromQuery(r.URL.Query())
	if err == nil {
		err = params.Validate()
	}
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		logger.Debug("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	sess := &session{conn: conn, logger: logger}
	opts := []galaxy.EditorOption{
		galaxy.WithReplacer(sess),
		galaxy.WithWorkers(s.gen.Workers),
		galaxy.WithLogger(logger),
	}
	if raw := r.URL.Query().Get("seed"); raw != "" || s.seed != 0 {
		seed, err := s.seedFromQuery(raw)
		if err != nil {
			_ = sess.sendError(err)
			return
		}
		opts = append(opts, galaxy.WithSeed(seed))
	}
	editor, err := galaxy.NewEditor(params, opts...)
	if err != nil {
		_ = sess.sendError(err)
		return
	}
	ctx := r.Context()
	if err := editor.Regenerate(ctx); err != nil {
		_ = sess.sendError(err)
		return
	}
	defer func() { editor.Current().Release() }()
	logger.Info("WebSocket session started", "count", params.Count)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("WebSocket read error", "error", err)
			}
			break
		}
		if err := s.dispatch(ctx, editor, msg); err != nil {
			if sendErr := sess.sendError(err); sendErr != nil {
				break
			}
			continue
		}
		if msg.Type == "" || msg.Type == MessageCommit {
			if !galaxy.Regenerates(msg.Field) {
				p := editor.Params()
				if err := sess.send(ServerMessage{Type: MessageParams, Params: &p}); err != nil {
					break
				}
			}
		}
	}
	logger.Info("WebSocket session closed")
}

func (s *Server) dispatch(ctx context.Context, editor *galaxy.Editor, msg ClientMessage) error {
	switch msg.Type {
	case "", MessageCommit:
		value, err := formatValue(msg.Value)
		if err != nil {
			return err
		}
		return editor.CommitContext(ctx, msg.Field, value)
	case MessagePreset:
		return editor.ApplyPreset(ctx, msg.Name)
	case MessageReseed:
		return editor.Reseed(ctx, msg.Seed)
	}
	return errors.Validationf("unknown message type %q", msg.Type)
}

// formatValue turns a JSON scalar into the textual form the editor parses.
func formatValue(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	case nil:
		return "", errors.Validationf("missing value")
	}
	return "", errors.Validationf("unsupported value %s", fmt.Sprint(v))
}
