// Package server exposes published trees over a WebSocket query API.
// Clients send small JSON request messages and receive node summaries;
// all tree state is immutable, so any number of queries run concurrently.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/handtree/internal/navigator"
)

// Server represents the WebSocket query server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	registry    *Registry
	connections map[*websocket.Conn]bool
	logger      *log.Logger
	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a new WebSocket server serving trees from registry.
func NewServer(addr string, registry *Registry, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		registry:    registry,
		connections: make(map[*websocket.Conn]bool),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Handler returns the HTTP handler serving the query API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the WebSocket server
func (s *Server) Start() error {
	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	return nil
}

// handleWebSocket upgrades the connection and serves queries until the
// client disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)

	defer func() {
		s.mu.Lock()
		delete(s.connections, conn)
		total := len(s.connections)
		s.mu.Unlock()
		_ = conn.Close()
		s.logger.Info("Client disconnected", "total", total)
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("Connection read failed", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.sendError(conn, "", CodeBadMessage, "invalid message")
			continue
		}

		if err := s.dispatch(conn, &msg); err != nil {
			s.logger.Error("Failed to answer query", "type", msg.Type, "error", err)
			return
		}
	}
}

// dispatch answers one request message. A returned error means the
// connection itself failed; protocol-level problems are reported to the
// client instead.
func (s *Server) dispatch(conn *websocket.Conn, msg *Message) error {
	switch msg.Type {
	case TypeQueryNode:
		var query QueryNodeData
		if err := json.Unmarshal(msg.Data, &query); err != nil {
			return s.sendError(conn, msg.RequestID, CodeBadMessage, "invalid query_node payload")
		}
		return s.handleQueryNode(conn, msg.RequestID, &query)

	case TypeListTrees:
		return s.send(conn, msg.RequestID, TypeTreeList, &TreeListData{Trees: s.registry.List()})

	default:
		return s.sendError(conn, msg.RequestID, CodeBadType, fmt.Sprintf("unsupported message type: %s", msg.Type))
	}
}

func (s *Server) handleQueryNode(conn *websocket.Conn, requestID string, query *QueryNodeData) error {
	snap, ok := s.registry.Get(query.TreeID)
	if !ok {
		return s.sendError(conn, requestID, CodeUnknownTree, fmt.Sprintf("tree not found: %s", query.TreeID))
	}

	path := navigator.Path(query.Path)
	result := &NodeResultData{
		TreeID: snap.ID,
		Label:  path.Label(),
	}
	if node, found := s.registry.Resolve(snap, path); found {
		result.Found = true
		result.Node = summarize(node, query.ExcludeHero)
	}
	return s.send(conn, requestID, TypeNodeResult, result)
}

func (s *Server) send(conn *websocket.Conn, requestID string, messageType MessageType, data interface{}) error {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		return err
	}
	msg.RequestID = requestID
	return conn.WriteJSON(msg)
}

func (s *Server) sendError(conn *websocket.Conn, requestID, code, message string) error {
	return s.send(conn, requestID, TypeError, &ErrorData{Code: code, Message: message})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}
