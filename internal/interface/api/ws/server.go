// Package ws serves a read-only live feed of command dispatches.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dungeonBot/internal/app/events"
	"dungeonBot/internal/usecase/commands"
)

type Config struct {
	Addr    string
	Bus     *events.Bus
	Catalog func() []commands.CommandDescriptor
	Log     *zap.Logger
}

// Server broadcasts every events.DispatchEvent to the connected websocket
// clients and lists the command catalog over HTTP.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	bus      *events.Bus
	catalog  func() []commands.CommandDescriptor
	log      *zap.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(v)
}

type envelope struct {
	Type string               `json:"type"`
	Data events.DispatchEvent `json:"data"`
}

func NewServer(cfg Config) *Server {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		addr: cfg.Addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		bus:     cfg.Bus,
		catalog: cfg.Catalog,
		log:     log,
		clients: make(map[*wsClient]struct{}),
	}
}

// Handler exposes /ws/commands and /api/commands.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/commands", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})
	mux.HandleFunc("/api/commands", s.handleCatalog)
	return mux
}

// Start serves HTTP on the configured address and forwards bus events until
// ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(ctx),
	}

	stop := s.Forward(ctx)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("ws: shutdown error", zap.Error(err))
		}
	}()

	s.log.Info("ws: dispatch feed listening", zap.String("addr", s.addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Forward subscribes to the dispatch topics and broadcasts what arrives.
// The returned func unsubscribes and waits for the forwarders to exit.
func (s *Server) Forward(ctx context.Context) func() {
	if s.bus == nil {
		return func() {}
	}

	var wg sync.WaitGroup
	var unsubs []func()
	for topic, kind := range map[string]string{
		events.TopicCommandDispatched: "dispatched",
		events.TopicCommandFailed:     "failed",
	} {
		ch, unsubscribe := s.bus.Subscribe(topic)
		unsubs = append(unsubs, unsubscribe)
		wg.Add(1)
		go func(kind string) {
			defer wg.Done()
			for payload := range ch {
				event, ok := payload.(events.DispatchEvent)
				if !ok {
					continue
				}
				s.broadcast(ctx, envelope{Type: kind, Data: event})
			}
		}(kind)
	}

	return func() {
		for _, unsubscribe := range unsubs {
			unsubscribe()
		}
		wg.Wait()
	}
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var out []commands.CommandDescriptor
	if s.catalog != nil {
		out = s.catalog()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws: upgrade error", zap.Error(err))
		return
	}

	client := &wsClient{conn: conn}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	clientCount := len(s.clients)
	s.mu.Unlock()

	s.log.Info("ws: new connection", zap.String("remote", r.RemoteAddr), zap.Int("clients", clientCount))

	go s.handleClient(ctx, client)
}

// handleClient only reads to notice when the peer goes away, the feed does
// not accept input.
func (s *Server) handleClient(ctx context.Context, client *wsClient) {
	done := make(chan struct{})
	defer func() {
		close(done)
		s.drop(client)
	}()

	go func() {
		select {
		case <-ctx.Done():
			client.conn.Close()
		case <-done:
		}
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
				s.log.Debug("ws: read error", zap.Error(err))
			}
			return
		}
	}
}

func (s *Server) drop(client *wsClient) {
	s.mu.Lock()
	_, present := s.clients[client]
	delete(s.clients, client)
	clientCount := len(s.clients)
	s.mu.Unlock()

	client.conn.Close()
	if present {
		s.log.Info("ws: connection closed", zap.Int("clients", clientCount))
	}
}

func (s *Server) broadcast(ctx context.Context, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.log.Error("ws: marshal", zap.Error(err))
		return
	}

	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if ctx.Err() != nil {
			return
		}
		if err := c.writeJSON(json.RawMessage(payload)); err != nil {
			s.log.Warn("ws: removing client due to write error", zap.Error(err))
			s.drop(c)
		}
	}
}

func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
