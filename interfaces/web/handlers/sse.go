package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"spgovern/logging"
)

// SSEClient represents a connected Server-Sent Events client.
type SSEClient struct {
	id       string
	writer   http.ResponseWriter
	flusher  http.Flusher
	done     chan struct{}
	lastSent time.Time
}

// SSEManager manages Server-Sent Events connections and pushes operation
// progress to the console while long-running workflows execute.
type SSEManager struct {
	clients map[string]*SSEClient
	mu      sync.RWMutex
	appCtx  context.Context
	logger  *logging.Logger
}

// NewSSEManager creates a new SSE connection manager with a keep-alive routine.
func NewSSEManager(appCtx context.Context) *SSEManager {
	manager := &SSEManager{
		clients: make(map[string]*SSEClient),
		appCtx:  appCtx,
		logger:  logging.Default().WithComponent("sse_manager"),
	}

	go manager.keepAliveRoutine()

	return manager
}

// HandleSSEConnection upgrades the request to an event stream and blocks
// until the client disconnects or the app shuts down.
// GET /events
func (s *SSEManager) HandleSSEConnection(w http.ResponseWriter, r *http.Request) {
	client := s.AddClient(uuid.NewString(), w)
	if client == nil {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	select {
	case <-r.Context().Done():
	case <-s.appCtx.Done():
	case <-client.done:
	}
	s.RemoveClient(client.id)
}

// AddClient adds a new SSE client connection
func (s *SSEManager) AddClient(clientID string, w http.ResponseWriter) *SSEClient {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("Response writer does not support flushing")
		return nil
	}
	flusher.Flush()

	client := &SSEClient{
		id:       clientID,
		writer:   w,
		flusher:  flusher,
		done:     make(chan struct{}),
		lastSent: time.Now(),
	}

	s.mu.Lock()
	s.clients[clientID] = client
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("SSE client connected", "client_id", clientID, "total_clients", total)
	s.sendToClient(client, "connected", fmt.Sprintf("connected client %s", clientID))

	return client
}

// RemoveClient removes an SSE client connection
func (s *SSEManager) RemoveClient(clientID string) {
	s.mu.Lock()
	client, exists := s.clients[clientID]
	if exists {
		delete(s.clients, clientID)
	}
	s.mu.Unlock()

	if exists {
		// Close channel outside of lock to prevent double-close panic
		select {
		case <-client.done:
		default:
			close(client.done)
		}
		s.logger.Info("SSE client disconnected", "client_id", clientID)
	}
}

// BroadcastOperationEvent pushes one operation lifecycle event to every
// connected client as a JSON payload.
func (s *SSEManager) BroadcastOperationEvent(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to encode SSE payload", "event", event, "error", err)
		return
	}
	s.broadcast(event, string(data))
}

func (s *SSEManager) broadcast(event, data string) {
	s.mu.RLock()
	if len(s.clients) == 0 {
		s.mu.RUnlock()
		return
	}
	clientList := make(map[string]*SSEClient, len(s.clients))
	for id, client := range s.clients {
		clientList[id] = client
	}
	s.mu.RUnlock()

	failedClients := []string{}
	for clientID, client := range clientList {
		if err := s.sendToClient(client, event, data); err != nil {
			s.logger.Warn("Failed to send event to client",
				"client_id", clientID, "event", event, "error", err)
			failedClients = append(failedClients, clientID)
		}
	}

	// Remove failed clients after broadcasting
	for _, clientID := range failedClients {
		s.RemoveClient(clientID)
	}
}

// sendToClient sends an SSE message to a specific client
func (s *SSEManager) sendToClient(client *SSEClient, event, data string) error {
	select {
	case <-client.done:
		return fmt.Errorf("client connection closed")
	default:
	}

	var message string
	if event == "keepalive" || event == "connected" {
		// Special events go out as comments so the front-end ignores them
		message = fmt.Sprintf(": %s\n\n", data)
	} else {
		message = fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)
	}

	if _, err := client.writer.Write([]byte(message)); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	client.flusher.Flush()
	client.lastSent = time.Now()
	return nil
}

// keepAliveRoutine pings clients so intermediaries keep connections open.
func (s *SSEManager) keepAliveRoutine() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.appCtx.Done():
			return
		case <-ticker.C:
			s.sendKeepAlive()
		}
	}
}

func (s *SSEManager) sendKeepAlive() {
	s.mu.RLock()
	clientList := make(map[string]*SSEClient, len(s.clients))
	for id, client := range s.clients {
		clientList[id] = client
	}
	s.mu.RUnlock()

	failedClients := []string{}
	for clientID, client := range clientList {
		if err := s.sendToClient(client, "keepalive", `{"timestamp": "`+time.Now().Format(time.RFC3339)+`"}`); err != nil {
			failedClients = append(failedClients, clientID)
		}
	}
	for _, clientID := range failedClients {
		s.RemoveClient(clientID)
	}
}

// CloseAll disconnects every client during shutdown.
func (s *SSEManager) CloseAll() {
	s.mu.Lock()
	clients := make([]*SSEClient, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	s.clients = make(map[string]*SSEClient)
	s.mu.Unlock()

	for _, client := range clients {
		select {
		case <-client.done:
		default:
			close(client.done)
		}
	}
	s.logger.Info("Closed all SSE connections", "count", len(clients))
}
