package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Server wires the world, the fleets and the HTTP endpoints together
type Server struct {
	cfg       Config
	world     *World
	conns     *ConnManager
	pilots    *Fleet
	wanderers *Fleet
	loop      *GameLoop
	limiter   *ipRateLimiter
	navCount  int32
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

// NewServer builds the arena from cfg. Pilots and wanderers are spawned
// before it returns.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Nav.Validate(); err != nil {
		return nil, err
	}
	world := NewWorld(cfg.Seed)

	pilots, err := newPilots(cfg.Pilots, cfg.Nav)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:     cfg,
		world:   world,
		conns:   NewConnManager(),
		limiter: newIPRateLimiter(IPCooldownSec * time.Second),
	}
	if cfg.DebugDir != "" && len(pilots) > 0 {
		rec, err := NewFrameRecorder(cfg.DebugDir, cfg.DebugEvery)
		if err != nil {
			return nil, err
		}
		pilots[0].Record(rec)
	}

	pilotDrivers := make([]driver, len(pilots))
	for i, p := range pilots {
		pilotDrivers[i] = p
	}
	wandererDrivers := make([]driver, cfg.Wanderers)
	for i := range wandererDrivers {
		wandererDrivers[i] = &Wanderer{}
	}
	s.pilots = NewFleet(world, "pilot", pilotNames, PilotRespawnDelay, pilotDrivers)
	s.wanderers = NewFleet(world, "wanderer", wandererNames, WandererRespawnDelay, wandererDrivers)
	s.loop = NewGameLoop(world, s.conns, s.pilots, s.wanderers)
	return s, nil
}

// Router exposes every endpoint
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc(WebSocketPath, s.handlePlayer).Methods("GET")
	router.HandleFunc(NavPath, s.handleNav).Methods("GET")
	router.HandleFunc(OptionsPath, s.handleOptions).Methods("GET")
	router.HandleFunc(PilotsPath, s.handlePilots).Methods("GET")
	router.HandleFunc(PilotsPath+"/{index:[0-9]+}", s.handlePilot).Methods("GET")
	router.HandleFunc(PilotsPath+"/{index:[0-9]+}/snapshot", s.handlePilotSnapshot).Methods("GET")
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir)))
	return router
}

// sendErrorAndClose sends an error message then closes the connection
func sendErrorAndClose(ws *websocket.Conn, msg string) {
	data, _ := json.Marshal(ErrorMsg{Type: MsgError, Message: msg})
	_ = ws.WriteMessage(websocket.TextMessage, data)
	ws.Close()
}

// admit upgrades the request and enforces the client and per-IP limits.
// Limits are checked after the upgrade so the client can read the refusal.
func (s *Server) admit(w http.ResponseWriter, r *http.Request, count int) (*websocket.Conn, bool) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return nil, false
	}
	if count >= MaxClients {
		sendErrorAndClose(ws, "Server full. Please try again later.")
		return nil, false
	}
	if !s.limiter.allow(clientIP(r)) {
		sendErrorAndClose(ws, "Too many connections. Please wait a moment.")
		return nil, false
	}
	return ws, true
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.admit(w, r, s.conns.Count())
	if !ok {
		return
	}
	ws.EnableWriteCompression(true)

	conn := NewConn(ws)
	s.conns.Add(conn)
	log.Printf("player connected: %s", conn.ID)

	s.world.mu.Lock()
	color := s.world.RandomColor()
	s.world.mu.Unlock()
	_ = conn.Send(WelcomeMsg{
		Type:        MsgWelcome,
		ID:          conn.ID,
		WorldRadius: WorldRadius,
		Color:       color,
	})

	conn.ReadLoop(PlayerEvents{
		Join: func(c *Conn, name string) {
			s.world.mu.Lock()
			if old, exists := s.world.Snakes[c.ID]; exists {
				s.world.Kill(old)
			}
			s.world.SpawnSnake(c.ID, name, s.world.RandomColor())
			s.world.mu.Unlock()
			log.Printf("snake joined: %s (%s)", name, c.ID)
		},
		Leave: func(c *Conn) {
			s.conns.Remove(c.ID)
			s.world.mu.Lock()
			if snake, exists := s.world.Snakes[c.ID]; exists {
				s.world.Kill(snake)
				s.world.RemoveSnake(c.ID)
			}
			s.world.mu.Unlock()
			log.Printf("player disconnected: %s", c.ID)
		},
	})
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.admit(w, r, int(atomic.LoadInt32(&s.navCount)))
	if !ok {
		return
	}
	session, err := NewNavSession(ws, s.cfg.Nav)
	if err != nil {
		sendErrorAndClose(ws, err.Error())
		return
	}
	atomic.AddInt32(&s.navCount, 1)
	defer atomic.AddInt32(&s.navCount, -1)
	session.Serve()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Nav)
}

func (s *Server) handlePilots(w http.ResponseWriter, r *http.Request) {
	s.world.mu.RLock()
	statuses := s.pilots.PilotStatuses()
	s.world.mu.RUnlock()
	writeJSON(w, http.StatusOK, statuses)
}

// pilotIndex parses the {index} route variable
func (s *Server) pilotIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		return 0, errors.Wrap(err, "pilot index")
	}
	if i < 0 || i >= s.pilots.Size() {
		return 0, errors.Errorf("no pilot %d", i)
	}
	return i, nil
}

func (s *Server) handlePilot(w http.ResponseWriter, r *http.Request) {
	i, err := s.pilotIndex(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorMsg{Type: MsgError, Message: err.Error()})
		return
	}
	s.world.mu.RLock()
	st := s.pilots.PilotStatuses()[i]
	s.world.mu.RUnlock()
	writeJSON(w, http.StatusOK, st)
}

// handlePilotSnapshot serves the bridge frame the pilot's engine would see
// right now, ready to replay against /nav
func (s *Server) handlePilotSnapshot(w http.ResponseWriter, r *http.Request) {
	i, err := s.pilotIndex(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorMsg{Type: MsgError, Message: err.Error()})
		return
	}
	s.world.mu.RLock()
	snake, alive := s.pilots.snake(s.pilots.members[i])
	var frame SnapshotFrame
	if alive {
		frame = snapshotFrame(int64(s.loop.tickCount), s.world.SnapshotFor(snake))
	}
	s.world.mu.RUnlock()
	if !alive {
		writeJSON(w, http.StatusConflict, ErrorMsg{Type: MsgError, Message: "pilot is respawning"})
		return
	}
	writeJSON(w, http.StatusOK, frame)
}
