// Package web serves a live dashboard for the avatar engine: a JSON state
// snapshot endpoint and a websocket stream of engine events.
package web

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/osckit/go-avatar/pkg/avatar"
	"github.com/osckit/go-avatar/pkg/hub"
)

// Server exposes engine state over HTTP and engine events over websocket.
type Server struct {
	app  *fiber.App
	port string
	log  *slog.Logger

	stateMu sync.RWMutex
	state   avatar.Snapshot

	events *hub.Hub
}

// NewServer creates the dashboard server listening on the given port.
func NewServer(port string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		port:   port,
		log:    logger,
		events: hub.New("events", logger),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(cors.New())

	s.app.Get("/api/state", func(c *fiber.Ctx) error {
		s.stateMu.RLock()
		defer s.stateMu.RUnlock()
		return c.JSON(s.state)
	})

	s.app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":      true,
			"clients": s.events.ClientCount(),
		})
	})

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		client := hub.NewClient(s.events, c)
		client.Run()
	}))
}

// eventEnvelope is the wire format for streamed engine events.
type eventEnvelope struct {
	Type string `json:"type"`
	TS   int64  `json:"ts"`
	Data any    `json:"data,omitempty"`
}

func (s *Server) publish(kind string, data any) {
	if err := s.events.BroadcastJSON(eventEnvelope{
		Type: kind,
		TS:   time.Now().UnixMilli(),
		Data: data,
	}); err != nil {
		s.log.Warn("encode event", "type", kind, "error", err)
	}
}

// Attach subscribes the server to engine events. Call before the engine
// starts; handlers run on the engine goroutine and only hand off to the
// broadcast hub.
func (s *Server) Attach(e *avatar.Engine) {
	e.OnParameterChanged(func(ev avatar.ParameterChange) {
		s.publish("parameter", fiber.Map{
			"name":     ev.Name,
			"value":    ev.Value.Payload(),
			"custom":   ev.Custom,
			"self_set": ev.SelfSet,
		})
	})
	e.OnAvatarChanged(func(ev avatar.AvatarChange) {
		s.publish("avatar_change", fiber.Map{"id": ev.ID, "is_form": ev.IsForm})
	})
	e.OnAvatarReset(func() {
		s.publish("avatar_reset", nil)
	})
	e.OnHeightChanged(func(ev avatar.HeightChange) {
		s.publish("height", fiber.Map{"parameter": ev.Parameter, "value": ev.Value.Payload()})
	})
	e.OnVelocityChanged(func(v avatar.Velocity) {
		s.publish("velocity", fiber.Map{"x": v.X, "y": v.Y, "z": v.Z})
	})
	e.OnVisemeChanged(func(v avatar.Viseme) {
		s.publish("viseme", fiber.Map{"code": int(v), "name": v.String()})
	})
	e.OnUnknownMessage(func(ev avatar.UnknownMessage) {
		s.publish("unknown", fiber.Map{"address": ev.Address})
	})
	e.OnTick(func() {
		s.SetState(e.Snapshot())
	})
}

// SetState replaces the cached snapshot served by /api/state.
func (s *Server) SetState(snap avatar.Snapshot) {
	s.stateMu.Lock()
	s.state = snap
	s.stateMu.Unlock()
}

// Start runs the hub and the HTTP listener. Blocks; call in a goroutine.
func (s *Server) Start() error {
	go s.events.Run()
	s.log.Info("dashboard listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
