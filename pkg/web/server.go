// Package web provides a small dashboard and HTTP API over a running
// stream: status, device probing, pause/rate/camera control, and a
// websocket that pushes the latest filtered frame as JPEG.
package web

import (
	"bytes"
	"image/jpeg"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/camkit/go-camstream/internal/log"
	"github.com/camkit/go-camstream/pkg/hub"
	"github.com/camkit/go-camstream/pkg/stream"
)

// jpegQuality trades frame size against fidelity for the live view.
const jpegQuality = 80

// Server serves the HTTP API and the frame websocket for one stream.
type Server struct {
	app    *fiber.App
	port   string
	stream *stream.Stream

	cameraHub *hub.Hub

	stop chan struct{}
}

// NewServer wires up routes for the given stream. Call Start to serve.
func NewServer(port string, s *stream.Stream) *Server {
	srv := &Server{
		port:      port,
		stream:    s,
		cameraHub: hub.New("camera"),
		stop:      make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "camstream",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", srv.handleStatus)
	api.Get("/devices", srv.handleDevices)
	api.Post("/pause", srv.handlePause)
	api.Post("/rate", srv.handleRate)
	api.Post("/camera/:id", srv.handleCamera)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/camera", websocket.New(srv.handleCameraWS))

	srv.app = app
	return srv
}

// Start runs the hub, the frame broadcaster, and the HTTP listener.
// It blocks until the server shuts down.
func (s *Server) Start() error {
	go s.cameraHub.Run()
	go s.broadcastFrames()

	log.Info("web dashboard listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in its own goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()
}

// Shutdown stops the broadcaster and the HTTP listener.
func (s *Server) Shutdown() error {
	close(s.stop)
	return s.app.Shutdown()
}

// broadcastFrames pushes each new filtered frame to websocket clients
// as JPEG. It encodes only when at least one client is connected.
func (s *Server) broadcastFrames() {
	for {
		select {
		case <-s.stop:
			return
		default:
		}

		if !s.stream.Running() {
			time.Sleep(200 * time.Millisecond)
			continue
		}

		s.stream.WaitForNewFrame()

		if s.cameraHub.ClientCount() == 0 {
			continue
		}
		_, frame := s.stream.LatestFiltered()
		if frame == nil {
			continue
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame.ToImage(), &jpeg.Options{Quality: jpegQuality}); err != nil {
			log.Warn("frame encode failed", "error", err)
			continue
		}
		s.cameraHub.BroadcastBinary(buf.Bytes())
	}
}
