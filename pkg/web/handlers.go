package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/camkit/go-camstream/internal/config"
	"github.com/camkit/go-camstream/pkg/camera"
	"github.com/camkit/go-camstream/pkg/hub"
	"github.com/camkit/go-camstream/pkg/stream"
)

// statusResponse is the /api/status payload.
type statusResponse struct {
	Connected bool `json:"connected"`
	Device    int  `json:"device"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	FPS       int  `json:"fps"`
	Paused    bool `json:"paused"`
	Sequence  int  `json:"sequence"`
}

// handleStatus reports the stream's current state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	resp := statusResponse{
		Connected: s.stream.IsConnected(),
		Device:    -1,
		FPS:       s.stream.Rate(),
		Paused:    s.stream.Paused(),
		Sequence:  s.stream.Sequence(),
	}
	if id, ok := s.stream.ActiveDevice(); ok {
		resp.Device = id
	}
	if dims, ok := s.stream.Dimensions(); ok {
		resp.Width = dims.Width
		resp.Height = dims.Height
	}
	return c.JSON(resp)
}

// handleDevices probes for attached cameras. Probing opens each
// candidate device, so it briefly contends with the capture loop.
func (s *Server) handleDevices(c *fiber.Ctx) error {
	ids := camera.ListDevices(config.DefaultProbeMax)
	return c.JSON(fiber.Map{"devices": ids})
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

func (s *Server) handlePause(c *fiber.Ctx) error {
	var req pauseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	s.stream.SetPaused(req.Paused)
	return c.JSON(fiber.Map{"paused": req.Paused})
}

type rateRequest struct {
	FPS int `json:"fps"`
}

func (s *Server) handleRate(c *fiber.Ctx) error {
	var req rateRequest
	if err := c.BodyParser(&req); err != nil || req.FPS <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fps must be a positive integer"})
	}
	s.stream.SetRate(req.FPS)
	return c.JSON(fiber.Map{"fps": req.FPS})
}

// handleCamera asks the stream to switch to the given device. A
// switch already in flight is reported as a conflict.
func (s *Server) handleCamera(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid device id"})
	}
	if err := s.stream.RequestCamera(id); err != nil {
		if errors.Is(err, stream.ErrRequestPending) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "camera switch already pending"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"device": id})
}

// handleCameraWS attaches a websocket client to the frame hub.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	client := hub.NewClient(s.cameraHub, c)
	client.Run()
}
