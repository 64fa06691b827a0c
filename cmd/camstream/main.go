// camstream captures frames from a local camera and serves them on a
// web dashboard with live pause, rate, and device switching.
package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/camkit/go-camstream/internal/config"
	"github.com/camkit/go-camstream/internal/log"
	"github.com/camkit/go-camstream/pkg/camera"
	"github.com/camkit/go-camstream/pkg/filters"
	"github.com/camkit/go-camstream/pkg/stream"
	"github.com/camkit/go-camstream/pkg/web"
)

func main() {
	device := flag.Int("device", config.DeviceID(), "capture device index (-1 probes for one)")
	fps := flag.Int("fps", config.FPS(), "target capture rate")
	port := flag.String("port", config.WebPort(), "dashboard port")
	filterList := flag.String("filters", "", "comma-separated filters to apply (gray, invert, edges)")
	flag.Parse()

	log.Init(config.LogLevel())

	id := *device
	if id < 0 {
		found := camera.ListDevices(config.DefaultProbeMax)
		if len(found) == 0 {
			log.Error("no capture devices found")
			os.Exit(1)
		}
		id = found[0]
		log.Info("probed capture device", "device", id, "candidates", len(found))
	}

	cfg := stream.DefaultConfig()
	cfg.FPS = *fps
	s := stream.New(cfg)

	for _, name := range strings.Split(*filterList, ",") {
		switch strings.TrimSpace(name) {
		case "":
		case "gray":
			s.AddFilter(filters.Grayscale)
		case "invert":
			s.AddFilter(filters.Invert)
		case "edges":
			s.AddFilter(filters.Edges)
		default:
			log.Warn("unknown filter ignored", "filter", name)
		}
	}

	if err := s.RequestCamera(id); err != nil {
		log.Error("camera request failed", "device", id, "error", err)
		os.Exit(1)
	}
	s.SetPaused(false)

	srv := web.NewServer(*port, s)
	srv.StartAsync()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		log.Warn("web shutdown error", "error", err)
	}
	if err := s.Stop(); err != nil {
		log.Warn("stream stop error", "error", err)
	}
}
