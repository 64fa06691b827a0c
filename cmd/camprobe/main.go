// camprobe lists the capture devices attached to this machine.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/camkit/go-camstream/internal/config"
	"github.com/camkit/go-camstream/pkg/camera"
)

func main() {
	max := flag.Int("max", config.DefaultProbeMax, "highest device index to try")
	flag.Parse()

	ids := camera.ListDevices(*max)
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "no capture devices found")
		os.Exit(1)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}
