// gazecapd runs the capture daemon directly without the CLI wrapper. It is
// intended for service managers that want a dedicated daemon binary.
package main

import (
	"context"
	"log"

	"gazecap/internal/config"
	"gazecap/internal/daemonrun"
)

func main() {
	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err != nil {
		log.Fatalf("run daemon: %v", err)
	}
}
