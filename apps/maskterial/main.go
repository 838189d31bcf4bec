package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/matsight/matsight/apps/maskterial/routes"
	"github.com/matsight/matsight/pkg/config"
	"github.com/matsight/matsight/pkg/detect"
	"github.com/matsight/matsight/pkg/mapi"
	"github.com/matsight/matsight/pkg/mlog"
	"github.com/matsight/matsight/pkg/persist"
)

func main() {
	ctx := context.Background()
	cfg, err := config.ValidateEnv()
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	cfg.Print(log.Printf)

	logger := mlog.NewDefault()
	pl := persist.Bootstrap(ctx, cfg, logger)

	var detector detect.Detector
	switch cfg.DetectorMode {
	case config.DetectorModel:
		detector = detect.NewModelDetector(cfg.ModelCommand, cfg.ModelPath)
		log.Printf("🔬 Model detector: %s (%s)\n", cfg.ModelCommand, cfg.ModelPath)
	default:
		detector = detect.NewMockDetector()
		log.Printf("🔬 Mock detector\n")
	}

	api := mapi.NewApi(routes.ServiceName, routes.Version)

	routes.RegisterRoot(api.Api, pl, cfg)
	routes.RegisterDetect(api.Api, pl, cfg, detector)

	addr := fmt.Sprintf(":%s", cfg.Port)

	log.Printf("🚀 MaskTerial starting on %s\n", addr)
	log.Printf("📚 OpenAPI docs: http://localhost%s/docs\n", addr)

	if err := http.ListenAndServe(addr, api.Router); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
