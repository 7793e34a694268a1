// Command deskboard serves the service desk analytics dashboard over a
// read-only warehouse database.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/DoctorN8/service-desk-analytics/dashboard"
	"github.com/DoctorN8/service-desk-analytics/warehouse"
	"github.com/pkg/profile"
)

func main() {
	var (
		dbPath       = flag.String("db", "servicedesk.db", "path to the warehouse sqlite database")
		addr         = flag.String("addr", ":8080", "listen address")
		horizonWeeks = flag.Int("horizon-weeks", 4, "default forecast horizon in weeks")
		profileMode  = flag.String("profile", "", "enable profiling, one of cpu or mem")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *profileMode)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*dbPath, *addr, *horizonWeeks, logger); err != nil {
		logger.Error("deskboard exited", "error", err)
		os.Exit(1)
	}
}

func run(dbPath, addr string, horizonWeeks int, logger *slog.Logger) error {
	wh, err := warehouse.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer wh.Close()

	cfg := dashboard.NewDefaultConfig()
	cfg.Logger = logger
	svc := dashboard.New(wh, cfg)

	srv := newServer(svc, logger, horizonWeeks)
	logger.Info("deskboard listening", "addr", addr, "db", dbPath)
	return srv.router.Run(addr)
}
