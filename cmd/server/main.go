package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/JaimeStill/lingua-web/internal/config"
)

// Options are the command line flags.
type Options struct {
	Config  string `short:"c" long:"config" description:"Path to the base TOML configuration" default:"config.toml"`
	EnvFile string `short:"e" long:"env-file" description:"Dotenv file exported before configuration is loaded" default:".env"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		log.Fatal("env file failed:", err)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Fatal("config failed:", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("service init failed:", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatal("service start failed:", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed:", err)
	}

	log.Println("service stopped gracefully")
}
