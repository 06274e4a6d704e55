package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/config"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/detector"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/httpserver"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/intervention"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/kv"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "behavior-analytics",
	Short: "Player behavior analytics and adaptive difficulty service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Reclaim expired keys once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Store != config.StorePostgres {
			log.Println("memory store has no standalone reclamation; nothing to do")
			return nil
		}

		store, err := kv.NewPostgres(cfg.DBURL)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := store.Sweep(ctx)
		if err != nil {
			return err
		}
		log.Printf("swept %d expired keys", n)
		return nil
	},
}

// serve boots the service: config → store → schema → sweeper → HTTP server.
func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var backend kv.Store
	var pinger httpserver.Pinger

	switch cfg.Store {
	case config.StorePostgres:
		pg, err := kv.NewPostgres(cfg.DBURL)
		if err != nil {
			return err
		}
		defer pg.Close()

		// Ensure the KV table exists so `docker compose up --build` is enough.
		if err := pg.EnsureSchema(); err != nil {
			return err
		}

		// The store owns expiry; reads filter stale rows, the sweeper deletes them.
		if err := pg.StartSweeper(cfg.SweepSchedule); err != nil {
			return err
		}

		backend, pinger = pg, pg
	default:
		mem := kv.NewMemory()
		backend, pinger = mem, mem
		log.Println("using in-memory store; state will not survive restarts")
	}

	tel := telemetry.NewStore(backend)
	det := detector.New(tel)
	eng := intervention.NewEngine(backend)

	router := httpserver.NewRouter(cfg, pinger, tel, det, eng)

	log.Printf("server started on %s", cfg.ListenAddr)
	return router.Run(cfg.ListenAddr)
}

func main() {
	rootCmd.AddCommand(serveCmd, sweepCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
