// Command dashboard shows the live summary counters, refreshed every five
// seconds until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ohana-pos/pos/internal/config"
	"github.com/ohana-pos/pos/internal/dashboard"
	"github.com/ohana-pos/pos/internal/posapi"
	"github.com/ohana-pos/pos/internal/session"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := session.NewFileStore(cfg.TokenPath)
	if err != nil {
		log.Fatalf("Failed to open token store: %v", err)
	}
	client := posapi.NewClient(cfg.APIURL, store)
	sess := session.New(client, store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !sess.Active() {
		if cfg.Username == "" || cfg.Password == "" {
			log.Fatal("No session; set POS_USERNAME and POS_PASSWORD to log in")
		}
		if err := sess.Login(ctx, cfg.Username, cfg.Password); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	}

	poller := dashboard.NewPoller(client, dashboard.DefaultInterval)

	go func() {
		ticker := time.NewTicker(dashboard.DefaultInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := poller.Stats()
				fmt.Printf("sales $%.2f | products %d | clients %d | pending %d\n",
					s.SalesTotal, s.Products, s.Clients, s.Pending)
			}
		}
	}()

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Poller stopped: %v", err)
	}
	fmt.Println("Dashboard closed")
}
