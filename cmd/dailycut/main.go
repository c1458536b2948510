// Command dailycut fetches today's sales, prints the per-hour breakdown,
// and saves the daily cut as a date-stamped PDF in the current directory.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ohana-pos/pos/internal/config"
	"github.com/ohana-pos/pos/internal/dailycut"
	"github.com/ohana-pos/pos/internal/posapi"
	"github.com/ohana-pos/pos/internal/report"
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !sess.Active() {
		if cfg.Username == "" || cfg.Password == "" {
			log.Fatal("No session; set POS_USERNAME and POS_PASSWORD to log in")
		}
		if err := sess.Login(ctx, cfg.Username, cfg.Password); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	}

	sales, err := client.DailySales(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch daily sales: %v", err)
	}

	fmt.Printf("Sales today: %d, total $%.2f\n", len(sales), report.Sum(sales))
	for _, b := range report.ByHour(sales) {
		fmt.Printf("  %02d:00  $%.2f\n", b.Hour, b.Total)
	}

	path, err := dailycut.WriteFile(".", time.Now(), sales)
	if err != nil {
		log.Fatalf("Failed to write PDF: %v", err)
	}
	fmt.Printf("Saved %s\n", path)
}
