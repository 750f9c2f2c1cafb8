package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"pickup/cmd"
	"pickup/migrations"

	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
)

func main() {
	var direction string
	flag.StringVar(&direction, "direction", "up", "migration direction: up, down or version")
	flag.Parse()

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	db, err := sql.Open("postgres", configs.DSN())
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err = db.PingContext(ctx); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	switch direction {
	case "up":
		err = migrations.Up(ctx, db)
	case "down":
		err = migrations.Down(ctx, db)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = migrations.Version(ctx, db)
		if err == nil {
			fmt.Fprintf(os.Stdout, "version=%d dirty=%t\n", version, dirty)
		}
	default:
		log.Fatalf("Unknown direction %q", direction)
	}
	if err != nil {
		log.Fatalf("Migration %s failed: %v", direction, err)
	}

	if direction != "version" {
		fmt.Fprintf(os.Stdout, "migrations %s applied\n", direction)
	}
}
