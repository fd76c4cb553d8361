package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"procurement/pkg/config"
	"procurement/pkg/db"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration")
	flag.Parse()

	cfg := config.Load()

	dir := db.Up
	if *down {
		dir = db.Down
	}
	// Uses DIRECT_URL if set.
	if err := db.Migrate(cfg.MigrationsPath, cfg, dir); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s failed: %v\n", dir, err)
		os.Exit(1)
	}

	// Sanity check that the runtime connection opens. DSNs are not printed.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime db open failed: %v\n", err)
		os.Exit(1)
	}
	pool.Close()

	fmt.Printf("migrations %s applied\n", dir)
}
