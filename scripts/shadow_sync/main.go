// Command shadow_sync maintains the translated shadow tables from the
// command line: create their schema, seed or resync their content from the
// canonical tables, repair schema drift, or rebuild them from scratch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brightsteps/records-api/internal/shadow"
	"github.com/brightsteps/records-api/pkg/config"
	"github.com/brightsteps/records-api/pkg/database"
	"github.com/brightsteps/records-api/pkg/logger"
)

func main() {
	var (
		mode    string
		confirm bool
		timeout time.Duration
	)

	flag.StringVar(&mode, "mode", "delta", "Sync mode: schema | seed | push | delta | reset")
	flag.BoolVar(&confirm, "confirm", false, "Required for the destructive reset mode")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Overall operation timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	syncer := shadow.NewSyncer(db, logr)

	switch mode {
	case "schema":
		if err := syncer.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema failed: %v", err)
		}
		fmt.Println("shadow schema ensured")
	case "seed":
		result, err := syncer.CopyAll(ctx, shadow.PolicySeed)
		if err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		printResult("seeded", result)
	case "push":
		result, err := syncer.CopyAll(ctx, shadow.PolicyReplace)
		if err != nil {
			log.Fatalf("push failed: %v", err)
		}
		printResult("pushed", result)
	case "delta":
		if err := syncer.DeltaSync(ctx); err != nil {
			log.Fatalf("delta sync failed: %v", err)
		}
		fmt.Println("shadow schema drift repaired")
	case "reset":
		if !confirm {
			fmt.Fprintln(os.Stderr, "reset drops and rebuilds every shadow table; re-run with --confirm")
			os.Exit(1)
		}
		result, err := syncer.Reset(ctx)
		if err != nil {
			log.Fatalf("reset failed: %v", err)
		}
		printResult("rebuilt", result)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", mode)
		flag.Usage()
		os.Exit(2)
	}
}

func printResult(verb string, result *shadow.Result) {
	fmt.Printf("%s %d classes, %d students, %d progress rows\n", verb, result.Classes, result.Students, result.Progress)
}
