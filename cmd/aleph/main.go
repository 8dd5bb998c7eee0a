package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/franklinbaldo/aleph-the-game/internal/director"
	"github.com/franklinbaldo/aleph-the-game/internal/media"
	"github.com/franklinbaldo/aleph-the-game/internal/store"
	"github.com/franklinbaldo/aleph-the-game/internal/ui"
	"github.com/franklinbaldo/aleph-the-game/internal/util"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (optional; archive disabled when empty)")
	lang := flag.String("lang", "", "Narrative language (English|Spanish|Portuguese)")
	model := flag.String("model", envOr("ALEPH_MODEL", "gpt-4o"), "Primary generation model")
	fallbackModel := flag.String("fallback-model", envOr("ALEPH_FALLBACK_MODEL", "gpt-4o-mini"), "Fallback generation model")
	tts := flag.Bool("tts", false, "Voice revealed narration segments")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "aleph [--dsn DSN] [--lang language] [--model name] [--fallback-model name] [--tts] | migrate up|down | version\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Println("aleph", version)
			return
		case "migrate":
			if len(args) < 2 {
				log.Fatal("migrate requires 'up' or 'down'")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			migrator, err := store.NewMigrator(*dsn)
			if err != nil {
				log.Fatal(err)
			}
			switch args[1] {
			case "up":
				if err := migrator.Up(ctx); err != nil && err != store.ErrNoChange {
					log.Fatal(err)
				}
				fmt.Println("Migrations applied")
			case "down":
				if err := migrator.Down(ctx); err != nil && err != store.ErrNoChange {
					log.Fatal(err)
				}
				fmt.Println("Migrations rolled back")
			default:
				log.Fatal("unknown migrate action; use up|down")
			}
			return
		}
	}

	cfg := util.Config{
		DSN:           *dsn,
		Language:      *lang,
		PrimaryModel:  *model,
		FallbackModel: *fallbackModel,
		TTSEnabled:    *tts,
		Version:       version,
	}

	ctx := context.Background()

	// The archive is optional; the session itself never touches the database.
	var db *store.DB
	if cfg.DSN != "" {
		mig, err := store.NewMigrator(cfg.DSN)
		if err != nil {
			log.Fatalf("migrations init failed: %v", err)
		}
		migCtx, cancelMig := context.WithTimeout(ctx, 30*time.Second)
		if err := mig.Up(migCtx); err != nil && err != store.ErrNoChange {
			cancelMig()
			log.Fatalf("migrations failed: %v", err)
		}
		cancelMig()
		db, err = store.Open(ctx, cfg)
		if err != nil {
			log.Printf("archive unavailable: %v", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	var (
		gateway director.Director
		enr     *media.Enricher
		speaker media.Fetcher
	)
	if apiKey == "" {
		log.Printf("OPENAI_API_KEY not set; running on the degraded reply only")
		gateway = director.WithFallback(nil, nil)
	} else {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		primary := director.NewOpenAIDirector(&client, cfg.PrimaryModel, 0)
		fallback := director.NewOpenAIDirector(&client, cfg.FallbackModel, 0)
		gateway = director.WithFallback(primary, fallback)
		fetcher := media.NewOpenAIFetcher(&client, 0)
		enr = media.NewEnricher(fetcher, 0)
		speaker = fetcher
	}

	if err := ui.Run(ctx, db, gateway, enr, speaker, cfg); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
