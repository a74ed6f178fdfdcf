// Command demo runs a two-step pipeline against the version-scoped
// filesystem store twice with identical step versions. The first pass
// computes and persists both outputs; the second pass finds every version in
// the store and skips compute entirely.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"stepstore/internal/codec"
	"stepstore/internal/config"
	"stepstore/internal/outputstore"
	"stepstore/internal/pipeline"
)

func main() {
	base := flag.String("base", "", "base directory for stored outputs (default: STEPSTORE_BASE_DIR or .)")
	passes := flag.Int("passes", 2, "number of pipeline passes to run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	baseDir := cfg.BaseDir
	if *base != "" {
		baseDir = *base
	}

	store, err := outputstore.NewVersionedFSStore(baseDir, codec.JSONCodec{})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < *passes; i++ {
		runID := uuid.NewString()
		log.Printf("pass %d: run %s", i+1, runID)
		if err := runPipeline(ctx, store, runID); err != nil {
			log.Fatal(err)
		}
	}
}

func runPipeline(ctx context.Context, store outputstore.VersionedStore, runID string) error {
	extract, err := pipeline.ExecuteStep(ctx, store, "demo", runID, pipeline.StepSpec{
		Key:     "extract",
		Version: fingerprint("extract", "v1"),
		Run: func(context.Context) (any, error) {
			log.Println("extract: computing")
			return []any{"alpha", "beta", "gamma"}, nil
		},
	})
	if err != nil {
		return err
	}

	transform, err := pipeline.ExecuteStep(ctx, store, "demo", runID, pipeline.StepSpec{
		Key:     "transform",
		Version: fingerprint("transform", "v1"),
		Run: func(context.Context) (any, error) {
			log.Println("transform: computing")
			words, _ := extract.Value.([]any)
			out := make([]any, 0, len(words))
			for _, w := range words {
				out = append(out, strings.ToUpper(fmt.Sprint(w)))
			}
			return out, nil
		},
	})
	if err != nil {
		return err
	}

	log.Printf("extract cached=%v, transform cached=%v, result=%v",
		extract.Cached, transform.Cached, transform.Value)
	return nil
}

func fingerprint(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:8])
}
