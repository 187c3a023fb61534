// perft is a movegen correctness and performance debugging tool: it walks
// the legal move tree to a fixed depth and reports leaf counts, optionally
// split per root move (divide), for comparison against published perft
// results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"golang.org/x/exp/slices"

	chego "github.com/treepeck/chegocore"
	"github.com/treepeck/chegocore/cmd/perft/config"
	"github.com/treepeck/chegocore/internal/perft"
	"github.com/treepeck/chegocore/movegen"
	"github.com/treepeck/chegocore/position"
	"github.com/treepeck/chegocore/types"
)

var version = build.NewVersion(0, 1, 0)

var (
	configPath = flag.String("config", "", "Path to an optional TOML config file")
	depth      = flag.Int("depth", 0, "Search depth (0 uses the config/default)")
	fen        = flag.String("fen", "", "Start position (default: standard initial position)")
	divide     = flag.Bool("divide", false, "Report per-root-move leaf counts")
	cpuProfile = flag.String("cpuprofile", "", "Write a pprof CPU profile to this path")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	cfg := config.Load(*configPath)
	if *depth != 0 {
		cfg.Depth = *depth
	}
	if *fen != "" {
		cfg.FEN = *fen
	}
	if *divide {
		cfg.Divide = true
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logw.Exitf(ctx, "Cannot create cpu profile %q: %v", *cpuProfile, err)
		}
		defer f.Close()
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	fenStr := cfg.FEN
	if fenStr == "" {
		fenStr = position.InitialFEN
	}
	pos, err := position.ParseFEN(fenStr)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen %q: %v", fenStr, err)
	}

	logw.Infof(ctx, "perft %v starting: fen=%q depth=%v divide=%v", version, fenStr, cfg.Depth, cfg.Divide)

	if cfg.Divide {
		runDivide(pos, cfg.Depth, cfg.Parallel)
		return
	}

	for d := 1; d <= cfg.Depth; d++ {
		start := time.Now()
		nodes := perft.Count(pos, d)
		elapsed := time.Since(start)
		fmt.Printf("perft,%s,%d,%d,%d\n", fenStr, d, nodes, elapsed.Microseconds())
	}
}

func runDivide(pos *position.Position, depth, workers int) {
	var counts map[string]int64
	if workers > 1 {
		counts = dividerParallel(pos, depth, workers)
	} else {
		counts = perft.Divide(pos, depth, chego.EncodeMove)
	}

	moves := make([]string, 0, len(counts))
	for m := range counts {
		moves = append(moves, m)
	}
	slices.Sort(moves)

	var total int64
	for _, m := range moves {
		fmt.Printf("%s: %d\n", m, counts[m])
		total += counts[m]
	}
	fmt.Printf("total: %d\n", total)
}

// dividerParallel counts each root move's subtree on its own worker, every
// worker operating on its own position.Clone so no two goroutines ever touch
// the same make/unmake state. The job-channel-plus-WaitGroup shape is the
// same one a concurrent PGN-move-classification worker pool would use, with
// a root move standing in for a movetext line.
func dividerParallel(pos *position.Position, depth, workers int) map[string]int64 {
	type job struct {
		move types.Move
	}

	roots := movegen.Generate(pos)
	jobs := make(chan job, roots.N)
	for _, m := range roots.Slice() {
		jobs <- job{move: m}
	}
	close(jobs)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		counts = make(map[string]int64, roots.N)
	)

	if workers > roots.N {
		workers = roots.N
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker := pos.Clone()
			for j := range jobs {
				if err := worker.Make(j.move); err != nil {
					continue
				}
				nodes := perft.Count(worker, depth-1)
				worker.Unmake()

				mu.Lock()
				counts[chego.EncodeMove(j.move)] = nodes
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return counts
}
