// Command ggpengine plays a canned game to termination against a
// random policy and logs the resulting trajectory, a small demo of
// engine/gamemaster wired together the way a real CLI entrypoint would
// use them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ggpengine/clause"
	"ggpengine/engine"
	"ggpengine/gamemaster"
	"ggpengine/games"
	"ggpengine/meta"
	"ggpengine/metrics"
)

func main() {
	name := flag.String("game", "tictactoe", "which canned game to play: count-to-two, tile-puzzle, tictactoe")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random policy seed")
	maxTurns := flag.Int("max-turns", meta.DefaultMaxTurns, "turn cap before giving up on reaching terminal")
	metricsDir := flag.String("metrics-dir", "", "if set, write per-turn and per-playout CSV metrics under this directory")
	flag.Parse()

	configureLogging()

	rules, err := lookupGame(*name)
	if err != nil {
		log.Fatal().Err(err).Str("game", *name).Msg("unknown game")
	}

	e := engine.New()
	if err := e.CreateGame(*name, rules); err != nil {
		log.Fatal().Err(err).Msg("failed to install game")
	}

	gm := gamemaster.New(e, gamemaster.NewRandomPolicy(*seed))
	if *metricsDir != "" {
		gm.Metrics = metrics.NewCollector()
	}
	history, err := gm.PlayGame(context.Background(), *name, *maxTurns, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("game did not reach termination")
	}

	final := history.Current()
	log.Info().
		Int("turns", len(history)-1).
		Int("final_facts", final.Len()).
		Msg("game finished")
	for _, f := range final.Facts() {
		log.Info().Str("fact", f.String()).Msg("final state")
	}

	if *metricsDir != "" {
		if err := writeMetrics(*metricsDir, gm); err != nil {
			log.Error().Err(err).Msg("failed to write metrics")
		}
	}
}

func writeMetrics(dir string, gm *gamemaster.GameMaster) error {
	w, err := metrics.NewWriter(dir)
	if err != nil {
		return err
	}
	turnRecords := make([]metrics.TurnRecord, len(gm.TurnMetrics))
	for i, tm := range gm.TurnMetrics {
		turnRecords[i] = metrics.TurnRecord{Playout: 0, TurnMetric: tm}
	}
	if err := w.WriteTurnRecords(turnRecords); err != nil {
		return err
	}
	return w.WritePlayoutRecords([]metrics.PlayoutRecord{{ID: 0, PlayoutMetric: gm.PlayoutMetric}})
}

func lookupGame(name string) (clause.RuleSet, error) {
	switch name {
	case "count-to-two":
		return games.CountToTwo(), nil
	case "tile-puzzle":
		return games.TilePuzzle(), nil
	case "tictactoe":
		return games.TicTacToe(), nil
	default:
		return nil, fmt.Errorf("unknown game %q", name)
	}
}

func configureLogging() {
	out := colorable.NewColorable(os.Stderr)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     out,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()),
	})
}
