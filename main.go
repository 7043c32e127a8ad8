package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hexaequo/communication/server"
	"hexaequo/config"
	"hexaequo/engine"
	"hexaequo/game"
	"hexaequo/gamemaster"
	"hexaequo/storage"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	serve := flag.Bool("serve", false, "run the HTTP API instead of a demo game")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed for the demo playout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", cfg.LogLevel)
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	opts := []engine.Option{engine.WithLogger(log.Logger)}
	if cfg.DatabasePath != "" {
		store, err := storage.Open(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open save store")
		}
		defer store.Close()
		opts = append(opts, engine.WithStore(store))
	}
	eng := engine.New(opts...)

	if *serve {
		eng.StartNewGame()
		srv := server.New(eng, log.Logger)
		log.Info().Str("addr", cfg.Listen).Msg("serving hexaequo API")
		if err := srv.Start(cfg.Listen); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	runDemo(*seed)
}

// runDemo plays one random game to completion and prints the final position.
func runDemo(seed uint64) {
	gs := game.NewGameState()
	gs.SetupNewGame()

	playout := gamemaster.NewPlayout(seed)
	turns := playout.Run(gs)

	printBoard(gs)
	fmt.Printf("\nGame over after %d turns: %s", turns, gs.Status)
	switch gs.Status {
	case game.StatusBlackWin, game.StatusWhiteWin:
		fmt.Printf(" (%s wins)", gs.Winner)
	case game.StatusDraw:
		fmt.Printf(" (%s)", gs.DrawReason)
	}
	fmt.Println()
}

// printBoard renders the board row by row in axial coordinates. Tiles show
// as brackets in the owner's color, pieces as a letter inside them.
func printBoard(gs *game.GameState) {
	coords := gs.Board.Coords()
	if len(coords) == 0 {
		fmt.Println("(empty board)")
		return
	}

	minQ, maxQ := coords[0].Q, coords[0].Q
	minR, maxR := coords[0].R, coords[0].R
	for _, c := range coords {
		minQ, maxQ = min(minQ, c.Q), max(maxQ, c.Q)
		minR, maxR = min(minR, c.R), max(maxR, c.R)
	}

	paint := map[game.Color]*color.Color{
		game.Black: color.New(color.FgHiBlack, color.Bold),
		game.White: color.New(color.FgHiWhite, color.Bold),
	}

	for r := minR; r <= maxR; r++ {
		// Shift each row by half a cell so hex columns line up.
		fmt.Print(strings.Repeat("  ", r-minR))
		for q := minQ; q <= maxQ; q++ {
			tile := gs.Board.TileAt(game.Coord{Q: q, R: r})
			if tile == nil {
				fmt.Print("  . ")
				continue
			}
			glyph := " "
			if tile.Piece != nil {
				switch tile.Piece.Type {
				case game.Disc:
					glyph = "d"
				case game.Ring:
					glyph = "o"
				}
				glyph = paint[tile.Piece.Color].Sprint(glyph)
			}
			fmt.Printf(" %s%s%s", paint[tile.Color].Sprint("["), glyph, paint[tile.Color].Sprint("]"))
		}
		fmt.Println()
	}
}
