package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start tetris with an interactive menu",
	Long: `Start tetris in interactive menu mode.

Pick a marathon, host or join a two-player match, or browse the high
scores. After a game ends you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  tetris menu
  tetris menu --fps 30
  tetris menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	// Uses global flags from main.go; --server-address pre-fills the join prompt
	addGameFlags(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	rt := runtimeConfig()

	// Menu loop
	for {
		result, err := tui.RunMenu(rt.ScreenW, rt.ScreenH, flagServerAddress)
		if err != nil {
			return err
		}
		rt.ScreenW, rt.ScreenH = result.Width, result.Height

		var mode multiplayer.Mode
		switch result.Choice {
		case tui.MenuChoiceMarathon:
			mode = multiplayer.SinglePlayer{}
		case tui.MenuChoiceHost:
			mode = multiplayer.Host{Addr: cfg.Network.ListenAddr}
		case tui.MenuChoiceJoin:
			mode = multiplayer.Guest{Addr: result.Address}
		case tui.MenuChoiceScores:
			goBack, sbErr := tui.RunScoreboard(store, rt.ScreenW, rt.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return nil
		default:
			return nil
		}

		// Fresh seed per game unless one was pinned
		if flagSeed == 0 {
			rt.Seed = time.Now().UnixNano()
		}

		if err := play(mode, cfg, store, rt, logger); err != nil {
			// Connection failures are already shown on the connect screen
			logger.Error("session failed", "mode", mode, "error", err)
		}
	}
}
