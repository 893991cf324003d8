package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagMultiplayer   bool
	flagServerAddress string
	flagListen        string
	flagLevel         int
	flagLines         int
	flagDifficulty    string
	flagName          string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a marathon game, or a two-player match with --multiplayer.

With --multiplayer and no --server-address this instance hosts the match
and waits on --listen for the opponent. With --server-address it joins the
host at that address.

Controls:
  ←/→ h/l      - Move
  ↑/s          - Soft drop
  ↓/j          - Hard drop
  Space        - Rotate clockwise
  z            - Rotate counter-clockwise
  c            - Hold
  p            - Pause (single player)
  ?            - Help
  q/Esc        - Quit (asks for confirmation)

Difficulty options:
  easy   - Start at level 0 with a longer lock delay
  normal - Start at level 5
  hard   - Start at level 10 with fewer lock resets
  fixed  - No level progression, stays at the start level

Examples:
  tetris play
  tetris play --level 3 --lines 5
  tetris play --difficulty hard
  tetris play --multiplayer --listen :9000
  tetris play --multiplayer --server-address 192.168.1.20:9000`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addGameFlags(playCmd)
}

// addGameFlags registers the gameplay flags shared by play and menu.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagMultiplayer, "multiplayer", false, "Play a two-player match over TCP")
	cmd.Flags().StringVar(&flagServerAddress, "server-address", "", "Host address to join (host:port)")
	cmd.Flags().StringVar(&flagListen, "listen", "", "Address to listen on when hosting (default from config, :8080)")
	cmd.Flags().IntVar(&flagLevel, "level", -1, "Start level (overrides config and difficulty)")
	cmd.Flags().IntVar(&flagLines, "lines", -1, "Rows already filled with garbage at start")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	cmd.Flags().StringVar(&flagName, "name", "", "Player name for the high-score table")
}

// loadGameConfig reads the config file and applies the play flags on top.
func loadGameConfig() (config.TetrisConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagLevel >= 0 {
		cfg.Gameplay.StartLevel = min(flagLevel, cfg.Difficulty.MaxLevel)
	}
	if flagLines >= 0 {
		cfg.Gameplay.PrefilledRows = flagLines
	}
	if flagName != "" {
		cfg.Player.Name = flagName
	}
	if flagListen != "" {
		cfg.Network.ListenAddr = flagListen
	}
	return cfg, nil
}

// peerConfig maps the network settings onto the link tuning.
func peerConfig(cfg config.TetrisConfig, logger *log.Logger) multiplayer.PeerConfig {
	pc := multiplayer.DefaultPeerConfig()
	pc.HeartbeatInterval = cfg.Network.HeartbeatInterval
	pc.HeartbeatTimeout = cfg.Network.HeartbeatTimeout
	pc.Logger = logger
	return pc
}

// playMode picks the match mode from the play flags.
func playMode(cfg config.TetrisConfig) multiplayer.Mode {
	switch {
	case !flagMultiplayer && flagServerAddress == "":
		return multiplayer.SinglePlayer{}
	case flagServerAddress != "":
		return multiplayer.Guest{Addr: flagServerAddress}
	default:
		return multiplayer.Host{Addr: cfg.Network.ListenAddr}
	}
}

func runPlay(_ *cobra.Command, _ []string) error {
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

	return play(playMode(cfg), cfg, store, runtimeConfig(), logger)
}

// play runs one session in the given mode.
func play(mode multiplayer.Mode, cfg config.TetrisConfig, store *storage.Store, rt core.RuntimeConfig, logger *log.Logger) error {
	game := tui.GameOptions{
		Mode:       mode,
		Config:     cfg,
		Runtime:    rt,
		Store:      store,
		PlayerName: cfg.Player.Name,
		Logger:     logger,
	}

	logger.Info("starting session", "mode", mode, "seed", rt.Seed)

	if !mode.Multiplayer() {
		if err := tui.RunGame(game); err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		return nil
	}

	return tui.RunConnect(tui.ConnectOptions{
		Game:        game,
		Peer:        peerConfig(cfg, logger),
		DialTimeout: cfg.Network.DialTimeout,
	})
}
