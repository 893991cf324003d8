package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores and match history",
	Long: `Display the top high scores and the most recent two-player matches.

Examples:
  tetris scores
  tetris scores --limit 20
  tetris scores --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rows to show per table")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	scores, err := store.TopScores(flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tetris play' to set the first high score!")
	} else {
		fmt.Printf("  %-4s  %-12s  %-9s  %-5s  %-5s  %s\n", "Rank", "Name", "Score", "Lines", "Level", "Date")
		fmt.Printf("  %-4s  %-12s  %-9s  %-5s  %-5s  %s\n", "----", "----", "-----", "-----", "-----", "----")
		for i, e := range scores {
			fmt.Printf("  %-4d  %-12s  %-9d  %-5d  %-5d  %s\n",
				i+1, e.PlayerName, e.Score, e.Lines, e.Level, e.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	matches, err := store.RecentMatches(flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving matches: %w", err)
	}
	if len(matches) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent Matches")
	fmt.Println()
	fmt.Printf("  %-16s  %-5s  %-6s  %-14s  %-8s  %s\n", "Date", "Role", "Result", "Reason", "Score", "Peer")
	fmt.Printf("  %-16s  %-5s  %-6s  %-14s  %-8s  %s\n", "----", "----", "------", "------", "-----", "----")
	for _, m := range matches {
		fmt.Printf("  %-16s  %-5s  %-6s  %-14s  %-8d  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.Role, m.Result, m.EndReason, m.Score, m.PeerAddr)
	}

	record, err := store.Tally()
	if err == nil {
		fmt.Println()
		fmt.Printf("Record: %d wins, %d losses, %d draws\n", record.Wins, record.Losses, record.Draws)
	}
	return nil
}
