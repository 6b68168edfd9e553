package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileroll/internal/registry"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List all play modes",
	Long:  `Shows every play mode registered with TileRoll.`,
	RunE:  runModes,
}

func runModes(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	modes := registry.List()
	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return nil
	}

	fmt.Println("Available modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		if len(m.ID) > maxIDLen {
			maxIDLen = len(m.ID)
		}
	}

	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "ID", "Title", "Time limit")
	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "--", "-----", "----------")

	for _, info := range modes {
		mode, err := registry.Create(info.ID)
		if err != nil {
			return err
		}
		limit := "none"
		if secs := mode.TimeLimit(cfg); secs > 0 {
			limit = fmt.Sprintf("%.0fs", secs)
		}
		fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, info.ID, info.Title, limit)
	}

	fmt.Println()
	fmt.Println("Run 'tileroll play <id>' to play a mode.")
	return nil
}
