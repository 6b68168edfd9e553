package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileroll/internal/config"
	"github.com/vovakirdan/tileroll/internal/cubes"
	"github.com/vovakirdan/tileroll/internal/storage"
)

var cubesCmd = &cobra.Command{
	Use:   "cubes",
	Short: "List cube skins",
	Long: `Shows the cube catalog for the profile: which skins are unlocked by
high score, which were bought with cubelets, and which one is equipped.

Examples:
  tileroll cubes
  tileroll cubes select ocean
  tileroll cubes buy ember --profile alice`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withCubes(func(m *cubes.Manager, p *storage.Profile, cubelets int) error {
			fmt.Printf("Profile %s: %d cubelets\n\n", p.Name(), cubelets)
			fmt.Printf("  %-2s %-10s %-8s %-10s %s\n", "", "ID", "Color", "Best", "Cost")
			for _, c := range m.Cubes() {
				mark := " "
				switch {
				case c.Selected:
					mark = "*"
				case c.Unlocked:
					mark = "+"
				}
				cost := "-"
				if c.Cost > 0 {
					cost = fmt.Sprintf("%d", c.Cost)
				}
				fmt.Printf("  %-2s %-10s %-8s %-10d %s\n", mark, c.ID, c.Color, c.RequiredHighScore, cost)
			}
			fmt.Println()
			fmt.Println("* equipped, + unlocked")
			return nil
		})
	},
}

var cubesSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Equip an unlocked cube",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withCubes(func(m *cubes.Manager, p *storage.Profile, _ int) error {
			if err := m.Select(args[0]); err != nil {
				return err
			}
			if err := p.SaveSelectedCubeID(args[0]); err != nil {
				return err
			}
			fmt.Printf("Equipped %s.\n", m.Selected().Name)
			return nil
		})
	},
}

var cubesBuyCmd = &cobra.Command{
	Use:   "buy <id>",
	Short: "Unlock a cube with cubelets",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withCubes(func(m *cubes.Manager, p *storage.Profile, cubelets int) error {
			remaining, err := m.Purchase(args[0], cubelets)
			if err != nil {
				return err
			}
			if err := p.SavePurchased(m.Purchased()); err != nil {
				return err
			}
			if err := p.SaveCubelets(remaining); err != nil {
				return err
			}
			fmt.Printf("Unlocked %s, %d cubelets left.\n", args[0], remaining)
			return nil
		})
	},
}

func init() {
	cubesCmd.AddCommand(cubesSelectCmd)
	cubesCmd.AddCommand(cubesBuyCmd)
}

// withCubes loads the profile's catalog state and calls fn with it.
func withCubes(fn func(m *cubes.Manager, p *storage.Profile, cubelets int) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer store.Close()

	profile := store.Profile(flagProfile)
	m, err := loadManager(cfg, profile)
	if err != nil {
		return err
	}
	cubelets, err := profile.LoadCubelets()
	if err != nil {
		return err
	}
	return fn(m, profile, cubelets)
}

func loadManager(cfg config.TileRollConfig, p *storage.Profile) (*cubes.Manager, error) {
	m, err := cubes.NewManager(cfg.Cubes)
	if err != nil {
		return nil, err
	}

	hs, err := p.LoadHighScore()
	if err != nil {
		return nil, err
	}
	m.SetHighScore(hs)

	bought, err := p.LoadPurchased()
	if err != nil {
		return nil, err
	}
	m.SetPurchased(bought)

	if id, ok, err := p.LoadSelectedCubeID(); err != nil {
		return nil, err
	} else if ok {
		m.Restore(id)
	}
	return m, nil
}
