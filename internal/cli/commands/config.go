package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/config"
)

func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the active configuration",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Println("Configuration:")
			fmt.Printf("  Backend URL: %s\n", valueOrUnset(cfg.Backend.URL))
			fmt.Printf("  Anon key:    %s\n", maskSecret(cfg.Backend.AnonKey))
			fmt.Printf("  State dir:   %s\n", cfg.StateDir)
			if cfg.Backend.URL == "" {
				fmt.Println("\n💡 Set JJAL_BACKEND_URL and JJAL_ANON_KEY (env or .env) to go online.")
				fmt.Println("   Without them the built-in catalog is still browsable.")
			}
			return nil
		},
	}
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}

func maskSecret(v string) string {
	if v == "" {
		return "(unset)"
	}
	if len(v) <= 8 {
		return "****"
	}
	return v[:4] + "..." + v[len(v)-4:]
}
