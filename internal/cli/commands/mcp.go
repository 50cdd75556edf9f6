package commands

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/mcp"
	"github.com/jjalhub/jjal-cli/internal/overlay"
)

func NewMCPCommand(version string) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server over stdio",
		Action: func(c *cli.Context) error {
			env, err := newEnv()
			if err != nil {
				return err
			}

			// stdout carries the protocol; the reconciler must stay silent
			store := overlay.NewFileStore(env.Cfg.StateDir)
			rec := catalog.New(env.Client, store, nil, catalog.Options{})

			return mcp.ServeStdio(context.Background(), mcp.Deps{
				Client:     env.Client,
				Reconciler: rec,
				Version:    version,
			})
		},
	}
}
