package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/overlay"
	"github.com/jjalhub/jjal-cli/internal/tui"
)

func NewGalleryCommand() *cli.Command {
	return &cli.Command{
		Name:  "gallery",
		Usage: "Browse memes interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Value: "all", Usage: "View scope: all, saved or liked"},
		},
		Action: func(c *cli.Context) error {
			scope, err := parseScope(c.String("scope"))
			if err != nil {
				return err
			}
			env, err := newEnv()
			if err != nil {
				return err
			}
			// no print notifier here: stray writes would tear the altscreen
			store := overlay.NewFileStore(env.Cfg.StateDir)
			rec := catalog.New(env.Client, store, nil, catalog.Options{Scope: scope})
			return tui.Run(rec, env.Session.Identity())
		},
	}
}
