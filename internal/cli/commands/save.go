package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/catalog"
)

func NewSaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Toggle a meme in your collection",
		ArgsUsage: "<meme-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("meme id is required")
			}
			id := c.Args().First()

			env, err := newEnv()
			if err != nil {
				return err
			}
			rec := env.newReconciler(catalog.ScopeAll)
			if _, err := rec.Load(context.Background()); err != nil {
				return err
			}

			meme, _, err := rec.ToggleSave(id)
			if err != nil {
				return err
			}
			if meme.IsSaved {
				fmt.Printf("✅ Saved %q to your collection\n", meme.Title)
			} else {
				fmt.Printf("✅ Removed %q from your collection\n", meme.Title)
			}
			return nil
		},
	}
}

func NewSavedCommand() *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "List the memes in your collection",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search title, quote and tags"},
		},
		Action: func(c *cli.Context) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			rec := env.newReconciler(catalog.ScopeSaved)
			if _, err := rec.Load(context.Background()); err != nil {
				return err
			}

			memes := rec.Filter(c.String("query"), "", catalog.ScopeSaved)
			printMemeTable(memes)
			return nil
		},
	}
}
