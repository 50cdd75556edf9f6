package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/catalog"
)

func NewLikeCommand() *cli.Command {
	return &cli.Command{
		Name:      "like",
		Usage:     "Toggle your like on a meme",
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

			meme, err := rec.ToggleLike(id)
			if err != nil {
				return err
			}
			if meme.IsFavorite {
				fmt.Printf("✅ Liked %q (%d likes)\n", meme.Title, meme.Likes)
			} else {
				fmt.Printf("✅ Unliked %q (%d likes)\n", meme.Title, meme.Likes)
			}
			return nil
		},
	}
}
