package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/models"
)

func NewDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a meme",
		ArgsUsage: "<meme-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("meme id is required")
			}
			id := c.Args().First()

			env, err := newEnv()
			if err != nil {
				return err
			}
			session, err := env.requireSession()
			if err != nil {
				return err
			}

			rec := env.newReconciler(catalog.ScopeAll)
			if _, err := rec.Load(context.Background()); err != nil {
				return err
			}
			meme, err := rec.Get(id)
			if err != nil {
				return err
			}

			if !c.Bool("yes") {
				confirmed := false
				prompt := &survey.Confirm{Message: fmt.Sprintf("Delete %q? This cannot be undone.", meme.Title)}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("💡 Cancelled")
					return nil
				}
			}

			if err := rec.Delete(context.Background(), id, session.Identity()); err != nil {
				if errors.Is(err, catalog.ErrPermissionDenied) {
					return fmt.Errorf("you can only delete memes you uploaded")
				}
				return err
			}

			if models.IsServerID(id) {
				fmt.Printf("✅ Deleted %q\n", meme.Title)
			} else {
				fmt.Printf("✅ Hid built-in meme %q on this device\n", meme.Title)
			}
			return nil
		},
	}
}
