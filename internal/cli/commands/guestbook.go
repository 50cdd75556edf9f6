package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

func NewGuestbookCommand() *cli.Command {
	return &cli.Command{
		Name:  "guestbook",
		Usage: "Read and sign the guestbook",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show recent guestbook entries",
				Action: func(c *cli.Context) error {
					env, err := newEnv()
					if err != nil {
						return err
					}
					entries, err := env.Client.ListGuestbook(context.Background())
					if err != nil {
						return fmt.Errorf("could not load the guestbook: %w", err)
					}
					if len(entries) == 0 {
						fmt.Println("The guestbook is empty. Be the first to sign it!")
						return nil
					}
					for _, e := range entries {
						when := ""
						if !e.CreatedAt.IsZero() {
							when = e.CreatedAt.Format("2006-01-02 15:04")
						}
						fmt.Printf("%s  %s\n  %s\n", headerStyle.Render(e.Author), idStyle.Render(when), e.Message)
					}
					return nil
				},
			},
			{
				Name:      "sign",
				Usage:     "Leave a message",
				ArgsUsage: "<message>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "as", Usage: "Name to sign with (defaults to your nickname)"},
				},
				Action: func(c *cli.Context) error {
					message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
					if message == "" {
						return fmt.Errorf("a message is required")
					}

					env, err := newEnv()
					if err != nil {
						return err
					}

					author := strings.TrimSpace(c.String("as"))
					if author == "" && env.Session != nil {
						author = env.Session.Nickname
					}
					if author == "" {
						author = "익명"
					}

					entry, err := env.Client.SignGuestbook(context.Background(), author, message)
					if err != nil {
						return fmt.Errorf("could not sign the guestbook: %w", err)
					}
					fmt.Printf("✅ Signed the guestbook as %s\n", entry.Author)
					return nil
				},
			},
		},
	}
}
