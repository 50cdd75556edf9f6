package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/models"
)

func NewShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a single meme in detail",
		ArgsUsage: "<meme-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "copy", Usage: "Copy the image URL to the clipboard"},
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
			rec := env.newReconciler(catalog.ScopeAll)
			if _, err := rec.Load(context.Background()); err != nil {
				return err
			}

			meme, err := rec.Get(id)
			if err != nil {
				return err
			}

			if err := renderMemeDetail(meme); err != nil {
				return err
			}

			if c.Bool("copy") {
				if err := clipboard.WriteAll(meme.ImageURL); err != nil {
					fmt.Printf("⚠️  Could not access the clipboard: %v\n", err)
					return nil
				}
				fmt.Println("✅ Image URL copied to clipboard")
			}
			return nil
		},
	}
}

func renderMemeDetail(m models.Meme) error {
	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, "`"+string(t)+"`")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.Title)
	fmt.Fprintf(&b, "> %s\n\n", m.Quote)
	fmt.Fprintf(&b, "- **ID**: %s\n", m.ID)
	fmt.Fprintf(&b, "- **Cast**: %s\n", m.Category)
	if len(tags) > 0 {
		fmt.Fprintf(&b, "- **Tags**: %s\n", strings.Join(tags, " "))
	}
	fmt.Fprintf(&b, "- **Likes**: %d\n", m.Likes)
	if m.OwnerNickname != "" {
		fmt.Fprintf(&b, "- **Uploaded by**: %s\n", m.OwnerNickname)
	}
	if !m.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- **Created**: %s\n", m.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "- **Image**: %s\n", m.ImageURL)
	if m.IsFavorite {
		b.WriteString("\n♥ You liked this meme\n")
	}
	if m.IsSaved {
		b.WriteString("\n★ In your collection\n")
	}

	out, err := glamour.Render(b.String(), "dark")
	if err != nil {
		// plain fallback when the renderer chokes on the terminal profile
		fmt.Print(b.String())
		return nil
	}
	fmt.Print(out)
	return nil
}
