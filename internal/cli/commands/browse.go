package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/models"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	likedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

func NewBrowseCommand() *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"ls", "list"},
		Usage:   "Browse the meme catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search title, quote and tags"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by cast category (전체 for all)"},
			&cli.StringFlag{Name: "scope", Aliases: []string{"s"}, Value: "all", Usage: "View scope: all, saved or liked"},
		},
		Action: func(c *cli.Context) error {
			scope, err := parseScope(c.String("scope"))
			if err != nil {
				return err
			}
			category, err := parseCategory(c.String("category"))
			if err != nil {
				return err
			}

			env, err := newEnv()
			if err != nil {
				return err
			}
			rec := env.newReconciler(scope)
			if _, err := rec.Load(context.Background()); err != nil {
				return err
			}

			memes := rec.Filter(c.String("query"), category, scope)
			printMemeTable(memes)
			return nil
		},
	}
}

func parseScope(raw string) (catalog.Scope, error) {
	switch catalog.Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case "", catalog.ScopeAll:
		return catalog.ScopeAll, nil
	case catalog.ScopeSaved:
		return catalog.ScopeSaved, nil
	case catalog.ScopeLiked:
		return catalog.ScopeLiked, nil
	}
	return "", fmt.Errorf("unknown scope %q (use all, saved or liked)", raw)
}

func parseCategory(raw string) (models.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || models.Category(raw) == models.CategoryAll {
		return models.CategoryAll, nil
	}
	category := models.Category(raw)
	if !category.Valid() {
		names := make([]string, 0, len(models.Categories()))
		for _, c := range models.Categories() {
			names = append(names, string(c))
		}
		return "", fmt.Errorf("unknown category %q (one of: %s)", raw, strings.Join(names, ", "))
	}
	return category, nil
}

func printMemeTable(memes []models.Meme) {
	if len(memes) == 0 {
		fmt.Println("No memes matched. Try a different keyword or category.")
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-14s %-24s %-8s %-20s %6s %s", "ID", "TITLE", "CAST", "TAGS", "LIKES", "")))
	for _, m := range memes {
		tags := make([]string, 0, len(m.Tags))
		for _, t := range m.Tags {
			tags = append(tags, string(t))
		}
		marks := ""
		if m.IsFavorite {
			marks += likedStyle.Render("♥")
		}
		if m.IsSaved {
			marks += "★"
		}
		fmt.Printf("%s %-24s %s %s %6d %s\n",
			idStyle.Render(fmt.Sprintf("%-14s", truncateString(m.ID, 14))),
			truncateString(m.Title, 24),
			categoryStyle.Render(fmt.Sprintf("%-8s", m.Category)),
			tagStyle.Render(fmt.Sprintf("%-20s", truncateString(strings.Join(tags, " "), 20))),
			m.Likes,
			marks,
		)
	}
	fmt.Printf("\n%d meme(s)\n", len(memes))
}
