package commands

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/models"
)

func NewEditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a meme you uploaded",
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

			if !models.IsServerID(meme.ID) {
				return fmt.Errorf("built-in memes cannot be edited")
			}
			if !session.IsAdmin() && meme.OwnerID != session.UserID {
				return fmt.Errorf("you can only edit memes you uploaded")
			}

			in, err := editForm(meme)
			if err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}

			tags := make([]string, 0, len(in.Tags))
			for _, t := range in.Tags {
				tags = append(tags, string(t))
			}
			fields := map[string]interface{}{
				"title":    in.Title,
				"quote":    in.Quote,
				"category": string(in.Category),
				"tags":     tags,
			}
			if err := env.Client.UpdateMeme(context.Background(), meme.ID, fields); err != nil {
				return fmt.Errorf("could not update meme: %w", err)
			}

			fmt.Printf("✅ Updated %q\n", in.Title)
			return nil
		},
	}
}

// editForm prompts for each field, prefilled with the current values.
func editForm(m models.Meme) (models.UploadInput, error) {
	in := models.UploadInput{Title: m.Title, Quote: m.Quote, Category: m.Category}

	if err := survey.AskOne(&survey.Input{Message: "Title:", Default: m.Title}, &in.Title, survey.WithValidator(survey.Required)); err != nil {
		return in, err
	}
	if err := survey.AskOne(&survey.Input{Message: "Quote:", Default: m.Quote}, &in.Quote, survey.WithValidator(survey.Required)); err != nil {
		return in, err
	}

	var picked string
	if err := survey.AskOne(&survey.Select{Message: "Cast:", Options: categoryOptions(), Default: string(m.Category)}, &picked); err != nil {
		return in, err
	}
	in.Category = models.Category(picked)

	current := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		current = append(current, string(t))
	}
	var tags []string
	if err := survey.AskOne(&survey.MultiSelect{Message: "Tags:", Options: emotionOptions(), Default: current, PageSize: 12}, &tags); err != nil {
		return in, err
	}
	for _, tag := range tags {
		in.Tags = append(in.Tags, models.Emotion(tag))
	}
	return in, nil
}
