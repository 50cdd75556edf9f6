package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"

	"github.com/jjalhub/jjal-cli/internal/api"
	"github.com/jjalhub/jjal-cli/internal/models"
)

const maxImageBytes = 10 << 20 // 10 MB

var imageExts = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

func NewUploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload a new meme",
		ArgsUsage: "<image-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Meme title (prompted when omitted)"},
			&cli.StringFlag{Name: "quote", Usage: "The quote on the meme (prompted when omitted)"},
			&cli.StringFlag{Name: "category", Usage: "Cast category (prompted when omitted)"},
			&cli.StringSliceFlag{Name: "tag", Usage: "Emotion tag, repeatable (prompted when omitted)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("image file is required")
			}

			env, err := newEnv()
			if err != nil {
				return err
			}
			session, err := env.requireSession()
			if err != nil {
				return err
			}

			data, contentType, err := readImage(c.Args().First())
			if err != nil {
				return err
			}

			in, err := uploadForm(c)
			if err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}

			fmt.Println("🔄 Uploading image...")
			path := api.ImagePath(session.UserID, time.Now().UnixMilli(), imageExts[contentType])
			imageURL, err := env.Client.UploadImage(context.Background(), path, data, contentType)
			if err != nil {
				return fmt.Errorf("image upload failed: %w", err)
			}

			meme, err := env.Client.InsertMeme(context.Background(), session.UserID, imageURL, in)
			if err != nil {
				// best-effort cleanup of the orphaned blob
				if delErr := env.Client.DeleteImage(context.Background(), path); delErr != nil {
					fmt.Printf("⚠️  Could not remove uploaded image after failure: %v\n", delErr)
				}
				return fmt.Errorf("could not create meme: %w", err)
			}

			fmt.Printf("✅ Uploaded %q (%s)\n", meme.Title, meme.ID)
			return nil
		},
	}
}

// readImage loads the file and verifies it is an acceptable image under the
// size cap. The content type comes from the bytes, not the extension.
func readImage(path string) ([]byte, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not read %s: %w", path, err)
	}
	if info.Size() > maxImageBytes {
		return nil, "", fmt.Errorf("image is %.1f MB, the limit is 10 MB", float64(info.Size())/(1<<20))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not read %s: %w", path, err)
	}
	contentType := http.DetectContentType(data)
	if _, ok := imageExts[contentType]; !ok {
		return nil, "", fmt.Errorf("%s is not a supported image (jpeg, png, gif or webp)", filepath.Base(path))
	}
	return data, contentType, nil
}

// uploadForm fills an UploadInput from flags, prompting for whatever the
// flags left blank.
func uploadForm(c *cli.Context) (models.UploadInput, error) {
	in := models.UploadInput{
		Title:    strings.TrimSpace(c.String("title")),
		Quote:    strings.TrimSpace(c.String("quote")),
		Category: models.Category(strings.TrimSpace(c.String("category"))),
	}
	for _, tag := range c.StringSlice("tag") {
		in.Tags = append(in.Tags, models.Emotion(strings.TrimSpace(tag)))
	}

	if in.Title == "" {
		if err := survey.AskOne(&survey.Input{Message: "Title:"}, &in.Title, survey.WithValidator(survey.Required)); err != nil {
			return in, err
		}
	}
	if in.Quote == "" {
		if err := survey.AskOne(&survey.Multiline{Message: "Quote:"}, &in.Quote, survey.WithValidator(survey.Required)); err != nil {
			return in, err
		}
	}
	if in.Category == "" {
		var picked string
		if err := survey.AskOne(&survey.Select{Message: "Cast:", Options: categoryOptions()}, &picked); err != nil {
			return in, err
		}
		in.Category = models.Category(picked)
	}
	if len(in.Tags) == 0 {
		var picked []string
		if err := survey.AskOne(&survey.MultiSelect{Message: "Tags:", Options: emotionOptions(), PageSize: 12}, &picked); err != nil {
			return in, err
		}
		for _, tag := range picked {
			in.Tags = append(in.Tags, models.Emotion(tag))
		}
	}
	return in, nil
}

func categoryOptions() []string {
	out := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		out = append(out, string(c))
	}
	return out
}

func emotionOptions() []string {
	out := make([]string, 0, len(models.Emotions()))
	for _, e := range models.Emotions() {
		out = append(out, string(e))
	}
	return out
}
