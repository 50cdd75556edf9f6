package main

import (
	"fmt"
	"os"

	"github.com/jjalhub/jjal-cli/internal/cli/commands"
	"github.com/urfave/cli/v2"
)

// Version will be set during build with ldflags
var Version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "jjal",
		Usage:   "Browse, collect and share Muhan Dojeon memes from your terminal",
		Version: Version,
		Commands: []*cli.Command{
			// Catalog
			commands.NewBrowseCommand(),
			commands.NewShowCommand(),
			commands.NewGalleryCommand(),

			// Collection
			commands.NewLikeCommand(),
			commands.NewSaveCommand(),
			commands.NewSavedCommand(),

			// Publishing
			commands.NewUploadCommand(),
			commands.NewEditCommand(),
			commands.NewDeleteCommand(),

			// Community
			commands.NewGuestbookCommand(),

			// Account & meta
			commands.NewAuthCommand(),
			commands.NewConfigCommand(),
			commands.NewMCPCommand(Version),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
