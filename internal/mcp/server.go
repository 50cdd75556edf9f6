// Package mcp exposes the meme catalog to AI agents over the Model Context
// Protocol. The server shares the reconciler with the CLI, so agent actions
// land in the same overlay files the commands read.
package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jjalhub/jjal-cli/internal/api"
	"github.com/jjalhub/jjal-cli/internal/catalog"
)

// Deps is everything the tool handlers need.
type Deps struct {
	Client     *api.Client
	Reconciler *catalog.Reconciler
	Version    string
}

// ServeStdio runs the MCP server over stdio until the transport closes.
func ServeStdio(ctx context.Context, deps Deps) error {
	if deps.Client == nil || deps.Reconciler == nil {
		return errors.New("client and reconciler are required")
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "jjal",
			Version: deps.Version,
		},
		&mcp.ServerOptions{
			Instructions: `jjal is a catalog of Korean variety-show memes.

Use search_memes to find memes by keyword, cast member or emotion tag,
then get_meme for the full record including the image URL. toggle_like
and toggle_save change the user's device-local flags; call search_memes
again afterwards to see the updated state.

Cast categories and emotion tags are fixed Korean vocabularies; pass
them exactly as returned by search_memes.`,
		},
	)

	registerTools(server, &deps)

	return server.Run(ctx, &mcp.StdioTransport{})
}

func boolPtr(b bool) *bool { return &b }
