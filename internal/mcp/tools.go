package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/models"
)

func registerTools(server *mcp.Server, deps *Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_memes",
		Description: "Search the meme catalog by keyword, cast category and scope. Returns matching memes with id, title, quote, category, tags, like count and the user's liked/saved flags.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Search Memes",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(true),
		},
	}, deps.handleSearchMemes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_meme",
		Description: "Get one meme by id, including the image URL and uploader nickname.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Meme",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(true),
		},
	}, deps.handleGetMeme)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_like",
		Description: "Toggle the user's like on a meme. Returns the updated record; the like count moves by one in the matching direction.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Toggle Like",
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, deps.handleToggleLike)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_save",
		Description: "Toggle a meme in the user's collection. Returns the updated record and whether it left the current view.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Toggle Save",
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, deps.handleToggleSave)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sign_guestbook",
		Description: "Leave a short message in the public guestbook. author defaults to 익명 and is capped at 50 characters; message is capped at 500 characters.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Sign Guestbook",
			OpenWorldHint: boolPtr(true),
		},
	}, deps.handleSignGuestbook)
}

// memeResult is the wire shape tools return for a single meme.
type memeResult struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Quote    string   `json:"quote"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Likes    int      `json:"likes"`
	Liked    bool     `json:"liked"`
	Saved    bool     `json:"saved"`
	ImageURL string   `json:"image_url,omitempty"`
	Uploader string   `json:"uploader,omitempty"`
}

func toResult(m models.Meme, withImage bool) memeResult {
	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, string(t))
	}
	out := memeResult{
		ID:       m.ID,
		Title:    m.Title,
		Quote:    m.Quote,
		Category: string(m.Category),
		Tags:     tags,
		Likes:    m.Likes,
		Liked:    m.IsFavorite,
		Saved:    m.IsSaved,
	}
	if withImage {
		out.ImageURL = m.ImageURL
		out.Uploader = m.OwnerNickname
	}
	return out
}

type SearchMemesInput struct {
	Query    string `json:"query,omitempty"`    // keyword over title, quote and tags
	Category string `json:"category,omitempty"` // cast category, 전체 or empty for all
	Scope    string `json:"scope,omitempty"`    // all (default), saved or liked
	Limit    int    `json:"limit,omitempty"`    // max results, default 20
}

func (d *Deps) handleSearchMemes(ctx context.Context, req *mcp.CallToolRequest, input SearchMemesInput) (*mcp.CallToolResult, interface{}, error) {
	if _, err := d.Reconciler.Load(ctx); err != nil {
		return nil, nil, err
	}

	scope := catalog.ScopeAll
	switch strings.ToLower(strings.TrimSpace(input.Scope)) {
	case "", "all":
	case "saved":
		scope = catalog.ScopeSaved
	case "liked":
		scope = catalog.ScopeLiked
	default:
		return nil, nil, fmt.Errorf("invalid scope %q, must be all, saved or liked", input.Scope)
	}

	category := models.Category(strings.TrimSpace(input.Category))
	if category != "" && category != models.CategoryAll && !category.Valid() {
		return nil, nil, fmt.Errorf("unknown category %q", input.Category)
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	memes := d.Reconciler.Filter(input.Query, category, scope)
	if len(memes) > limit {
		memes = memes[:limit]
	}

	results := make([]memeResult, 0, len(memes))
	for _, m := range memes {
		results = append(results, toResult(m, false))
	}
	return nil, map[string]interface{}{"memes": results, "count": len(results)}, nil
}

type GetMemeInput struct {
	ID string `json:"id"`
}

func (d *Deps) handleGetMeme(ctx context.Context, req *mcp.CallToolRequest, input GetMemeInput) (*mcp.CallToolResult, interface{}, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, nil, fmt.Errorf("id is required")
	}
	if _, err := d.Reconciler.Load(ctx); err != nil {
		return nil, nil, err
	}
	meme, err := d.Reconciler.Get(input.ID)
	if err != nil {
		return nil, nil, err
	}
	return nil, toResult(meme, true), nil
}

type ToggleInput struct {
	ID string `json:"id"`
}

func (d *Deps) handleToggleLike(ctx context.Context, req *mcp.CallToolRequest, input ToggleInput) (*mcp.CallToolResult, interface{}, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, nil, fmt.Errorf("id is required")
	}
	if _, err := d.Reconciler.Load(ctx); err != nil {
		return nil, nil, err
	}
	meme, err := d.Reconciler.ToggleLike(input.ID)
	if err != nil {
		return nil, nil, err
	}
	return nil, toResult(meme, false), nil
}

func (d *Deps) handleToggleSave(ctx context.Context, req *mcp.CallToolRequest, input ToggleInput) (*mcp.CallToolResult, interface{}, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, nil, fmt.Errorf("id is required")
	}
	if _, err := d.Reconciler.Load(ctx); err != nil {
		return nil, nil, err
	}
	meme, removed, err := d.Reconciler.ToggleSave(input.ID)
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]interface{}{"meme": toResult(meme, false), "removed_from_view": removed}, nil
}

type SignGuestbookInput struct {
	Author  string `json:"author,omitempty"`
	Message string `json:"message"`
}

func (d *Deps) handleSignGuestbook(ctx context.Context, req *mcp.CallToolRequest, input SignGuestbookInput) (*mcp.CallToolResult, interface{}, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, nil, fmt.Errorf("message is required")
	}
	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = "익명"
	}
	entry, err := d.Client.SignGuestbook(ctx, author, message)
	if err != nil {
		return nil, nil, err
	}
	return nil, entry, nil
}
