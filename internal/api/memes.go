package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jjalhub/jjal-cli/internal/models"
)

// memeRow is the wire shape of a record row. Parsing into models.Meme is the
// single point where untyped backend data becomes typed: rows that fail the
// checks are skipped individually so one bad row cannot sink a whole load.
type memeRow struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	Title     string    `json:"title"`
	Quote     string    `json:"quote"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

func parseMeme(row memeRow) (models.Meme, error) {
	if row.ID == "" {
		return models.Meme{}, fmt.Errorf("row has no id")
	}
	if row.Title == "" || row.ImageURL == "" {
		return models.Meme{}, fmt.Errorf("row %s is missing title or image", row.ID)
	}
	category := models.Category(row.Category)
	if !category.Valid() {
		return models.Meme{}, fmt.Errorf("row %s has unknown category %q", row.ID, row.Category)
	}

	tags := make([]models.Emotion, 0, len(row.Tags))
	seen := make(map[models.Emotion]bool, len(row.Tags))
	for _, raw := range row.Tags {
		tag := models.Emotion(raw)
		if !tag.Valid() || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return models.Meme{}, fmt.Errorf("row %s has no usable tags", row.ID)
	}

	likes := row.Likes
	if likes < 0 {
		likes = 0
	}

	meme := models.Meme{
		ID:        row.ID,
		ImageURL:  row.ImageURL,
		Title:     row.Title,
		Quote:     row.Quote,
		Category:  category,
		Tags:      tags,
		Likes:     likes,
		CreatedAt: row.CreatedAt,
	}
	if row.UserID != nil {
		meme.OwnerID = *row.UserID
	}
	return meme, nil
}

// ListMemes returns all server records, newest first. Malformed rows are
// dropped; the count of dropped rows is returned so the caller can warn once.
func (c *Client) ListMemes(ctx context.Context) ([]models.Meme, int, error) {
	respBody, err := c.doJSON(ctx, "GET", "/rest/v1/memes?select=*&order=created_at.desc", nil, nil)
	if err != nil {
		return nil, 0, err
	}

	var rows []memeRow
	if err := json.Unmarshal(respBody, &rows); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal meme rows: %w", err)
	}

	memes := make([]models.Meme, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		meme, err := parseMeme(row)
		if err != nil {
			dropped++
			continue
		}
		memes = append(memes, meme)
	}
	return memes, dropped, nil
}

// LookupNicknames resolves owner ids to profile nicknames. Partial results
// are fine; a missing profiles relation counts as an empty result, matching
// the lenient lookup the web app does.
func (c *Client) LookupNicknames(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	filter := "in.(" + strings.Join(ids, ",") + ")"
	path := "/rest/v1/profiles?select=id,nickname&id=" + url.QueryEscape(filter)
	respBody, err := c.doJSON(ctx, "GET", path, nil, nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && isMissingRelation(statusErr) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	var profiles []models.Profile
	if err := json.Unmarshal(respBody, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles: %w", err)
	}

	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		if p.Nickname != "" {
			names[p.ID] = p.Nickname
		}
	}
	return names, nil
}

// isMissingRelation matches the responses a project without a profiles table
// produces: a plain 404, or the 42P01 "relation does not exist" and PGRST116
// codes in the error body.
func isMissingRelation(err *StatusError) bool {
	return err.Code == http.StatusNotFound ||
		strings.Contains(err.Body, "42P01") ||
		strings.Contains(err.Body, "PGRST116")
}

// InsertMeme creates a record. The empty episode field is kept for
// compatibility with the live table schema.
func (c *Client) InsertMeme(ctx context.Context, ownerID, imageURL string, in models.UploadInput) (*models.Meme, error) {
	reqBody := map[string]interface{}{
		"user_id":   ownerID,
		"image_url": imageURL,
		"title":     strings.TrimSpace(in.Title),
		"episode":   "",
		"quote":     strings.TrimSpace(in.Quote),
		"category":  string(in.Category),
		"tags":      in.Tags,
	}

	respBody, err := c.doJSON(ctx, "POST", "/rest/v1/memes", reqBody,
		map[string]string{"Prefer": "return=representation"})
	if err != nil {
		return nil, err
	}

	var rows []memeRow
	if err := json.Unmarshal(respBody, &rows); err != nil || len(rows) == 0 {
		return nil, fmt.Errorf("failed to unmarshal created meme")
	}
	meme, err := parseMeme(rows[0])
	if err != nil {
		return nil, err
	}
	return &meme, nil
}

// UpdateMeme applies fields to an existing record.
func (c *Client) UpdateMeme(ctx context.Context, id string, fields map[string]interface{}) error {
	path := "/rest/v1/memes?id=eq." + url.QueryEscape(id)
	_, err := c.doJSON(ctx, "PATCH", path, fields, nil)
	return err
}

// DeleteMeme removes a record.
func (c *Client) DeleteMeme(ctx context.Context, id string) error {
	path := "/rest/v1/memes?id=eq." + url.QueryEscape(id)
	_, err := c.doJSON(ctx, "DELETE", path, nil, nil)
	return err
}
