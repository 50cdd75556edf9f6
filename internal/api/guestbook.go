package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jjalhub/jjal-cli/internal/models"
)

// Guestbook form bounds, shared by every surface that signs.
const (
	MaxGuestbookAuthor  = 50
	MaxGuestbookMessage = 500
)

// ListGuestbook returns all guestbook entries, newest first.
func (c *Client) ListGuestbook(ctx context.Context) ([]models.GuestbookEntry, error) {
	respBody, err := c.doJSON(ctx, "GET", "/rest/v1/guestbook?select=*&order=created_at.desc", nil, nil)
	if err != nil {
		return nil, err
	}

	var entries []models.GuestbookEntry
	if err := json.Unmarshal(respBody, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guestbook entries: %w", err)
	}
	return entries, nil
}

// SignGuestbook appends a guestbook entry.
func (c *Client) SignGuestbook(ctx context.Context, author, message string) (*models.GuestbookEntry, error) {
	author = strings.TrimSpace(author)
	message = strings.TrimSpace(message)
	if author == "" {
		return nil, fmt.Errorf("author is required")
	}
	if utf8.RuneCountInString(author) > MaxGuestbookAuthor {
		return nil, fmt.Errorf("author is too long (%d characters max)", MaxGuestbookAuthor)
	}
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if utf8.RuneCountInString(message) > MaxGuestbookMessage {
		return nil, fmt.Errorf("message is too long (%d characters max)", MaxGuestbookMessage)
	}

	reqBody := map[string]string{"author": author, "message": message}
	respBody, err := c.doJSON(ctx, "POST", "/rest/v1/guestbook", reqBody,
		map[string]string{"Prefer": "return=representation"})
	if err != nil {
		return nil, err
	}

	var entries []models.GuestbookEntry
	if err := json.Unmarshal(respBody, &entries); err != nil || len(entries) == 0 {
		return nil, fmt.Errorf("failed to unmarshal created guestbook entry")
	}
	return &entries[0], nil
}
