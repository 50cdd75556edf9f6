package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/jjalhub/jjal-cli/internal/models"
)

// Session is the identity material returned by the auth endpoint.
type Session struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

// SignUp registers a new account and upserts the profile nickname. The
// profile upsert is best-effort: a duplicate nickname surfaces as an error,
// anything else is reported but does not undo the registration.
func (c *Client) SignUp(ctx context.Context, in models.SignUpInput) (*Session, error) {
	reqBody := map[string]interface{}{
		"email":    in.Email,
		"password": in.Password,
		"data":     map[string]string{"nickname": in.Nickname},
	}

	respBody, err := c.doJSON(ctx, "POST", "/auth/v1/signup", reqBody, nil)
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signup response: %w", err)
	}
	if resp.User.ID == "" {
		return nil, fmt.Errorf("signup failed: %s", firstNonEmpty(resp.ErrorDescription, resp.Message, "unknown error"))
	}

	session := &Session{AccessToken: resp.AccessToken, UserID: resp.User.ID, Email: resp.User.Email}

	// Some projects disable auto-confirm, in which case there is no token
	// yet and the profile row gets created on first sign-in instead.
	if session.AccessToken != "" {
		if err := c.upsertProfile(ctx, session, in.Nickname); err != nil {
			return session, err
		}
	}
	return session, nil
}

func (c *Client) upsertProfile(ctx context.Context, session *Session, nickname string) error {
	prev := c.AccessToken
	c.AccessToken = session.AccessToken
	defer func() { c.AccessToken = prev }()

	reqBody := map[string]string{"id": session.UserID, "nickname": nickname}
	_, err := c.doJSON(ctx, "POST", "/rest/v1/profiles", reqBody,
		map[string]string{"Prefer": "resolution=merge-duplicates"})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == 409 {
			return fmt.Errorf("nickname %q is already taken", nickname)
		}
		return fmt.Errorf("profile setup failed: %w", err)
	}
	return nil
}

// SignIn exchanges credentials for a session token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	reqBody := map[string]string{"email": email, "password": password}

	respBody, err := c.doJSON(ctx, "POST", "/auth/v1/token?grant_type=password", reqBody, nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == 400 {
			return nil, fmt.Errorf("invalid email or password")
		}
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signin response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("signin failed: %s", firstNonEmpty(resp.ErrorDescription, resp.Message, "unknown error"))
	}
	return &Session{AccessToken: resp.AccessToken, UserID: resp.User.ID, Email: resp.User.Email}, nil
}

// FetchRole returns the role row for userID, defaulting to RoleUser when no
// row exists. Role lookup failures never block sign-in.
func (c *Client) FetchRole(ctx context.Context, userID string) (models.Role, error) {
	path := "/rest/v1/user_roles?select=role&user_id=eq." + url.QueryEscape(userID)
	respBody, err := c.doJSON(ctx, "GET", path, nil, nil)
	if err != nil {
		return models.RoleUser, err
	}

	var rows []struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(respBody, &rows); err != nil || len(rows) == 0 || rows[0].Role == "" {
		return models.RoleUser, nil
	}
	switch models.Role(rows[0].Role) {
	case models.RoleAdmin, models.RoleModerator, models.RoleUser:
		return models.Role(rows[0].Role), nil
	}
	return models.RoleUser, nil
}

// FetchNickname resolves the signed-in user's own nickname, "" when absent.
func (c *Client) FetchNickname(ctx context.Context, userID string) (string, error) {
	names, err := c.LookupNicknames(ctx, []string{userID})
	if err != nil {
		return "", err
	}
	return names[userID], nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
