// Package api is the REST client for the GyaanSeek backend. Requests
// carry the bearer credential and a same-origin cookie jar; responses
// are decoded with schema checks so malformed payloads surface as
// ErrParse instead of silently defaulting.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL  = "http://localhost:4002/api/v1"
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 50

	defaultUserAgent = "GyaanSeek-CLI/1.0"
)

// TokenSource supplies the current bearer credential, or "" when absent.
type TokenSource func() string

// Client handles GyaanSeek API interactions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	Token      TokenSource
}

// NewClient creates a new API client. token may be nil for
// unauthenticated use.
func NewClient(baseURL string, token TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		UserAgent: defaultUserAgent,
		Token:     token,
	}
}

// SetTimeout configures the HTTP client timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// ListChats requests one page of chat summaries, newest first.
func (c *Client) ListChats(ctx context.Context, page, limit int) ([]ChatSummary, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("page", strconv.Itoa(page))
	query.Set("sort", "createdAt:desc")

	var resp listChatsResponse
	if err := c.do(ctx, http.MethodGet, "/chats?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: list response not marked successful", ErrParse)
	}
	for _, chat := range resp.Chats {
		if chat.ID == "" {
			return nil, fmt.Errorf("%w: chat summary without id", ErrParse)
		}
	}
	return resp.Chats, nil
}

// GetChat fetches the full transcript of one chat, role-mapped onto the
// client's two roles.
func (c *Client) GetChat(ctx context.Context, chatID string) ([]ChatMessage, error) {
	var resp getChatResponse
	if err := c.do(ctx, http.MethodGet, "/chats/"+url.PathEscape(chatID), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: chat response not marked successful", ErrParse)
	}
	messages := make([]ChatMessage, 0, len(resp.Chat.Messages))
	for _, m := range resp.Chat.Messages {
		messages = append(messages, ChatMessage{
			Role:    NormalizeRole(m.Role),
			Content: m.Content,
		})
	}
	return messages, nil
}

// DeleteChat removes a chat on the server.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/chats/"+url.PathEscape(chatID), nil, nil)
}

// RenameChat sets a chat's title on the server.
func (c *Client) RenameChat(ctx context.Context, chatID, title string) error {
	body := map[string]string{"title": title}
	return c.do(ctx, http.MethodPatch, "/chats/"+url.PathEscape(chatID)+"/title", body, nil)
}

// Prompt submits user content. chatID is "" for a not-yet-persisted
// conversation; the response always names the owning chat.
func (c *Client) Prompt(ctx context.Context, content, chatID string) (*PromptResult, error) {
	body := map[string]any{"content": content}
	if chatID != "" {
		body["chatId"] = chatID
	} else {
		body["chatId"] = nil
	}

	var resp PromptResult
	if err := c.do(ctx, http.MethodPost, "/prompt", body, &resp); err != nil {
		return nil, err
	}
	if resp.ChatID == "" {
		return nil, fmt.Errorf("%w: prompt response without chatId", ErrParse)
	}
	return &resp, nil
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResult
	if err := c.do(ctx, http.MethodPost, "/user/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User.ID == "" {
		return nil, fmt.Errorf("%w: login response missing token or user", ErrParse)
	}
	return &resp, nil
}

// Signup registers a new account. Returns the server's message.
func (c *Client) Signup(ctx context.Context, firstName, lastName, email, password string) (string, error) {
	body := map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"password":  password,
	}
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/user/signup", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Logout invalidates the server-side session cookie.
func (c *Client) Logout(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodGet, "/user/logout", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// do performs one request/response cycle: marshal, send with
// credentials, classify status, decode.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != nil {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	slog.Debug("api_request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		slog.Error("api_transport_error", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("api_response",
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"size", len(data))

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrAuthRequired, serverMessage(data))
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Error("api_decode_error", "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

func serverMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.text()
}
