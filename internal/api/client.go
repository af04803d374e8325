package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/pkg/models"
)

const maxErrorBody = 512

// Client talks JSON to the blog backend. It never retries; failures are
// returned to the caller as *StatusError or transport errors.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the backend at baseURL
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for an authenticated identity carrying the session token
func (c *Client) Login(ctx context.Context, credentials models.UsuarioLogin) (models.UsuarioLogin, error) {
	var out models.UsuarioLogin
	if err := c.do(ctx, http.MethodPost, "/usuarios/logar", "", credentials, &out); err != nil {
		return models.UsuarioLogin{}, err
	}
	return out, nil
}

// Register creates a new user account
func (c *Client) Register(ctx context.Context, usuario models.Usuario) (models.Usuario, error) {
	var out models.Usuario
	if err := c.do(ctx, http.MethodPost, "/usuarios/cadastrar", "", usuario, &out); err != nil {
		return models.Usuario{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(data))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody] + "..."
		}
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: text}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}
