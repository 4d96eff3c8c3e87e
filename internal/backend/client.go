// Package backend is the HTTP client for the external HistoriSense API. All
// authenticated calls go through a single wrapper that attaches the stored
// bearer credential and uniformly handles authorization rejection.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/historisense/portal/internal/auth"
	"github.com/historisense/portal/internal/credstore"
	"github.com/historisense/portal/internal/domain"
	"github.com/historisense/portal/internal/events"
	"github.com/historisense/portal/internal/observability"
	apperrors "github.com/historisense/portal/pkg/util"
)

// SessionInvalidator is the slice of the session guard the client needs: the
// guard stays the only component that forces the anonymous state.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, sessionID string, eventType events.EventType, reason string)
}

// Config controls the backend client transport.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Dependencies bundles the client's collaborators.
type Dependencies struct {
	Store     credstore.Store
	Validator *auth.Validator
	Sessions  SessionInvalidator
	Logger    *zap.Logger
	Metrics   *observability.Metrics
}

// Client talks to the HistoriSense backend.
type Client struct {
	baseURL   string
	http      *http.Client
	store     credstore.Store
	validator *auth.Validator
	sessions  SessionInvalidator
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewClient builds the backend client.
func NewClient(cfg Config, deps Dependencies) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend base url is required")
	}

	hc := cfg.Client
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:   baseURL,
		http:      hc,
		store:     deps.Store,
		validator: deps.Validator,
		sessions:  deps.Sessions,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
	}, nil
}

// Login authenticates against the backend. Unauthenticated call; a rejected
// login is a business error, not a session event.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResult{}, apperrors.NewInternalError(err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/login", "application/json", bytes.NewReader(payload), "")
	if err != nil {
		return LoginResult{}, err
	}
	defer closeBody(resp, c.logger)
	c.metrics.RecordBackendCall("login", resp.StatusCode)

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return LoginResult{}, apperrors.NewBackendError(resp.StatusCode, "malformed login response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "login failed"
		}
		return LoginResult{}, apperrors.NewBackendError(http.StatusUnauthorized, msg)
	}
	if result.AccessToken == "" {
		return LoginResult{}, apperrors.NewBackendError(http.StatusUnauthorized, "no token received")
	}
	return result, nil
}

// Signup registers a new account. Unauthenticated call.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/signup", "application/json", bytes.NewReader(payload), "")
	if err != nil {
		return err
	}
	defer closeBody(resp, c.logger)
	c.metrics.RecordBackendCall("signup", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body signupResponse
	msg := "signup failed"
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		msg = body.Message
	}
	return apperrors.NewBackendError(resp.StatusCode, msg)
}

// AnalyzeTestimony uploads one or more files for analysis, authenticated.
func (c *Client) AnalyzeTestimony(ctx context.Context, sessionID string, files []UploadFile) (*domain.Analysis, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("no files to analyze", nil)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if f.Title != "" {
			if err := writer.WriteField("title_"+f.Name, f.Title); err != nil {
				return nil, apperrors.NewInternalError(err)
			}
		}
		if f.Description != "" {
			if err := writer.WriteField("description_"+f.Name, f.Description); err != nil {
				return nil, apperrors.NewInternalError(err)
			}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	resp, err := c.authenticatedSend(ctx, sessionID, http.MethodPost, "/api/analyze-testimony", writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, c.logger)
	c.metrics.RecordBackendCall("analyze_testimony", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.rejectionError(resp)
	}
	var body analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.NewBackendError(resp.StatusCode, "malformed analysis response")
	}
	if body.Analysis == nil {
		msg := body.Message
		if msg == "" {
			msg = "backend returned no analysis"
		}
		return nil, apperrors.NewBackendError(resp.StatusCode, msg)
	}
	return body.Analysis, nil
}

// ListTestimonies fetches the museum's uploaded testimonies, authenticated.
func (c *Client) ListTestimonies(ctx context.Context, sessionID string) ([]domain.TestimonySummary, error) {
	resp, err := c.authenticatedSend(ctx, sessionID, http.MethodGet, "/api/museum-testimonies", "", nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, c.logger)
	c.metrics.RecordBackendCall("list_testimonies", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.rejectionError(resp)
	}
	var body testimoniesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.NewBackendError(resp.StatusCode, "malformed testimonies response")
	}
	return body.Testimonies, nil
}

// GetTestimony fetches one full testimony record, authenticated.
func (c *Client) GetTestimony(ctx context.Context, sessionID, filename string) (domain.Testimony, error) {
	resp, err := c.authenticatedSend(ctx, sessionID, http.MethodGet, "/api/museum-testimony/"+url.PathEscape(filename), "", nil)
	if err != nil {
		return domain.Testimony{}, err
	}
	defer closeBody(resp, c.logger)
	c.metrics.RecordBackendCall("get_testimony", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Testimony{}, c.rejectionError(resp)
	}
	var body testimonyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Testimony{}, apperrors.NewBackendError(resp.StatusCode, "malformed testimony response")
	}
	return body.Testimony, nil
}

// DeleteTestimony removes one testimony record, authenticated.
func (c *Client) DeleteTestimony(ctx context.Context, sessionID, filename string) error {
	resp, err := c.authenticatedSend(ctx, sessionID, http.MethodDelete, "/api/museum-testimony/"+url.PathEscape(filename), "", nil)
	if err != nil {
		return err
	}
	defer closeBody(resp, c.logger)
	c.metrics.RecordBackendCall("delete_testimony", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.rejectionError(resp)
	}
	return nil
}

// authenticatedSend is the authenticated request wrapper. Before sending it
// re-checks the stored credential so a hopeless call never leaves the portal;
// after sending it treats a 401 as the server-authoritative verdict even when
// the pre-check passed moments earlier.
func (c *Client) authenticatedSend(ctx context.Context, sessionID, method, path, contentType string, body io.Reader) (*http.Response, error) {
	cred, err := c.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, credstore.ErrNoCredential) {
			c.sessions.Invalidate(ctx, sessionID, events.EventSessionExpired, "credential missing")
			return nil, apperrors.NewUnauthenticated("not authenticated")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if c.validator.IsExpired(cred.Token) {
		c.sessions.Invalidate(ctx, sessionID, events.EventSessionExpired, "token expired before request")
		return nil, apperrors.NewUnauthenticated("session expired")
	}

	resp, err := c.send(ctx, method, path, contentType, body, cred.Token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		closeBody(resp, c.logger)
		c.sessions.Invalidate(ctx, sessionID, events.EventCredentialRejected, "backend rejected credential")
		return nil, apperrors.NewUnauthenticated("session rejected by backend")
	}
	return resp, nil
}

// send issues one request; a transport-level failure maps to NetworkError.
func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader, bearer string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError(err)
	}
	return resp, nil
}

// rejectionError maps a non-401 rejection to a BackendError, leaving the
// session untouched.
func (c *Client) rejectionError(resp *http.Response) error {
	var body errorResponse
	msg := ""
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		msg = body.text()
	}
	return apperrors.NewBackendError(resp.StatusCode, msg)
}

func closeBody(resp *http.Response, logger *zap.Logger) {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil && logger != nil {
		logger.Debug("drain response body", zap.Error(err))
	}
	if err := resp.Body.Close(); err != nil && logger != nil {
		logger.Debug(fmt.Sprintf("close response body: %v", err))
	}
}
