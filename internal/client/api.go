// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client implements the gallery's data pipeline against the
// remote API: a typed HTTP client, the filter and pagination controllers,
// the list orchestrator, and the image upload sequencer. One instance of
// each controller exists per surface; nothing here touches globals.
package client

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
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"sitefolio/internal/config"
	"sitefolio/internal/models"
)

// Surface selects which listing endpoint and search gate apply.
type Surface int

const (
	SurfacePublic Surface = iota
	SurfaceAdmin
)

// MinQuery returns the minimum committed search length for the surface.
func (s Surface) MinQuery() int {
	if s == SurfaceAdmin {
		return PublicMinQuery + 1
	}
	return PublicMinQuery
}

// PublicMinQuery is the shortest search the public surface accepts. The
// admin surface requires one more character.
const PublicMinQuery = 2

// ErrorKind classifies a failed API call for user-facing handling.
type ErrorKind int

const (
	// KindConfig — no backend URL configured; the surface degrades to a
	// read-only/disabled state instead of crashing.
	KindConfig ErrorKind = iota
	// KindNetwork — transport failure or timeout; previous data stays on
	// screen and the user is told to check their connection.
	KindNetwork
	// KindAuth — the backend answered 401; the session is already cleared
	// when the caller sees this error.
	KindAuth
	// KindBusiness — the backend answered with success=false; Message
	// carries the server's text verbatim.
	KindBusiness
)

// Error is a normalized API failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api: %s: %v", e.Message, e.Err)
	}
	return "api: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the error kind, defaulting to KindNetwork for errors
// that did not come out of this client.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

// Client is the typed remote data client. The bearer session is
// process-wide: every secured request reads it, and a 401 response or an
// explicit logout clears it synchronously.
type Client struct {
	base string
	http *http.Client

	mu      sync.Mutex
	session models.Session

	// onAuthExpired fires after the session is cleared by a 401 or an
	// expiry check, so the surface can drop back to public mode.
	onAuthExpired func()
}

// New creates an API client for the given backend base URL. An empty base
// URL is allowed; every call then fails with a configuration error.
func New(baseURL string, onAuthExpired func()) *Client {
	return &Client{
		base:          trimSlash(baseURL),
		http:          &http.Client{Timeout: 15 * time.Second},
		onAuthExpired: onAuthExpired,
	}
}

// NewFromConfig builds a client for the configured backend. A config
// without a backend URL yields a client whose every call fails with a
// configuration error, leaving the surface degraded rather than crashed.
func NewFromConfig(cfg *config.Config, onAuthExpired func()) *Client {
	return New(cfg.BackendURL, onAuthExpired)
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// Authenticated reports whether a live session is held.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Token != "" && !c.session.Expired()
}

// ExpireIfNeeded clears a session whose expiry instant has passed,
// invoking the auth-expired hook. Surfaces call this on regaining
// visibility. Reports whether the session was dropped.
func (c *Client) ExpireIfNeeded() bool {
	c.mu.Lock()
	expired := c.session.Token != "" && c.session.Expired()
	if expired {
		c.session = models.Session{}
	}
	c.mu.Unlock()

	if expired && c.onAuthExpired != nil {
		c.onAuthExpired()
	}
	return expired
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Token
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.session = models.Session{}
	c.mu.Unlock()
}

// do performs one API round trip: builds the request, attaches the bearer
// token when held, and normalizes the outcome into the error taxonomy.
// The envelope's data payload is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if c.base == "" {
		return &Error{Kind: KindConfig, Message: "no backend configured"}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "invalid request", Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	tok := c.token()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "could not reach the server", Err: err}
	}
	defer resp.Body.Close()

	// A 401 means session expiry only when we actually presented a token.
	// Unauthenticated calls that fail, a login with bad credentials for
	// one, carry their own message in the envelope and decode below.
	if resp.StatusCode == http.StatusUnauthorized && tok != "" {
		c.clearSession()
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return &Error{Kind: KindAuth, Message: "session expired", Status: resp.StatusCode}
	}

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Kind: KindNetwork, Message: "malformed server response", Status: resp.StatusCode, Err: err}
	}

	if !env.Success {
		return &Error{Kind: KindBusiness, Message: env.Message, Status: resp.StatusCode}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindNetwork, Message: "malformed server response", Status: resp.StatusCode, Err: err}
		}
	}
	return nil
}

// postJSON marshals body and posts it.
func (c *Client) postJSON(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "encode request", Err: err}
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), "application/json", out)
}

// Params is the normalized filter/page parameter set composed for a list
// request.
type Params struct {
	Page      int
	Search    string
	StartDate string
	EndDate   string
	Category  string
}

// Equal reports whether two parameter sets would produce the same page.
func (p Params) Equal(o Params) bool { return p == o }

// query encodes the parameters, omitting empty values and pinning the
// fixed page size.
func (p Params) query() string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("size", strconv.Itoa(models.PageSize))
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.StartDate != "" {
		v.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		v.Set("endDate", p.EndDate)
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	return v.Encode()
}

// ListEntries fetches one page of entries for the surface.
func (c *Client) ListEntries(ctx context.Context, surface Surface, p Params) (*models.EntryPage, error) {
	path := "/api/entries"
	if surface == SurfaceAdmin {
		path = "/api/admin/entries/"
	}

	var page models.EntryPage
	if err := c.do(ctx, http.MethodGet, path+"?"+p.query(), nil, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListCategories fetches all categories with their entry counts.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, "", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// LoginResult is the payload returned by a successful login.
type LoginResult struct {
	Token       string `json:"token"`
	ExpiresAt   int64  `json:"expiresAt"`
	DisplayName string `json:"displayName"`
}

// Login authenticates and stores the issued session for subsequent
// secured calls.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.postJSON(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"username": username, "password": password}, &result)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.session = models.Session{
		Token:     result.Token,
		ExpiresAt: time.Unix(result.ExpiresAt, 0),
	}
	c.mu.Unlock()
	return &result, nil
}

// VerifySession asks the backend whether the held token is still live. A
// 401 answer clears the session through the usual path.
func (c *Client) VerifySession(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/verify", nil, "", nil)
}

// Logout revokes the session server-side and clears it locally. Local
// state is cleared even when the revoke call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, "", nil)
	c.clearSession()
	return err
}

// EntryFields carries the text fields of an entry form submit. URL must
// already be normalized by the form validation.
type EntryFields struct {
	Name        string
	Category    string
	URL         string
	Description string
}

// entryMultipart builds the multipart body for entry create/update. The
// upload reader reports fractional progress as the body is consumed.
func entryMultipart(fields EntryFields, image *SelectedImage) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	parts := map[string]string{
		"name":        fields.Name,
		"category":    fields.Category,
		"url":         fields.URL,
		"description": fields.Description,
	}
	for k, v := range parts {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if image != nil {
		fw, err := mw.CreateFormFile("image", image.Name)
		if err != nil {
			return nil, "", fmt.Errorf("attach image: %w", err)
		}
		if _, err := fw.Write(image.Data); err != nil {
			return nil, "", fmt.Errorf("attach image: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("finish form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// progressReader reports monotonically non-decreasing upload fractions as
// the request body drains, never emitting a value lower than one already
// reported.
type progressReader struct {
	r       io.Reader
	total   int64
	read    int64
	lastPct float64
	fn      func(float64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.read += int64(n)
	if pr.fn != nil && pr.total > 0 {
		pct := float64(pr.read) / float64(pr.total)
		if pct > 1 {
			pct = 1
		}
		if pct > pr.lastPct {
			pr.lastPct = pct
			pr.fn(pct)
		}
	}
	return n, err
}

// uploadEntry sends an entry multipart request and finishes the progress
// sequence at 1.0 on success.
func (c *Client) uploadEntry(ctx context.Context, method, path string, fields EntryFields, image *SelectedImage, onProgress func(float64)) (*models.Entry, error) {
	buf, contentType, err := entryMultipart(fields, image)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "build form", Err: err}
	}

	var body io.Reader = buf
	pr := &progressReader{r: buf, total: int64(buf.Len()), fn: onProgress}
	if onProgress != nil {
		body = pr
	}

	var entry models.Entry
	if err := c.do(ctx, method, path, body, contentType, &entry); err != nil {
		return nil, err
	}
	if onProgress != nil && pr.lastPct < 1 {
		onProgress(1)
	}
	return &entry, nil
}

// CreateEntry submits a new entry; a nil image creates it without one.
func (c *Client) CreateEntry(ctx context.Context, fields EntryFields, image *SelectedImage, onProgress func(float64)) (*models.Entry, error) {
	return c.uploadEntry(ctx, http.MethodPost, "/api/admin/entries/", fields, image, onProgress)
}

// UpdateEntry rewrites the entry at partition/serial; a nil image keeps
// the stored one.
func (c *Client) UpdateEntry(ctx context.Context, partitionID uuid.UUID, serial int, fields EntryFields, image *SelectedImage, onProgress func(float64)) (*models.Entry, error) {
	path := fmt.Sprintf("/api/admin/entries/%s/%d", partitionID, serial)
	return c.uploadEntry(ctx, http.MethodPut, path, fields, image, onProgress)
}

// DeleteEntry removes the entry at partition/serial.
func (c *Client) DeleteEntry(ctx context.Context, partitionID uuid.UUID, serial int) error {
	path := fmt.Sprintf("/api/admin/entries/%s/%d", partitionID, serial)
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// CreateCategory provisions a new category partition.
func (c *Client) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var cat models.Category
	err := c.postJSON(ctx, http.MethodPost, "/api/admin/categories/",
		map[string]string{"name": name}, &cat)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// RenameCategory changes a category's display name in place.
func (c *Client) RenameCategory(ctx context.Context, name, newName string) error {
	return c.postJSON(ctx, http.MethodPut, "/api/admin/categories/",
		map[string]string{"name": name, "newName": newName}, nil)
}

// DeleteCategory removes a category and everything in it.
func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/categories/"+id.String(), nil, "", nil)
}
