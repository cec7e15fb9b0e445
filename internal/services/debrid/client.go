package debrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"organizer/internal/services"
)

// Torrent is a Real-Debrid torrent record.
type Torrent struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	Hash     string   `json:"hash"`
	Bytes    int64    `json:"bytes"`
	Status   string   `json:"status"`
	Progress float64  `json:"progress"`
	Links    []string `json:"links"`
	Added    string   `json:"added"`
}

// Download is an unrestricted-link record from the downloads listing.
type Download struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	Filesize  int64  `json:"filesize"`
	Link      string `json:"link"`
	Host      string `json:"host"`
	Download  string `json:"download"`
	TorrentID string `json:"torrent_id"`
	Generated string `json:"generated"`
}

// UnrestrictedLink is the response to an unrestrict request.
type UnrestrictedLink struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Filesize int64  `json:"filesize"`
	Link     string `json:"link"`
	Download string `json:"download"`
}

// TorrentInfo is the detailed torrent payload, including per-file data.
type TorrentInfo struct {
	ID       string        `json:"id"`
	Filename string        `json:"filename"`
	Status   string        `json:"status"`
	Progress float64       `json:"progress"`
	Links    []string      `json:"links"`
	Files    []TorrentFile `json:"files"`
}

// TorrentFile is a single file inside a torrent.
type TorrentFile struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Selected int    `json:"selected"`
}

// User is the account info payload, used as a credential check.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Premium  int64  `json:"premium"`
	Type     string `json:"type"`
}

// AddedMagnet is the response to a magnet submission.
type AddedMagnet struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// Service is the remote content-fetch contract the grouping and
// orchestration layers consume.
type Service interface {
	Torrents(ctx context.Context) ([]Torrent, error)
	Downloads(ctx context.Context) ([]Download, error)
	Unrestrict(ctx context.Context, link string) (*UnrestrictedLink, error)
	TorrentInfo(ctx context.Context, id string) (*TorrentInfo, error)
}

// Client talks to the Real-Debrid REST API.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	pollInterval time.Duration
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithPollInterval sets the wait between readiness polls.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// New creates a Real-Debrid client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("real-debrid api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("real-debrid base url required")
	}
	client := &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// User fetches account info; used to validate the credential at startup.
func (c *Client) User(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// torrentsPageLimit is the Real-Debrid maximum page size.
const torrentsPageLimit = 100

// Torrents fetches the complete torrent collection, paging until the
// service returns a short page.
func (c *Client) Torrents(ctx context.Context) ([]Torrent, error) {
	var all []Torrent
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("limit", strconv.Itoa(torrentsPageLimit))

		var batch []Torrent
		if err := c.getJSON(ctx, "/torrents", params, &batch); err != nil {
			if isNoContent(err) {
				break
			}
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < torrentsPageLimit {
			break
		}
	}
	return all, nil
}

// Downloads fetches the complete downloads collection.
func (c *Client) Downloads(ctx context.Context) ([]Download, error) {
	var all []Download
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("limit", strconv.Itoa(torrentsPageLimit))

		var batch []Download
		if err := c.getJSON(ctx, "/downloads", params, &batch); err != nil {
			if isNoContent(err) {
				break
			}
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < torrentsPageLimit {
			break
		}
	}
	return all, nil
}

// Unrestrict converts a hoster link into a direct download link.
func (c *Client) Unrestrict(ctx context.Context, link string) (*UnrestrictedLink, error) {
	form := url.Values{}
	form.Set("link", link)
	var unrestricted UnrestrictedLink
	if err := c.postForm(ctx, "/unrestrict/link", form, &unrestricted); err != nil {
		return nil, err
	}
	return &unrestricted, nil
}

// AddMagnet submits a magnet URI for remote download.
func (c *Client) AddMagnet(ctx context.Context, magnet string) (*AddedMagnet, error) {
	form := url.Values{}
	form.Set("magnet", magnet)
	var added AddedMagnet
	if err := c.postForm(ctx, "/torrents/addMagnet", form, &added); err != nil {
		return nil, err
	}
	return &added, nil
}

// SelectFiles marks torrent files for download. Pass "all" to select
// every file.
func (c *Client) SelectFiles(ctx context.Context, torrentID, files string) error {
	form := url.Values{}
	form.Set("files", files)
	return c.postForm(ctx, "/torrents/selectFiles/"+torrentID, form, nil)
}

// TorrentInfo fetches detailed state for a single torrent.
func (c *Client) TorrentInfo(ctx context.Context, id string) (*TorrentInfo, error) {
	var info TorrentInfo
	if err := c.getJSON(ctx, "/torrents/info/"+id, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// WaitForTorrent polls until the torrent reaches the downloaded state or
// the timeout elapses. Error statuses fail immediately.
func (c *Client) WaitForTorrent(ctx context.Context, id string, timeout time.Duration) (*TorrentInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		info, err := c.TorrentInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		switch info.Status {
		case "downloaded":
			return info, nil
		case "error", "magnet_error", "virus", "dead":
			return nil, services.Wrap(services.ErrValidation, "debrid", "wait torrent",
				fmt.Sprintf("torrent %s failed with status %s", id, info.Status), nil)
		}
		select {
		case <-ctx.Done():
			return nil, services.Wrap(services.ErrTimeout, "debrid", "wait torrent",
				fmt.Sprintf("torrent %s not ready before deadline (last status %s)", id, info.Status), ctx.Err())
		case <-ticker.C:
		}
	}
}

var errNoContent = errors.New("no content")

func isNoContent(err error) bool {
	return errors.Is(err, errNoContent)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return err
		}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrTransient, "debrid", req.URL.Path,
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		if out == nil {
			return nil
		}
		return errNoContent
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, "debrid", req.URL.Path,
			fmt.Sprintf("request rejected with %d", resp.StatusCode), nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return services.Wrap(services.ErrTransient, "debrid", req.URL.Path,
			fmt.Sprintf("request returned %d (latency=%v): %s", resp.StatusCode, latency, strings.TrimSpace(string(body))), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, "debrid", req.URL.Path, "decode response", err)
	}
	return nil
}
