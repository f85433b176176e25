package caldav

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
)

const userAgent = "eventmgr/1.0"

// Config locates the calendar collection events are published to. When Collection
// is empty the collection is discovered by CalendarName through the principal's
// calendar home set.
type Config struct {
	Endpoint     string
	Username     string
	Password     string
	CalendarName string
	Collection   string
	Timeout      time.Duration
}

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Username != "" {
		req.SetBasicAuth(t.Username, t.Password)
	}
	req.Header.Set("User-Agent", userAgent)
	return t.Transport.RoundTrip(req)
}

// Client writes calendar object resources into one collection.
type Client struct {
	caldavClient *caldav.Client
	webdavClient *webdav.Client
	httpClient   *http.Client
	endpoint     *url.URL
	logger       *slog.Logger
	collection   string
}

// NewClient connects to cfg.Endpoint and resolves the target collection.
func NewClient(ctx context.Context, logger *slog.Logger, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("caldav endpoint is not configured")
	}

	transport := &customTransport{
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport, Timeout: cfg.Timeout}

	caldavClient, err := caldav.NewClient(httpClient, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	webdavClient, err := webdav.NewClient(httpClient, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid caldav endpoint: %w", err)
	}

	c := &Client{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		httpClient:   httpClient,
		endpoint:     endpoint,
		logger:       logger,
	}

	if cfg.Collection != "" {
		c.collection = collectionPath(cfg.Endpoint, cfg.Collection)
		return c, nil
	}

	if cfg.CalendarName == "" {
		return nil, errors.New("either a caldav collection or a calendar name is required")
	}

	logger.Info("Finding CalDAV calendar", "calendarName", cfg.CalendarName)
	collection, err := c.findCalendar(ctx, cfg.CalendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", cfg.CalendarName, err)
	}
	c.collection = collection
	logger.Info("Successfully found CalDAV calendar", "path", collection)

	return c, nil
}

// collectionPath turns a configured collection (absolute URL or path) into a path
// ending in "/".
func collectionPath(endpoint, collection string) string {
	if u, err := url.Parse(collection); err == nil && u.IsAbs() {
		collection = u.Path
	} else if !strings.HasPrefix(collection, "/") {
		if e, err := url.Parse(endpoint); err == nil {
			collection = path.Join(e.Path, collection)
		}
	}
	if !strings.HasSuffix(collection, "/") {
		collection += "/"
	}
	return collection
}

func (c *Client) Collection() string {
	return c.collection
}

// Put creates or replaces the resource name inside the collection.
func (c *Client) Put(ctx context.Context, name string, data []byte) error {
	resource := path.Join(c.collection, name)
	c.logger.Debug("Uploading calendar object", "path", resource, "bytes", len(data))

	writer, err := c.webdavClient.Create(ctx, resource)
	if err != nil {
		return fmt.Errorf("failed to create %s on CalDAV server: %w", resource, err)
	}

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to upload %s: %w", resource, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to upload %s: %w", resource, err)
	}
	return nil
}

// Remove deletes the resource name from the collection. A resource that is already
// gone from the server counts as removed.
func (c *Client) Remove(ctx context.Context, name string) error {
	resource := path.Join(c.collection, name)
	c.logger.Debug("Removing calendar object", "path", resource)

	if err := c.webdavClient.RemoveAll(ctx, resource); err != nil {
		if gone, headErr := c.absent(ctx, resource); headErr == nil && gone {
			c.logger.Debug("Calendar object already removed", "path", resource)
			return nil
		}
		return fmt.Errorf("failed to remove %s: %w", resource, err)
	}
	return nil
}

// absent reports whether the server answers 404 or 410 for resource.
func (c *Client) absent(ctx context.Context, resource string) (bool, error) {
	target := c.endpoint.ResolveReference(&url.URL{Path: resource})

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone, nil
}

// findCalendar discovers the user's calendars and returns the path of the one with the matching name.
func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return collectionPath("", cal.Path), nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
