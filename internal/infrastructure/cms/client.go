package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skateshop/storefront/configs"
	"github.com/skateshop/storefront/internal/core/domain/content"
)

const listPostsQuery = `query Posts($limit: Int!) {
  Posts(limit: $limit, sort: "-publishedAt", where: { _status: { equals: published } }) {
    docs { id slug title excerpt publishedAt coverImage { url } }
  }
}`

const postBySlugQuery = `query PostBySlug($slug: String!) {
  Posts(limit: 1, where: { slug: { equals: $slug }, _status: { equals: published } }) {
    docs { id slug title excerpt body publishedAt coverImage { url } }
  }
}`

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
}

// QueryError is returned when the CMS answers with GraphQL errors.
type QueryError struct {
	Errors []GraphQLError
}

func (e *QueryError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return "cms: " + strings.Join(msgs, "; ")
}

// Client queries the CMS GraphQL endpoint.
type Client struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	http     *http.Client
	logger   *logrus.Logger
}

// NewClient creates a CMS client. httpClient may be nil.
func NewClient(cfg *configs.CMSConfig, httpClient *http.Client, logger *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{endpoint: cfg.GraphQLURL, apiKey: cfg.APIKey, timeout: cfg.Timeout, http: httpClient, logger: logger}
}

type postDoc struct {
	ID          json.RawMessage `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Excerpt     string          `json:"excerpt"`
	Body        json.RawMessage `json:"body"`
	PublishedAt time.Time       `json:"publishedAt"`
	CoverImage  *struct {
		URL string `json:"url"`
	} `json:"coverImage"`
}

type postsData struct {
	Posts struct {
		Docs []postDoc `json:"docs"`
	} `json:"Posts"`
}

func (d postDoc) toPost() content.Post {
	p := content.Post{
		ID:          rawString(d.ID),
		Slug:        d.Slug,
		Title:       d.Title,
		Excerpt:     d.Excerpt,
		Body:        rawString(d.Body),
		PublishedAt: d.PublishedAt,
	}
	if d.CoverImage != nil {
		p.CoverImage = d.CoverImage.URL
	}
	return p
}

// rawString unquotes JSON strings and keeps any other JSON (numbers, rich text) verbatim.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// ListPosts implements ports.ContentClient.
func (c *Client) ListPosts(ctx context.Context, limit int) ([]content.Post, error) {
	var data postsData
	if err := c.query(ctx, listPostsQuery, map[string]any{"limit": limit}, &data); err != nil {
		return nil, err
	}
	posts := make([]content.Post, 0, len(data.Posts.Docs))
	for _, d := range data.Posts.Docs {
		posts = append(posts, d.toPost())
	}
	return posts, nil
}

// GetPostBySlug implements ports.ContentClient.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*content.Post, error) {
	var data postsData
	if err := c.query(ctx, postBySlugQuery, map[string]any{"slug": slug}, &data); err != nil {
		return nil, err
	}
	if len(data.Posts.Docs) == 0 {
		return nil, content.ErrPostNotFound
	}
	p := data.Posts.Docs[0].toPost()
	return &p, nil
}

func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	b, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return fmt.Errorf("cms: encode query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("cms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cms: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("cms: unexpected status %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []GraphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("cms: decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		c.logger.WithField("errors", len(envelope.Errors)).Warn("cms: query returned errors")
		return &QueryError{Errors: envelope.Errors}
	}
	if len(envelope.Data) == 0 {
		return errors.New("cms: response has no data")
	}
	return json.Unmarshal(envelope.Data, out)
}
