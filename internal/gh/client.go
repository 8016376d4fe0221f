package gh

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API surface used by vendorpull: release/tag
// resolution and workflow keepalive.
type Client struct {
	gh *github.Client
}

// NewClient creates a GitHub API client. An empty token yields an
// unauthenticated client, which is sufficient for public repositories.
func NewClient(ctx context.Context, token string) *Client {
	httpClient := &http.Client{}

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	}

	return &Client{gh: github.NewClient(httpClient)}
}

// SetBaseURL points the client at an alternate API endpoint. Used by tests.
func (c *Client) SetBaseURL(rawurl string) error {
	if !strings.HasSuffix(rawurl, "/") {
		rawurl += "/"
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return err
	}
	c.gh.BaseURL = u
	return nil
}
