// Copyright (c) 2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package graph is a thin client for the Microsoft Graph channel messages
// API.  It issues one request per call and decodes the response envelope,
// leaving pagination and retries to the caller.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production Graph API endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// defRetryAfter is used when the 429 response carries no Retry-After header.
const defRetryAfter = 60 * time.Second

// maxErrBody limits the amount of the error response body attached to a
// StatusCodeError.
const maxErrBody = 4096

// TokenSource supplies a bearer token for each request.  auth.Provider
// satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the Graph API client.  Zero value is not usable, use New.
type Client struct {
	cl      *http.Client
	ts      TokenSource
	baseURL string
}

// Option is the signature of the Client option-setting function.
type Option func(*Client)

// WithHTTPClient sets the http client to use for requests.
func WithHTTPClient(cl *http.Client) Option {
	return func(c *Client) {
		if cl != nil {
			c.cl = cl
		}
	}
}

// WithBaseURL overrides the API endpoint, i.e. for sovereign clouds or
// tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// New returns a new Client that authorises requests with tokens from ts.
func New(ts TokenSource, opt ...Option) *Client {
	c := &Client{
		cl:      &http.Client{Timeout: 30 * time.Second},
		ts:      ts,
		baseURL: DefaultBaseURL,
	}
	for _, fn := range opt {
		fn(c)
	}
	return c
}

// Messages fetches the first page of top level messages of the channel.
func (c *Client) Messages(ctx context.Context, teamID, channelID string, pageSize int) (*MessagesPage, error) {
	u := fmt.Sprintf("%s/teams/%s/channels/%s/messages?$top=%d",
		c.baseURL, url.PathEscape(teamID), url.PathEscape(channelID), pageSize)
	return c.get(ctx, u)
}

// Replies fetches the first page of replies to the message with messageID.
func (c *Client) Replies(ctx context.Context, teamID, channelID, messageID string, pageSize int) (*MessagesPage, error) {
	u := fmt.Sprintf("%s/teams/%s/channels/%s/messages/%s/replies?$top=%d",
		c.baseURL, url.PathEscape(teamID), url.PathEscape(channelID), url.PathEscape(messageID), pageSize)
	return c.get(ctx, u)
}

// Follow fetches the page pointed at by the continuation link returned in a
// previous page.
func (c *Client) Follow(ctx context.Context, nextLink string) (*MessagesPage, error) {
	return c.get(ctx, nextLink)
}

func (c *Client) get(ctx context.Context, u string) (*MessagesPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	token, err := c.ts.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("token source: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, &RateLimitedError{RetryAfter: retryAfter(resp)}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, &StatusCodeError{Code: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	var page MessagesPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return &page, nil
}

// retryAfter returns the Retry-After duration from the response headers, or
// defRetryAfter if the header is absent or unparseable.
func retryAfter(resp *http.Response) time.Duration {
	sec, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || sec <= 0 {
		return defRetryAfter
	}
	return time.Duration(sec) * time.Second
}
