// Copyright 2025 MakeMCP Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package airflowclient owns the single authenticated HTTP client shared
// by every tool call against one Airflow instance.
package airflowclient

import (
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is the one shared, bearer-authenticated handle every dispatched
// tool call borrows. It is safe for concurrent use - it owns no per-call
// state beyond the stdlib http.Client's own connection pool.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New builds a Client bound to baseURL, stripped of any trailing slash so
// path templates can be appended directly.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

// Do executes req after attaching the bearer token and a default Accept
// header, following redirects per the stdlib client's default policy.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return c.HTTP.Do(req)
}

// Close releases any idle connections held by the underlying transport.
func (c *Client) Close() {
	c.HTTP.CloseIdleConnections()
}
