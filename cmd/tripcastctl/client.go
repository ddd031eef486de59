package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tripcast-io/tripcast/internal/overlay/control"
	"github.com/tripcast-io/tripcast/internal/overlay/httpapi"
)

// invokeResult mirrors the command endpoint's response document.
type invokeResult struct {
	httpapi.OverlayState
	Error string `json:"error,omitempty"`
}

// apiClient is a thin JSON client for the overlay HTTP API.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{
		base: strings.TrimRight(serverAddr, "/"),
		http: &http.Client{},
	}
}

func (c *apiClient) overlay(ctx context.Context) (httpapi.OverlayState, error) {
	var state httpapi.OverlayState
	err := c.getJSON(ctx, "/api/v1/overlay", &state)
	return state, err
}

func (c *apiClient) commands(ctx context.Context) ([]control.Command, error) {
	var cmds []control.Command
	err := c.getJSON(ctx, "/api/v1/commands", &cmds)
	return cmds, err
}

func (c *apiClient) invoke(ctx context.Context, name string, confirm bool) (invokeResult, error) {
	var res invokeResult

	u := c.base + "/api/v1/commands/" + url.PathEscape(name)
	if confirm {
		u += "?confirm=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return res, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusAccepted {
		if res.Error != "" {
			return res, fmt.Errorf("server returned %s: %s", resp.Status, res.Error)
		}
		return res, fmt.Errorf("server returned %s", resp.Status)
	}

	return res, nil
}

func (c *apiClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
