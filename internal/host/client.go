// Package host implements the HTTP adapter to the DAW host extension, the
// impure shell around the spec's Chain Mapper. It is a Go translation of
// original_source/tauri-app/src-tauri/src/reaper_client.rs: the same
// endpoints (/tracks, /fx/params, /fx/add, /fx/toggle, /fx/param), but
// net/http + context.Context instead of reqwest/tokio.
package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/toneforge/toneforge-api/internal/tone"
)

const defaultTimeout = 10 * time.Second

// Client talks to the REAPER-side extension that exposes track/FX state
// over HTTP on localhost.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a host adapter client against baseURL (e.g.
// "http://127.0.0.1:8888").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// trackFX mirrors reaper_client.rs's TrackFXInfo.
type trackFX struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// trackInfo mirrors reaper_client.rs's TrackInfo.
type trackInfo struct {
	Index   int       `json:"index"`
	Name    string    `json:"name"`
	FXCount int       `json:"fx_count"`
	FXList  []trackFX `json:"fx_list"`
}

type trackListResponse struct {
	TrackCount int         `json:"track_count"`
	Tracks     []trackInfo `json:"tracks"`
}

// fxParamEntry mirrors reaper_client.rs's FXParamEntry.
type fxParamEntry struct {
	Index      int     `json:"index"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Display    string  `json:"display"`
	Unit       string  `json:"unit"`
	FormatHint string  `json:"format_hint"`
}

type fxParamSnapshot struct {
	Track  int            `json:"track"`
	FX     int            `json:"fx"`
	Params []fxParamEntry `json:"params"`
}

// Ping checks whether the host extension is reachable.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/ping", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400, nil
}

// Snapshot builds a tone.HostSnapshot for the given track by listing its
// tracks and fetching parameters for every loaded plugin.
func (c *Client) Snapshot(ctx context.Context, track int) (tone.HostSnapshot, error) {
	tracks, err := c.listTracks(ctx)
	if err != nil {
		return tone.HostSnapshot{}, err
	}

	var target *trackInfo
	for i := range tracks.Tracks {
		if tracks.Tracks[i].Index == track {
			target = &tracks.Tracks[i]
			break
		}
	}
	if target == nil {
		return tone.HostSnapshot{}, fmt.Errorf("host: track %d not found", track)
	}

	plugins := make([]tone.PluginSlot, 0, len(target.FXList))
	for _, fx := range target.FXList {
		params, err := c.getFXParams(ctx, track, fx.Index)
		if err != nil {
			return tone.HostSnapshot{}, fmt.Errorf("host: get params for track %d fx %d: %w", track, fx.Index, err)
		}
		slots := make([]tone.ParamSlot, 0, len(params.Params))
		for _, p := range params.Params {
			slots = append(slots, tone.ParamSlot{
				Index:        p.Index,
				Name:         p.Name,
				CurrentValue: p.Value,
				DisplayValue: p.Display,
				Unit:         p.Unit,
				FormatHint:   p.FormatHint,
			})
		}
		plugins = append(plugins, tone.PluginSlot{
			Index:      fx.Index,
			Name:       fx.Name,
			Enabled:    fx.Enabled,
			Parameters: slots,
		})
	}

	return tone.HostSnapshot{Track: track, Plugins: plugins}, nil
}

func (c *Client) listTracks(ctx context.Context) (*trackListResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/tracks", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("host: get tracks failed: %d", resp.StatusCode)
	}
	var out trackListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("host: decode tracks: %w", err)
	}
	return &out, nil
}

func (c *Client) getFXParams(ctx context.Context, track, fx int) (*fxParamSnapshot, error) {
	q := url.Values{"track": {strconv.Itoa(track)}, "fx": {strconv.Itoa(fx)}}
	resp, err := c.doRequest(ctx, http.MethodGet, "/fx/params?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("host: get fx params failed: %d", resp.StatusCode)
	}
	var out fxParamSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("host: decode fx params: %w", err)
	}
	return &out, nil
}

// SetParameter sets a plugin parameter to value (already in the 0-1 /
// host-native scale produced by the mapper).
func (c *Client) SetParameter(ctx context.Context, track, fx int, paramName string, value float64) error {
	body, err := json.Marshal(map[string]any{
		"track": track, "fx": fx, "param": paramName, "value": value,
	})
	if err != nil {
		return err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/fx/param", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("host: set parameter failed: %d", resp.StatusCode)
	}
	return nil
}

// GetParameter reads back a plugin parameter's current value, used by
// VerifyParameter for the spec's post-apply tolerance check.
func (c *Client) GetParameter(ctx context.Context, track, fx int, paramName string) (float64, error) {
	q := url.Values{"track": {strconv.Itoa(track)}, "fx": {strconv.Itoa(fx)}, "param": {paramName}}
	resp, err := c.doRequest(ctx, http.MethodGet, "/fx/param?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("host: get parameter failed: %d", resp.StatusCode)
	}
	var out struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("host: decode parameter: %w", err)
	}
	return out.Value, nil
}

// verifyTolerance matches spec.md §7's post-apply read-back check.
const verifyTolerance = 0.02

// VerifyParameter reads back the parameter just set and reports whether it
// landed within spec.md §7's ±0.02 tolerance of the intended value.
func (c *Client) VerifyParameter(ctx context.Context, track, fx int, paramName string, expected float64) (bool, float64, error) {
	actual, err := c.GetParameter(ctx, track, fx, paramName)
	if err != nil {
		return false, 0, err
	}
	diff := actual - expected
	if diff < 0 {
		diff = -diff
	}
	return diff <= verifyTolerance, actual, nil
}

// AddPlugin loads a plugin onto track, returning its FX index.
func (c *Client) AddPlugin(ctx context.Context, track int, pluginName string) (int, error) {
	body, err := json.Marshal(map[string]any{"track": track, "plugin": pluginName})
	if err != nil {
		return 0, err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/fx/add", body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("host: add plugin failed: %d", resp.StatusCode)
	}
	var out struct {
		FXIndex int `json:"fx_index"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("host: decode add plugin: %w", err)
	}
	return out.FXIndex, nil
}

// SetPluginEnabled toggles a plugin's bypass state, returning the state the
// host actually applied.
func (c *Client) SetPluginEnabled(ctx context.Context, track, fx int, enabled bool) (bool, error) {
	body, err := json.Marshal(map[string]any{"track": track, "fx": fx, "enabled": enabled})
	if err != nil {
		return false, err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/fx/toggle", body)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("host: toggle fx failed: %d", resp.StatusCode)
	}
	var out struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("host: decode toggle fx: %w", err)
	}
	return out.Enabled, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("host: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("host: request to %s failed: %w", path, err)
	}
	return resp, nil
}
