package nrf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/your-org/omnipath/internal/metrics"
	"github.com/your-org/omnipath/internal/sbi/nrferr"
	"github.com/your-org/omnipath/internal/sbi/tokenstore"
)

// Client talks to the NRF's Nnrf_NFManagement and Nnrf_NFDiscovery
// services. Grounded on NRFClient in nf/amf/internal/client/nrf_client.go
// in the teacher, generalized with a single-flight OAuth2 token cache for
// deployments with sbi.oauth_enabled set (spec.md §4.7).
type Client struct {
	baseURL      string
	oauthEnabled bool
	nfInstanceID string
	httpClient   *http.Client
	tokens       *tokenstore.Store[string, string]
	log          *zap.Logger
	config       atomic.Pointer[NfConfig]
}

// New constructs a Client against the NRF at baseURL. nfInstanceID is
// this AMF's own NF instance ID, used both as the register path segment
// and as the OAuth2 client identity, until a 201 Register response
// supersedes it with a server-assigned one.
func New(baseURL string, nfInstanceID string, oauthEnabled bool, log *zap.Logger) *Client {
	return &Client{
		baseURL:      baseURL,
		oauthEnabled: oauthEnabled,
		nfInstanceID: nfInstanceID,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		tokens:       tokenstore.New[string, string](),
		log:          log,
	}
}

// NfConfig returns the most recently published registration state, or nil
// if Register has never succeeded.
func (c *Client) NfConfig() *NfConfig {
	return c.config.Load()
}

// Register performs Nnrf_NFManagement_NFRegister for profile (TS 29.510
// §5.2.2.2.1). header is optional and may be nil. A 200 response keeps
// profile's own NFInstanceID; a 201 response carries the NRF-assigned
// instance ID in its Location header, which is parsed out and becomes the
// ID used by every subsequent Deregister/Heartbeat call. Either way, the
// response's heartBeatTimer and customInfo.oauth2 are published into
// NfConfig (spec.md §4.7).
func (c *Client) Register(ctx context.Context, profile *NFProfile, header *RegisterHeaderParams) (*NFProfile, error) {
	reqURL := fmt.Sprintf("%s/nnrf-nfm/v1/nf-instances/%s", c.baseURL, profile.NFInstanceID)

	body, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("nrf: marshal profile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("nrf: build register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setRequestID(req)
	if err := setHeaders(req, header); err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.doRequest("register", req)
	if err != nil {
		return nil, fmt.Errorf("nrf: register request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var registered NFProfile
		if err := json.NewDecoder(resp.Body).Decode(&registered); err != nil {
			return nil, nrferr.New(nrferr.KindInvalidBody, "register", err)
		}

		instanceID := profile.NFInstanceID
		if resp.StatusCode == http.StatusCreated {
			instanceID, err = locationInstanceID(resp.Header.Get("Location"))
			if err != nil {
				return nil, nrferr.New(nrferr.KindInvalidLocation, "register", err)
			}
		}

		c.publishConfig(instanceID, &registered)
		c.log.Info("registered with nrf",
			zap.String("nf_instance_id", instanceID),
			zap.Int("status", resp.StatusCode),
			zap.Duration("heartbeat_timer", c.config.Load().HeartBeatTimer),
		)
		return &registered, nil
	default:
		return nil, problemDetailsError("register", resp)
	}
}

// publishConfig stores the NfConfig this client hands out after a
// successful Register, replacing both the cached nfInstanceID used by
// Deregister/Heartbeat and OAuth2 token requests, and the published
// snapshot atomically.
func (c *Client) publishConfig(instanceID string, profile *NFProfile) {
	cfg := &NfConfig{
		NFInstanceID:   instanceID,
		HeartBeatTimer: time.Duration(profile.HeartBeatTimer) * time.Second,
	}
	if profile.CustomInfo != nil {
		cfg.OAuth2 = profile.CustomInfo.OAuth2
	}
	c.config.Store(cfg)
}

// doRequest executes req and records its latency and resulting status (0
// if the request never got a response) under the given operation name.
func (c *Client) doRequest(op string, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.RecordSBIRequest(op, status, time.Since(start))
	return resp, err
}

// currentInstanceID returns the NF instance ID Deregister/Heartbeat/token
// requests should address: the NRF-assigned one from the last successful
// Register if any, otherwise the one this client was constructed with.
func (c *Client) currentInstanceID() string {
	if cfg := c.config.Load(); cfg != nil {
		return cfg.NFInstanceID
	}
	return c.nfInstanceID
}

// locationInstanceID extracts the nf instance id from a Register 201
// response's Location header, which TS 29.510 §5.2.2.2.1 defines as
// ".../nf-instances/{nfInstanceID}".
func locationInstanceID(location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("201 response carried no location header")
	}
	segment := location
	if idx := strings.LastIndex(location, "/"); idx >= 0 {
		segment = location[idx+1:]
	}
	if _, err := uuid.Parse(segment); err != nil {
		return "", fmt.Errorf("location %q does not end in a valid nf instance id: %w", location, err)
	}
	return segment, nil
}

// Deregister performs Nnrf_NFManagement_NFDeregister (TS 29.510 §5.2.2.3.1).
func (c *Client) Deregister(ctx context.Context) error {
	instanceID := c.currentInstanceID()
	reqURL := fmt.Sprintf("%s/nnrf-nfm/v1/nf-instances/%s", c.baseURL, instanceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return fmt.Errorf("nrf: build deregister request: %w", err)
	}
	setRequestID(req)
	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	resp, err := c.doRequest("deregister", req)
	if err != nil {
		return fmt.Errorf("nrf: deregister request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return problemDetailsError("deregister", resp)
	}
	c.log.Info("deregistered from nrf", zap.String("nf_instance_id", instanceID))
	return nil
}

// Heartbeat performs Nnrf_NFManagement_NFUpdate's heartbeat variant
// (TS 29.510 §5.2.2.5.1).
func (c *Client) Heartbeat(ctx context.Context) error {
	instanceID := c.currentInstanceID()
	reqURL := fmt.Sprintf("%s/nnrf-nfm/v1/nf-instances/%s", c.baseURL, instanceID)

	patch := []map[string]any{{"op": "replace", "path": "/nfStatus", "value": "REGISTERED"}}
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("nrf: marshal heartbeat patch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("nrf: build heartbeat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json-patch+json")
	setRequestID(req)
	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	resp, err := c.doRequest("heartbeat", req)
	if err != nil {
		return fmt.Errorf("nrf: heartbeat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return problemDetailsError("heartbeat", resp)
	}
	c.log.Debug("heartbeat sent to nrf", zap.String("nf_instance_id", instanceID))
	return nil
}

// Search performs Nnrf_NFDiscovery_Search (TS 29.510 §5.3.2.2.1),
// setting header/query params via the struct-tag conventions in
// headers.go.
func (c *Client) Search(ctx context.Context, query *SearchQueryParams, header *SearchHeaderParams) (*SearchResult, error) {
	reqURL := fmt.Sprintf("%s/nnrf-disc/v1/nf-instances", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("nrf: build search request: %w", err)
	}
	setQuery(req, query)
	setRequestID(req)
	if err := setHeaders(req, header); err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.doRequest("search", req)
	if err != nil {
		return nil, fmt.Errorf("nrf: search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, problemDetailsError("search", resp)
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, nrferr.New(nrferr.KindInvalidBody, "search", err)
	}
	return &result, nil
}

// authorize sets the Authorization header from the cached OAuth2 access
// token when oauth is enabled; it is a no-op otherwise.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if !c.oauthEnabled {
		return nil
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return nrferr.New(nrferr.KindAuthorization, "authorize", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// accessToken returns a cached OAuth2 access token for the NRF, fetching
// a fresh one through the token store's single-flight Set if none is
// cached yet (spec.md §4.7: single-flight OAuth token cache).
func (c *Client) accessToken(ctx context.Context) (string, error) {
	token, found, err := c.tokens.Get(ctx, c.baseURL)
	if err != nil {
		return "", nrferr.New(nrferr.KindTokenStore, "get token", err)
	}
	if found {
		return token, nil
	}
	token, err = c.tokens.Set(ctx, c.baseURL, c.fetchAccessToken)
	if err != nil {
		return "", nrferr.New(nrferr.KindTokenStore, "set token", err)
	}
	return token, nil
}

// fetchAccessToken requests a client_credentials grant from the NRF's
// OAuth2 token endpoint. TS 29.510 §5.4.2 and RFC 6749 §4.4 require this
// body be sent as application/x-www-form-urlencoded, unlike every other
// request this client sends (spec.md §4.7/§6).
func (c *Client) fetchAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("nfInstanceId", c.currentInstanceID())
	form.Set("scope", "nnrf-nfm")
	form.Set("targetNfType", "NRF")
	form.Set("requesterNfType", "AMF")

	reqURL := fmt.Sprintf("%s/oauth2/token", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("nrf: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	setRequestID(req)

	resp, err := c.doRequest("oauth2 token", req)
	if err != nil {
		return "", fmt.Errorf("nrf: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", problemDetailsError("oauth2 token", resp)
	}

	var token AccessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", nrferr.New(nrferr.KindInvalidBody, "oauth2 token", err)
	}
	return token.AccessToken, nil
}

// setRequestID stamps req with a fresh correlation ID, mirroring the
// searchId/subscriptionId the teacher's NRF server mints per request
// (nf/nrf/internal/server/handlers.go) so log lines on both sides of an
// SBI call can be joined.
func setRequestID(req *http.Request) {
	req.Header.Set("X-Request-Id", uuid.New().String())
}

// problemDetailsError wraps a non-2xx NRF response as a KindProblemDetails
// nrferr.Error, decoding a TS 29.500 ProblemDetails body when one is
// present (spec.md §7: "problem-details-bearing non-2xx").
func problemDetailsError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var pd ProblemDetails
	if err := json.Unmarshal(body, &pd); err == nil && (pd.Title != "" || pd.Detail != "" || pd.Cause != "") {
		return nrferr.New(nrferr.KindProblemDetails, op,
			fmt.Errorf("status %d: %s: %s (%s)", resp.StatusCode, pd.Title, pd.Detail, pd.Cause))
	}
	return nrferr.New(nrferr.KindProblemDetails, op,
		fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
}
