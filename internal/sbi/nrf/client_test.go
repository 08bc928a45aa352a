package nrf

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/omnipath/internal/sbi/nrferr"
)

func TestRegisterOn201ParsesLocationAndPublishesNfConfig(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody NFProfile

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		gotBody.HeartBeatTimer = 30
		gotBody.CustomInfo = &CustomInfo{OAuth2: true}
		w.Header().Set("Location", "/nnrf-nfm/v1/nf-instances/6a43c488-cdc7-4b1c-9b1b-6e8f3e6e9a21")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(gotBody)
	}))
	defer srv.Close()

	c := New(srv.URL, "amf-1", false, zap.NewNop())
	profile := &NFProfile{NFInstanceID: "amf-1", NFType: "AMF", NFStatus: "REGISTERED"}

	resp, err := c.Register(context.Background(), profile, nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/nnrf-nfm/v1/nf-instances/amf-1", gotPath)
	assert.Equal(t, "amf-1", gotBody.NFInstanceID)
	assert.Equal(t, "AMF", resp.NFType)

	cfg := c.NfConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "6a43c488-cdc7-4b1c-9b1b-6e8f3e6e9a21", cfg.NFInstanceID)
	assert.Equal(t, 30*time.Second, cfg.HeartBeatTimer)
	assert.True(t, cfg.OAuth2)
	assert.Equal(t, cfg.NFInstanceID, c.currentInstanceID())
}

func TestRegisterOn201WithoutLocationIsInvalidLocationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(NFProfile{})
	}))
	defer srv.Close()

	c := New(srv.URL, "amf-1", false, zap.NewNop())
	_, err := c.Register(context.Background(), &NFProfile{NFInstanceID: "amf-1"}, nil)
	require.Error(t, err)

	var nerr *nrferr.Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, nrferr.KindInvalidLocation, nerr.Kind)
}

func TestRegisterOn200KeepsSentInstanceID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(NFProfile{NFInstanceID: "amf-1", HeartBeatTimer: 15})
	}))
	defer srv.Close()

	c := New(srv.URL, "amf-1", false, zap.NewNop())
	_, err := c.Register(context.Background(), &NFProfile{NFInstanceID: "amf-1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "amf-1", c.NfConfig().NFInstanceID)
	assert.Equal(t, 15*time.Second, c.NfConfig().HeartBeatTimer)
}

func TestRegisterOnProblemDetailsReturnsNrferr(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ProblemDetails{Title: "malformed profile", Detail: "missing plmnList"})
	}))
	defer srv.Close()

	c := New(srv.URL, "amf-1", false, zap.NewNop())
	_, err := c.Register(context.Background(), &NFProfile{NFInstanceID: "amf-1"}, nil)
	require.Error(t, err)

	var nerr *nrferr.Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, nrferr.KindProblemDetails, nerr.Kind)
}

func TestDeregisterRequiresNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "amf-1", false, zap.NewNop())
	require.NoError(t, c.Deregister(context.Background()))
}

func TestDeregisterReturnsErrorOnUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "amf-1", false, zap.NewNop())
	assert.Error(t, c.Deregister(context.Background()))
}

func TestHeartbeatSendsPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json-patch+json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "amf-1", false, zap.NewNop())
	require.NoError(t, c.Heartbeat(context.Background()))
}

func TestSearchSetsQueryAndDecodesResult(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(SearchResult{NFInstances: []NFProfile{{NFInstanceID: "nrf-1"}}})
	}))
	defer srv.Close()

	c := New(srv.URL, "amf-1", false, zap.NewNop())
	result, err := c.Search(context.Background(), &SearchQueryParams{TargetNFType: "AUSF", RequesterNFType: "AMF"}, nil)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "target-nf-type=AUSF")
	assert.Len(t, result.NFInstances, 1)
}

func TestOAuthEnabledFetchesAndCachesToken(t *testing.T) {
	tokenRequests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			tokenRequests++
			_ = json.NewEncoder(w).Encode(AccessTokenResponse{AccessToken: "tok-1", TokenType: "Bearer", ExpiresIn: 3600})
		default:
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "amf-1", true, zap.NewNop())
	require.NoError(t, c.Heartbeat(context.Background()))
	require.NoError(t, c.Heartbeat(context.Background()))
	assert.Equal(t, 1, tokenRequests)
}
