// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package httputils

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRoundTripper answers with a canned body and keeps the last request.
type recordingRoundTripper struct {
	body        string
	lastRequest *http.Request
}

func (d *recordingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	d.lastRequest = req

	return &http.Response{
		Status:     "200 OK",
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(d.body)),
	}, nil
}

func TestLoggingRoundTripper(t *testing.T) {
	var logBuffer bytes.Buffer

	rt := &recordingRoundTripper{body: `{"status":"OK"}`}
	lt := &LoggingRoundTripper{
		Transport: rt,
		Writer:    &logBuffer,
		DumpBody:  true,
		Redact:    []string{"key"},
	}

	req, err := http.NewRequest(http.MethodGet, "http://example.com/maps/api/geocode/json?address=gangnam&key=secret", nil)
	require.NoError(t, err)

	_, err = lt.RoundTrip(req)
	require.NoError(t, err)

	logContent := logBuffer.String()
	assert.Contains(t, logContent, "> GET /maps/api/geocode/json?")
	assert.Contains(t, logContent, "key=REDACTED")
	assert.NotContains(t, logContent, "secret")
	assert.Contains(t, logContent, "< RESPONSE: [")
	assert.Contains(t, logContent, `{"status":"OK"}`)

	// the request on the wire keeps its key
	assert.Equal(t, "secret", rt.lastRequest.URL.Query().Get("key"))
}

func TestLoggingRoundTripperWithoutWriter(t *testing.T) {
	rt := &recordingRoundTripper{}
	lt := &LoggingRoundTripper{Transport: rt}

	req, err := http.NewRequest(http.MethodGet, "http://example.com/abc", nil)
	require.NoError(t, err)

	_, err = lt.RoundTrip(req)
	require.NoError(t, err)
	assert.Same(t, req, rt.lastRequest)
}

func TestAbbreviate(t *testing.T) {
	long := strings.Repeat("x", 600)

	lines := abbreviate([]string{"short", long}, '>')
	require.Len(t, lines, 2)
	assert.Equal(t, "> short", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "…"))
	assert.Len(t, lines[1], 512+len("…"))
}

func TestAppendRequestHeadersRoundTripper(t *testing.T) {
	rt := &recordingRoundTripper{}
	atr := &AppendRequestHeadersRoundTripper{
		Transport: rt,
		Headers:   map[string]string{"Accept-Language": "ko"},
	}

	req, err := http.NewRequest(http.MethodPost, "http://example.org", nil)
	require.NoError(t, err)
	require.Empty(t, req.Header.Get("Accept-Language"))

	_, err = atr.RoundTrip(req)
	require.NoError(t, err)
	require.NotNil(t, rt.lastRequest)
	assert.Equal(t, "ko", rt.lastRequest.Header.Get("Accept-Language"))
}

func TestNewClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.Header.Get("Accept-Language"))
	}))
	defer srv.Close()

	var trace bytes.Buffer

	client := NewClient(ClientOptions{
		Timeout: 5 * time.Second,
		Trace:   &trace,
		Redact:  []string{"key"},
		Headers: map[string]string{"Accept-Language": "ko"},
	})
	assert.Equal(t, 5*time.Second, client.Timeout)

	resp, err := client.Get(srv.URL + "/?key=secret")
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ko", string(body))
	assert.Contains(t, trace.String(), "Accept-Language: ko")
	assert.NotContains(t, trace.String(), "secret")
}
