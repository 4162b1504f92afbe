// Copyright 2026 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package internal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/api/option"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Mime   string
	Header string
	Body   string
}

// recordingServer answers every request with a fixed status and body, and records what it saw.
type recordingServer struct {
	*httptest.Server
	Status   int
	Resp     string
	Header   http.Header
	Requests []recordedRequest
	count    int32
}

func newRecordingServer(status int, resp string) *recordingServer {
	s := &recordingServer{Status: status, Resp: resp, Header: http.Header{}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.count, 1)
		b, _ := io.ReadAll(r.Body)
		s.Requests = append(s.Requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Mime:   r.Header.Get("Content-Type"),
			Header: r.Header.Get("X-Test"),
			Body:   string(b),
		})
		for k, v := range s.Header {
			w.Header()[k] = v
		}
		w.WriteHeader(s.Status)
		w.Write([]byte(s.Resp))
	}))
	return s
}

func (s *recordingServer) Count() int {
	return int(atomic.LoadInt32(&s.count))
}

func TestRequestEncoding(t *testing.T) {
	cases := []struct {
		name string
		req  *Request
		want recordedRequest
	}{
		{
			name: "token exchange form",
			req: &Request{
				Method: http.MethodPost,
				URL:    "/token",
				Body: NewFormEntity(
					FormField{Key: "grant_type", Value: "urn:ietf:params:oauth:grant-type:jwt-bearer"},
					FormField{Key: "assertion", Value: "a.b.c"},
				),
			},
			want: recordedRequest{
				Method: http.MethodPost,
				Path:   "/token",
				Mime:   "application/x-www-form-urlencoded",
				Body:   "grant_type=urn%3Aietf%3Aparams%3Aoauth%3Agrant-type%3Ajwt-bearer&assertion=a.b.c",
			},
		},
		{
			name: "recognize with api key",
			req: &Request{
				Method: http.MethodPost,
				URL:    "/projects/p/locations/global/recognizers/_:recognize",
				Body:   NewJSONEntity(map[string]string{"content": "AAAA"}),
				Opts: []HTTPOption{
					WithHeader("X-Test", "value"),
					WithQueryParam("key", "api key"),
				},
			},
			want: recordedRequest{
				Method: http.MethodPost,
				Path:   "/projects/p/locations/global/recognizers/_:recognize",
				Query:  "key=api+key",
				Mime:   "application/json",
				Header: "value",
				Body:   `{"content":"AAAA"}`,
			},
		},
		{
			name: "get without body",
			req:  &Request{Method: http.MethodGet, URL: "/models"},
			want: recordedRequest{Method: http.MethodGet, Path: "/models"},
		},
	}

	for _, tc := range cases {
		server := newRecordingServer(http.StatusOK, "{}")
		client := &HTTPClient{Client: http.DefaultClient}
		tc.req.URL = server.URL + tc.req.URL
		if _, err := client.Do(context.Background(), tc.req); err != nil {
			t.Fatalf("[%s] Do() = %v", tc.name, err)
		}
		if diff := cmp.Diff([]recordedRequest{tc.want}, server.Requests); diff != "" {
			t.Errorf("[%s] request mismatch (-want +got):\n%s", tc.name, diff)
		}
		server.Close()
	}
}

func TestFormEntityOrderAndEscaping(t *testing.T) {
	entity := NewFormEntity(
		FormField{Key: "grant_type", Value: "urn:ietf:params:oauth:grant-type:jwt-bearer"},
		FormField{Key: "assertion", Value: "ab+c/d=="},
	)
	b, err := entity.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	want := "grant_type=urn%3Aietf%3Aparams%3Aoauth%3Agrant-type%3Ajwt-bearer&assertion=ab%2Bc%2Fd%3D%3D"
	if string(b) != want {
		t.Errorf("Bytes() = %q; want = %q", string(b), want)
	}
	if entity.Mime() != "application/x-www-form-urlencoded" {
		t.Errorf("Mime() = %q; want = %q", entity.Mime(), "application/x-www-form-urlencoded")
	}
}

func TestNilRetryConfigSendsOneRequest(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusBadRequest} {
		server := newRecordingServer(status, "{}")
		client := &HTTPClient{Client: http.DefaultClient}
		resp, err := client.DoAndUnmarshal(context.Background(), &Request{Method: http.MethodPost, URL: server.URL}, nil)
		if resp != nil || err == nil {
			t.Errorf("[%d] DoAndUnmarshal() = (%v, %v); want = (nil, error)", status, resp, err)
		}
		if server.Count() != 1 {
			t.Errorf("[%d] Total requests = %d; want = 1", status, server.Count())
		}
		server.Close()
	}
}

func TestNilRetryConfigNetworkError(t *testing.T) {
	server := newRecordingServer(http.StatusOK, "{}")
	url := server.URL
	server.Close()

	client := &HTTPClient{Client: http.DefaultClient}
	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: url})
	if resp != nil || err == nil {
		t.Errorf("Do() = (%v, %v); want = (nil, error)", resp, err)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	cases := []struct {
		status int
		want   int
	}{
		{http.StatusInternalServerError, 5},
		{http.StatusServiceUnavailable, 5},
		{http.StatusTooManyRequests, 1},
		{http.StatusNotFound, 1},
		{http.StatusOK, 1},
	}
	for _, tc := range cases {
		server := newRecordingServer(tc.status, "{}")
		client := &HTTPClient{Client: http.DefaultClient, RetryConfig: DefaultRetryConfig()}
		client.RetryConfig.ExpBackoffFactor = 0
		resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
		if err != nil {
			t.Fatalf("[%d] Do() = %v", tc.status, err)
		}
		if resp.Status != tc.status {
			t.Errorf("[%d] Status = %d; want = %d", tc.status, resp.Status, tc.status)
		}
		if server.Count() != tc.want {
			t.Errorf("[%d] Total requests = %d; want = %d", tc.status, server.Count(), tc.want)
		}
		server.Close()
	}
}

func TestRetryAfterHeader(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock = &MockClock{Timestamp: now}
	defer func() { clock = &SystemClock{} }()

	rc := &RetryConfig{MaxRetries: 4, ExpBackoffFactor: 0.5}
	cases := []struct {
		header string
		want   time.Duration
	}{
		{"", 2 * time.Second},
		{"1", 2 * time.Second},
		{"30", 30 * time.Second},
		{now.Add(time.Minute).Format(http.TimeFormat), time.Minute},
	}
	for _, tc := range cases {
		resp := &http.Response{Header: http.Header{}}
		if tc.header != "" {
			resp.Header.Set("Retry-After", tc.header)
		}
		if got := rc.retryDelay(2, resp); got != tc.want {
			t.Errorf("retryDelay(%q) = %v; want = %v", tc.header, got, tc.want)
		}
	}
}

func TestContextCancelsRetries(t *testing.T) {
	server := newRecordingServer(http.StatusServiceUnavailable, "{}")
	server.Header.Set("Retry-After", "60")
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	client := &HTTPClient{Client: http.DefaultClient, RetryConfig: DefaultRetryConfig()}
	resp, err := client.Do(ctx, &Request{Method: http.MethodGet, URL: server.URL})
	if resp != nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() = (%v, %v); want = (nil, %v)", resp, err, context.DeadlineExceeded)
	}
	if server.Count() != 1 {
		t.Errorf("Total requests = %d; want = 1", server.Count())
	}
}

func TestCreateErrFnTakesPrecedence(t *testing.T) {
	server := newRecordingServer(http.StatusForbidden, `{"error":{"status":"PERMISSION_DENIED","message":"denied"}}`)
	defer server.Close()
	req := &Request{Method: http.MethodGet, URL: server.URL}

	client := &HTTPClient{Client: http.DefaultClient}
	_, err := client.DoAndUnmarshal(context.Background(), req, nil)
	pe, ok := err.(*PlatformError)
	if !ok || pe.ErrorCode != PermissionDenied {
		t.Errorf("DoAndUnmarshal() = %v; want = PlatformError with %s", err, PermissionDenied)
	}

	wantErr := errors.New("custom error")
	var seen *Response
	client.CreateErrFn = func(r *Response) error {
		seen = r
		return wantErr
	}
	if _, err := client.DoAndUnmarshal(context.Background(), req, nil); err != wantErr {
		t.Errorf("DoAndUnmarshal() = %v; want = %v", err, wantErr)
	}
	if seen == nil || seen.Status != http.StatusForbidden {
		t.Errorf("CreateErrFn received %v; want a response with status %d", seen, http.StatusForbidden)
	}
}

func TestDoAndUnmarshal(t *testing.T) {
	server := newRecordingServer(http.StatusOK, `{"access_token":"tok"}`)
	defer server.Close()

	var got struct {
		AccessToken string `json:"access_token"`
	}
	client := &HTTPClient{Client: http.DefaultClient}
	resp, err := client.DoAndUnmarshal(context.Background(), &Request{Method: http.MethodGet, URL: server.URL}, &got)
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != "tok" {
		t.Errorf("AccessToken = %q; want = %q", got.AccessToken, "tok")
	}

	low := resp.LowLevelResponse()
	for i := 0; i < 2; i++ {
		b, err := io.ReadAll(resp.LowLevelResponse().Body)
		if err != nil || string(b) != `{"access_token":"tok"}` {
			t.Errorf("LowLevelResponse().Body = (%q, %v); want = (%q, nil)", string(b), err, server.Resp)
		}
	}
	if low.StatusCode != http.StatusOK {
		t.Errorf("LowLevelResponse().StatusCode = %d; want = %d", low.StatusCode, http.StatusOK)
	}
}

func TestDoAndUnmarshalParseError(t *testing.T) {
	server := newRecordingServer(http.StatusOK, "not json")
	defer server.Close()

	var got map[string]interface{}
	client := &HTTPClient{Client: http.DefaultClient}
	_, err := client.DoAndUnmarshal(context.Background(), &Request{Method: http.MethodGet, URL: server.URL}, &got)
	if err == nil || !strings.HasPrefix(err.Error(), "error while parsing response: ") {
		t.Errorf("DoAndUnmarshal() = %v; want = parse error", err)
	}
}

func TestClientOpts(t *testing.T) {
	server := newRecordingServer(http.StatusOK, "{}")
	defer server.Close()

	client := &HTTPClient{
		Client: http.DefaultClient,
		Opts:   []HTTPOption{WithHeader("X-Test", "client")},
	}
	req := &Request{Method: http.MethodGet, URL: server.URL}
	if _, err := client.Do(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	req.Opts = []HTTPOption{WithHeader("X-Test", "request")}
	if _, err := client.Do(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if got := server.Requests[0].Header; got != "client" {
		t.Errorf("X-Test = %q; want = %q", got, "client")
	}
	if got := server.Requests[1].Header; got != "request" {
		t.Errorf("X-Test = %q; want = %q", got, "request")
	}
}

func TestNoRetryOnRequestBuildError(t *testing.T) {
	entity := &errorEntity{}
	client := &HTTPClient{Client: http.DefaultClient, RetryConfig: DefaultRetryConfig()}
	req := &Request{Method: http.MethodPost, URL: "http://localhost", Body: entity}
	if _, err := client.Do(context.Background(), req); err == nil {
		t.Errorf("Do() = nil; want = error")
	}
	if entity.Count != 1 {
		t.Errorf("Bytes() calls = %d; want = 1", entity.Count)
	}
}

func TestNewHTTPClient(t *testing.T) {
	wantEndpoint := "https://speech.googleapis.com/v2"
	client, endpoint, err := NewHTTPClient(context.Background(),
		option.WithoutAuthentication(), option.WithEndpoint(wantEndpoint))
	if err != nil {
		t.Fatal(err)
	}
	if endpoint != wantEndpoint {
		t.Errorf("NewHTTPClient() endpoint = %q; want = %q", endpoint, wantEndpoint)
	}
	rc := client.RetryConfig
	if rc == nil || rc.MaxRetries != 4 || rc.ExpBackoffFactor != 0.5 || rc.CheckForRetry == nil {
		t.Errorf("NewHTTPClient().RetryConfig = %+v; want = default", rc)
	}
}

func TestMockTokenProvider(t *testing.T) {
	tp := &MockTokenProvider{Token: "test-token"}
	for i := 0; i < 3; i++ {
		tok, err := tp.AccessToken(context.Background())
		if tok != "test-token" || err != nil {
			t.Errorf("AccessToken() = (%q, %v); want = (%q, nil)", tok, err, "test-token")
		}
	}
	if tp.Calls() != 3 {
		t.Errorf("Calls() = %d; want = %d", tp.Calls(), 3)
	}

	wantErr := errors.New("token error")
	tp = &MockTokenProvider{Token: "ignored", Err: wantErr}
	if tok, err := tp.AccessToken(context.Background()); tok != "" || err != wantErr {
		t.Errorf("AccessToken() = (%q, %v); want = (\"\", %v)", tok, err, wantErr)
	}
}

type errorEntity struct {
	Count int
}

func (e *errorEntity) Bytes() ([]byte, error) {
	e.Count++
	return nil, errors.New("test error")
}

func (e *errorEntity) Mime() string {
	return "application/json"
}
