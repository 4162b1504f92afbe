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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/transport"
)

var clock Clock = &SystemClock{}

// RetryConfig specifies how the HTTPClient should retry failing HTTP requests.
//
// A request is never retried more than MaxRetries times. If CheckForRetry is nil, all network
// errors, and all 400+ HTTP status codes are retried. If an HTTP error response contains the
// Retry-After header, it is always respected. Otherwise retries are delayed with exponential
// backoff. Set ExpBackoffFactor to 0 to disable exponential backoff, and retry immediately
// after each error.
type RetryConfig struct {
	MaxRetries       int
	CheckForRetry    RetryCondition
	ExpBackoffFactor float64
}

// RetryCondition determines if an HTTP request should be retried depending on its last outcome.
type RetryCondition func(resp *http.Response, networkErr error) bool

func (rc *RetryConfig) retryEligible(retryAttempts int, resp *http.Response, err error) bool {
	if retryAttempts >= rc.MaxRetries {
		return false
	}
	if rc.CheckForRetry == nil {
		return err != nil || resp.StatusCode >= 400
	}
	return rc.CheckForRetry(resp, err)
}

func (rc *RetryConfig) retryDelay(retryAttempts int, resp *http.Response) time.Duration {
	serverRecommendedDelay := parseRetryAfterHeader(resp)
	clientEstimatedDelay := estimateDelayForAttempt(retryAttempts, rc.ExpBackoffFactor)
	if serverRecommendedDelay > clientEstimatedDelay {
		return serverRecommendedDelay
	}
	return clientEstimatedDelay
}

func parseRetryAfterHeader(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	retryAfterHeader := resp.Header.Get("retry-after")
	if retryAfterHeader == "" {
		return 0
	}
	delayInSeconds, err := strconv.ParseInt(retryAfterHeader, 10, 64)
	if err != nil {
		timestamp, err := http.ParseTime(retryAfterHeader)
		if err == nil {
			return timestamp.Sub(clock.Now())
		}
	}
	return time.Duration(delayInSeconds) * time.Second
}

func estimateDelayForAttempt(retryAttempts int, factor float64) time.Duration {
	if retryAttempts == 0 {
		return 0
	}
	delayInSeconds := int64(math.Pow(2, float64(retryAttempts)) * factor)
	return time.Duration(delayInSeconds) * time.Second
}

func defaultRetryPolicy(resp *http.Response, err error) bool {
	return err != nil || resp.StatusCode == http.StatusInternalServerError ||
		resp.StatusCode == http.StatusServiceUnavailable
}

// DefaultRetryConfig returns a RetryConfig that retries HTTP requests on all low-level network
// errors, as well as HTTP 500 and 503 responses. It retries up to 4 times with exponential backoff.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:       4,
		CheckForRetry:    defaultRetryPolicy,
		ExpBackoffFactor: 0.5,
	}
}

// HTTPClient is a convenient API to make HTTP calls.
//
// This API handles some of the repetitive tasks such as entity serialization and deserialization
// involved in making HTTP calls. It provides a convenient mechanism to set headers and query
// parameters on outgoing requests, while enforcing that an explicit context is used per request.
// Responses returned by HTTPClient can be easily parsed as JSON, and provide a simple mechanism to
// configure retries.
type HTTPClient struct {
	Client      *http.Client
	RetryConfig *RetryConfig
	CreateErrFn CreateErrFn
	Opts        []HTTPOption
}

// CreateErrFn is a function that creates an error from a given Response.
type CreateErrFn func(r *Response) error

// HasSuccessStatus returns true if the response status code is in the 2xx range.
func HasSuccessStatus(r *Response) bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// NewHTTPClient creates a new HTTPClient using the provided client options and the default
// RetryConfig.
//
// The client options are resolved by the Google API transport. Callers that attach their own
// credentials per request should include option.WithoutAuthentication.
func NewHTTPClient(ctx context.Context, opts ...option.ClientOption) (*HTTPClient, string, error) {
	hc, endpoint, err := transport.NewHTTPClient(ctx, opts...)
	if err != nil {
		return nil, "", err
	}
	client := &HTTPClient{
		Client:      hc,
		RetryConfig: DefaultRetryConfig(),
	}
	return client, endpoint, nil
}

// Do executes the given Request, and returns a Response.
//
// If a RetryConfig is specified on the client, Do attempts to retry failing requests. Do returns
// a transport error only when every attempt failed to produce an HTTP response; it does not
// interpret the response status.
func (c *HTTPClient) Do(ctx context.Context, r *Request) (*Response, error) {
	retryAttempt := 0
	for {
		req, err := r.buildHTTPRequest(c.Opts)
		if err != nil {
			return nil, err
		}

		injectTraceparent(ctx, req)
		resp, err := c.Client.Do(req.WithContext(ctx))
		if c.RetryConfig != nil && c.RetryConfig.retryEligible(retryAttempt, resp, err) {
			if resp != nil {
				resp.Body.Close()
			}
			if err := c.delayNextAttempt(ctx, resp, retryAttempt); err != nil {
				return nil, err
			}
			retryAttempt++
			continue
		}
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		return newResponse(resp)
	}
}

// DoAndUnmarshal executes the given Request, checks that the response has a 2xx status, and
// unmarshals a successful response body into v. Unsuccessful responses are turned into errors by
// CreateErrFn, or by NewPlatformError when no CreateErrFn is set.
func (c *HTTPClient) DoAndUnmarshal(ctx context.Context, r *Request, v interface{}) (*Response, error) {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return nil, err
	}

	if !HasSuccessStatus(resp) {
		return nil, c.createErr(resp)
	}

	if v != nil {
		if err := json.Unmarshal(resp.Body, v); err != nil {
			return nil, fmt.Errorf("error while parsing response: %v", err)
		}
	}

	return resp, nil
}

func (c *HTTPClient) createErr(resp *Response) error {
	if c.CreateErrFn != nil {
		return c.CreateErrFn(resp)
	}
	return NewPlatformError(resp)
}

func (c *HTTPClient) delayNextAttempt(ctx context.Context, resp *http.Response, retryAttempt int) error {
	retryDelay := c.RetryConfig.retryDelay(retryAttempt, resp)
	if retryDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Request contains all the parameters required to construct an outgoing HTTP request.
type Request struct {
	Method string
	URL    string
	Body   HTTPEntity
	Opts   []HTTPOption
}

func (r *Request) buildHTTPRequest(clientOpts []HTTPOption) (*http.Request, error) {
	var opts []HTTPOption
	var data io.Reader
	if r.Body != nil {
		b, err := r.Body.Bytes()
		if err != nil {
			return nil, err
		}
		data = bytes.NewBuffer(b)
		opts = append(opts, WithHeader("Content-Type", r.Body.Mime()))
	}

	req, err := http.NewRequest(r.Method, r.URL, data)
	if err != nil {
		return nil, err
	}

	opts = append(opts, clientOpts...)
	opts = append(opts, r.Opts...)
	for _, o := range opts {
		o(req)
	}
	return req, nil
}

// HTTPEntity represents a payload that can be included in an outgoing HTTP request.
type HTTPEntity interface {
	Bytes() ([]byte, error)
	Mime() string
}

type jsonEntity struct {
	Val interface{}
}

// NewJSONEntity creates a new HTTPEntity that will be serialized into JSON.
func NewJSONEntity(v interface{}) HTTPEntity {
	return &jsonEntity{Val: v}
}

func (e *jsonEntity) Bytes() ([]byte, error) {
	return json.Marshal(e.Val)
}

func (e *jsonEntity) Mime() string {
	return "application/json"
}

// FormField is a single key-value pair of a form-encoded request body.
type FormField struct {
	Key   string
	Value string
}

type formEntity struct {
	Fields []FormField
}

// NewFormEntity creates a new HTTPEntity that will be serialized as an
// application/x-www-form-urlencoded body. Fields are encoded in the order given.
func NewFormEntity(fields ...FormField) HTTPEntity {
	return &formEntity{Fields: fields}
}

func (e *formEntity) Bytes() ([]byte, error) {
	var b strings.Builder
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return []byte(b.String()), nil
}

func (e *formEntity) Mime() string {
	return "application/x-www-form-urlencoded"
}

// Response contains information extracted from an HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	resp   *http.Response
}

func newResponse(resp *http.Response) (*Response, error) {
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{
		Status: resp.StatusCode,
		Body:   b,
		Header: resp.Header,
		resp:   resp,
	}, nil
}

// LowLevelResponse returns a copy of the underlying *http.Response whose body can be read again.
func (r *Response) LowLevelResponse() *http.Response {
	resp := *r.resp
	resp.Body = io.NopCloser(bytes.NewBuffer(r.Body))
	return &resp
}

// HTTPOption is an additional parameter that can be specified to customize an outgoing request.
type HTTPOption func(*http.Request)

// WithHeader creates an HTTPOption that will set an HTTP header on the request.
func WithHeader(key, value string) HTTPOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// WithQueryParam creates an HTTPOption that will set a query parameter on the request.
func WithQueryParam(key, value string) HTTPOption {
	return func(r *http.Request) {
		q := r.URL.Query()
		q.Add(key, value)
		r.URL.RawQuery = q.Encode()
	}
}
