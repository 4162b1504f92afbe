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

// Package internal contains functionality that is only accessible from within this module.
package internal

import (
	"context"
	"sync"

	"github.com/voxline/gspeech/credentials"
	"google.golang.org/api/option"
)

// AuthConfig represents the configuration of the service account token client.
type AuthConfig struct {
	Opts    []option.ClientOption
	Creds   *credentials.ServiceAccount
	Scopes  []string
	Version string
}

// SpeechConfig represents the configuration of the Cloud Speech-to-Text client.
type SpeechConfig struct {
	Opts       []option.ClientOption
	ProjectID  string
	Location   string
	Model      string
	AuthMethod string
	APIKey     string
	Tokens     TokenProvider
	Version    string
}

// TokenProvider fetches OAuth2 access tokens on demand.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// MockTokenProvider is a TokenProvider implementation that can be used for testing.
type MockTokenProvider struct {
	Token string
	Err   error

	mu    sync.Mutex
	calls int
}

// AccessToken returns the test token (or error) associated with the MockTokenProvider.
func (tp *MockTokenProvider) AccessToken(ctx context.Context) (string, error) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.calls++
	if tp.Err != nil {
		return "", tp.Err
	}
	return tp.Token, nil
}

// Calls returns the number of times AccessToken was invoked.
func (tp *MockTokenProvider) Calls() int {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.calls
}
