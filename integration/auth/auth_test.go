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

// Package auth contains integration tests for the github.com/voxline/gspeech/auth package.
package auth

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/voxline/gspeech/auth"
	"github.com/voxline/gspeech/integration/internal"
	"golang.org/x/oauth2"
)

var client *auth.Client

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("skipping auth integration tests in short mode.")
		os.Exit(0)
	}
	if !internal.Available() {
		log.Println("skipping auth integration tests: no integration service account key.")
		os.Exit(0)
	}

	app, err := internal.NewTestApp(context.Background(), nil)
	if err != nil {
		log.Fatalln(err)
	}
	client, err = app.Auth(context.Background())
	if err != nil {
		log.Fatalln(err)
	}
	os.Exit(m.Run())
}

func TestAccessToken(t *testing.T) {
	token, err := client.Token(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if token.AccessToken == "" {
		t.Errorf("AccessToken = empty; want = non-empty")
	}
	if !token.Expiry.After(time.Now()) {
		t.Errorf("Expiry = %v; want a time in the future", token.Expiry)
	}
}

func TestReuseTokenSource(t *testing.T) {
	ts := oauth2.ReuseTokenSource(nil, client.TokenSource(context.Background()))
	first, err := ts.Token()
	if err != nil {
		t.Fatal(err)
	}
	second, err := ts.Token()
	if err != nil {
		t.Fatal(err)
	}
	if first.AccessToken != second.AccessToken {
		t.Errorf("ReuseTokenSource issued a new token before expiry")
	}
}
