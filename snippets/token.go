// Copyright 2026 Google Inc.
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

package snippets

import (
	"context"
	"log"
	"net/http"

	"github.com/voxline/gspeech"
	"golang.org/x/oauth2"
)

func accessToken(ctx context.Context, app *gspeech.App) string {
	// [START access_token_golang]
	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("error getting Auth client: %v\n", err)
	}

	token, err := client.AccessToken(ctx)
	if err != nil {
		log.Fatalf("error minting access token: %v\n", err)
	}
	// [END access_token_golang]

	return token
}

func cachedTokenSource(ctx context.Context, app *gspeech.App) oauth2.TokenSource {
	// [START cached_token_source_golang]
	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("error getting Auth client: %v\n", err)
	}

	// Every call to client.TokenSource(ctx).Token() performs a new exchange. Wrap it to reuse
	// tokens until they expire.
	ts := oauth2.ReuseTokenSource(nil, client.TokenSource(ctx))
	// [END cached_token_source_golang]

	return ts
}

func authorizedHTTPClient(ctx context.Context, app *gspeech.App) *http.Client {
	// [START authorized_http_client_golang]
	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("error getting Auth client: %v\n", err)
	}
	hc := oauth2.NewClient(ctx, client.TokenSource(ctx))
	// [END authorized_http_client_golang]

	return hc
}
