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

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/voxline/gspeech/internal"
)

const jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// tokenResponse is the JSON body returned by a successful token exchange.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// tokenExchanger trades signed assertions for access tokens at an OAuth2 token endpoint.
type tokenExchanger struct {
	httpClient *internal.HTTPClient
}

func newTokenExchanger(hc *http.Client) *tokenExchanger {
	return &tokenExchanger{
		httpClient: &internal.HTTPClient{
			Client:      hc,
			CreateErrFn: handleTokenExchangeError,
		},
	}
}

// exchange posts assertion to tokenURI using the JWT-bearer grant and returns the parsed token
// response. The request is made exactly once.
func (te *tokenExchanger) exchange(ctx context.Context, tokenURI, assertion string) (*tokenResponse, error) {
	req := &internal.Request{
		Method: http.MethodPost,
		URL:    tokenURI,
		Body: internal.NewFormEntity(
			internal.FormField{Key: "grant_type", Value: jwtBearerGrantType},
			internal.FormField{Key: "assertion", Value: assertion},
		),
	}

	var result tokenResponse
	if _, err := te.httpClient.DoAndUnmarshal(ctx, req, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, errors.New("token response does not contain an access_token")
	}
	return &result, nil
}

func handleTokenExchangeError(resp *internal.Response) error {
	base := internal.NewPlatformError(resp)
	base.String = fmt.Sprintf("token exchange failed with status %d: %s", resp.Status, string(resp.Body))
	return base
}
