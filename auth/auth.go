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

// Package auth obtains OAuth2 access tokens for Google service accounts.
//
// Tokens are minted with the JWT-bearer grant: a short-lived assertion naming the service account,
// the requested scope and the token endpoint is signed with the account's RSA key (RS256) and
// exchanged for an access token. Every call performs a fresh exchange; wrap the TokenSource with
// oauth2.ReuseTokenSource to cache tokens until they expire.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/voxline/gspeech/internal"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// DefaultScope is the OAuth2 scope requested when none is configured.
const DefaultScope = "https://www.googleapis.com/auth/cloud-platform"

// Client mints access tokens for a single service account.
//
// A Client holds only immutable configuration and is safe for concurrent use.
type Client struct {
	signer    cryptoSigner
	exchanger *tokenExchanger
	tokenURI  string
	scope     string
	clock     internal.Clock
}

// NewClient creates a new token client from the given configuration.
//
// This function can only be invoked from within the module. Instead, use the Auth() function of
// the App type to obtain a Client.
func NewClient(ctx context.Context, conf *internal.AuthConfig) (*Client, error) {
	if conf.Creds == nil {
		return nil, errors.New("service account credentials are required")
	}
	signer, err := newServiceAccountSigner(conf.Creds.PrivateKey, conf.Creds.ClientEmail)
	if err != nil {
		return nil, err
	}
	if conf.Creds.TokenURI == "" {
		return nil, errors.New("service account token_uri is required")
	}

	opts := append([]option.ClientOption{option.WithoutAuthentication()}, conf.Opts...)
	hc, _, err := internal.NewHTTPClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	scope := strings.Join(conf.Scopes, " ")
	if scope == "" {
		scope = DefaultScope
	}

	return &Client{
		signer:    signer,
		exchanger: newTokenExchanger(hc.Client),
		tokenURI:  conf.Creds.TokenURI,
		scope:     scope,
		clock:     &internal.SystemClock{},
	}, nil
}

// SignedAssertion builds and signs a JWT-bearer assertion for the service account.
//
// The assertion is issued at the current time and expires one hour later.
func (c *Client) SignedAssertion(ctx context.Context) (string, error) {
	email, err := c.signer.Email(ctx)
	if err != nil {
		return "", err
	}
	claims := newAssertionClaims(email, c.scope, c.tokenURI, c.clock.Now().Unix())
	return newAssertion(claims).Token(ctx, c.signer)
}

// Token performs a complete token exchange and returns the issued OAuth2 token.
func (c *Client) Token(ctx context.Context) (*oauth2.Token, error) {
	issued := c.clock.Now()
	assertion, err := c.SignedAssertion(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.exchanger.exchange(ctx, c.tokenURI, assertion)
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
	}
	if resp.ExpiresIn > 0 {
		token.Expiry = issued.Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return token, nil
}

// AccessToken performs a complete token exchange and returns the access token string.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// TokenSource returns an oauth2.TokenSource that performs a fresh token exchange on every call to
// Token, using ctx for the outgoing requests.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, client: c}
}

type tokenSource struct {
	ctx    context.Context
	client *Client
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	return ts.client.Token(ts.ctx)
}
