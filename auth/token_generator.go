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
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	algorithmRS256 = "RS256"
	typeJWT        = "JWT"

	// assertionLifetime is the validity window of a signed assertion, in seconds.
	assertionLifetime = 3600
)

type jwtHeader struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ"`
}

// assertionClaims is the claim set of a JWT-bearer assertion. Fields are serialized in declaration
// order.
type assertionClaims struct {
	Iss   string `json:"iss"`
	Scope string `json:"scope"`
	Aud   string `json:"aud"`
	Iat   int64  `json:"iat"`
	Exp   int64  `json:"exp"`
}

func newAssertionClaims(clientEmail, scope, tokenURI string, iat int64) *assertionClaims {
	return &assertionClaims{
		Iss:   clientEmail,
		Scope: scope,
		Aud:   tokenURI,
		Iat:   iat,
		Exp:   iat + assertionLifetime,
	}
}

type jwtInfo struct {
	header  jwtHeader
	payload interface{}
}

func newAssertion(claims *assertionClaims) *jwtInfo {
	return &jwtInfo{
		header:  jwtHeader{Algorithm: algorithmRS256, Type: typeJWT},
		payload: claims,
	}
}

// Token encodes the header and payload, signs them with signer, and returns the compact
// serialization of the resulting JWT.
func (info *jwtInfo) Token(ctx context.Context, signer cryptoSigner) (string, error) {
	encode := func(i interface{}) (string, error) {
		b, err := json.Marshal(i)
		if err != nil {
			return "", err
		}
		return base64.RawURLEncoding.EncodeToString(b), nil
	}
	header, err := encode(info.header)
	if err != nil {
		return "", err
	}
	payload, err := encode(info.payload)
	if err != nil {
		return "", err
	}

	tokenData := fmt.Sprintf("%s.%s", header, payload)
	sig, err := signer.Sign(ctx, []byte(tokenData))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s", tokenData, base64.RawURLEncoding.EncodeToString(sig)), nil
}
