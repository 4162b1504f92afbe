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
)

// cryptoSigner is used to cryptographically sign data, and query the identity of the signer.
type cryptoSigner interface {
	Sign(context.Context, []byte) ([]byte, error)
	Email(context.Context) (string, error)
}

// serviceAccountSigner signs data with the RSA private key of a service account.
//
// The key is kept in its PEM form and decoded on every call to Sign, so no derived key material
// outlives a single signing operation.
type serviceAccountSigner struct {
	privateKey  string
	clientEmail string
}

func newServiceAccountSigner(privateKey, clientEmail string) (*serviceAccountSigner, error) {
	if privateKey == "" {
		return nil, errors.New("private key not available")
	}
	if clientEmail == "" {
		return nil, errors.New("service account email not available")
	}
	return &serviceAccountSigner{
		privateKey:  privateKey,
		clientEmail: clientEmail,
	}, nil
}

func (s *serviceAccountSigner) Sign(ctx context.Context, b []byte) ([]byte, error) {
	key, err := parsePrivateKey(s.privateKey)
	if err != nil {
		return nil, err
	}
	return signPKCS1v15SHA256(key, b)
}

func (s *serviceAccountSigner) Email(ctx context.Context) (string, error) {
	return s.clientEmail, nil
}
