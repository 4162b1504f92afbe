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

// Package credentials loads Google service account keys.
//
// A service account key is the JSON document downloaded from the "Keys" tab of a service account in
// the Google Cloud console. Only the fields needed to sign a JWT-bearer assertion are interpreted;
// the private key itself stays in its PEM form and is decoded by the auth package when a token is
// requested.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const serviceAccountType = "service_account"

// ServiceAccount holds the fields of a service account key JSON document.
type ServiceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	AuthURI      string `json:"auth_uri"`
	TokenURI     string `json:"token_uri"`
}

// ParseServiceAccount parses and validates a service account key from its JSON representation.
//
// The client_email, private_key and token_uri fields are required. If present, the type field must
// be "service_account". Private keys that were pasted with escaped line breaks (a literal
// backslash followed by n) or with CRLF line endings are normalized to plain LF-separated PEM.
func ParseServiceAccount(b []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(b, &sa); err != nil {
		return nil, fmt.Errorf("invalid service account JSON: %v", err)
	}

	if sa.Type != "" && sa.Type != serviceAccountType {
		return nil, fmt.Errorf("'type' field is '%s' (expected '%s')", sa.Type, serviceAccountType)
	} else if sa.ClientEmail == "" {
		return nil, errors.New("'client_email' field not available")
	} else if sa.PrivateKey == "" {
		return nil, errors.New("'private_key' field not available")
	} else if sa.TokenURI == "" {
		return nil, errors.New("'token_uri' field not available")
	}

	sa.PrivateKey = normalizePrivateKey(sa.PrivateKey)
	return &sa, nil
}

// NewServiceAccount reads a service account key JSON document from r.
//
// NewServiceAccount consumes all the content available in r. It is safe to close r once
// NewServiceAccount has returned.
func NewServiceAccount(r io.Reader) (*ServiceAccount, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseServiceAccount(b)
}

// NewServiceAccountFromFile reads a service account key JSON document from the named file.
func NewServiceAccountFromFile(path string) (*ServiceAccount, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseServiceAccount(b)
}

func normalizePrivateKey(key string) string {
	key = strings.ReplaceAll(key, `\n`, "\n")
	return strings.ReplaceAll(key, "\r\n", "\n")
}
