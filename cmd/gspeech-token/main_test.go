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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testServiceAccountFile = "../../testdata/service_account.json"

func TestRunAssertion(t *testing.T) {
	t.Setenv("GSPEECH_CONFIG", "")
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-credentials", testServiceAccountFile, "-assertion"}, &out); err != nil {
		t.Fatal(err)
	}
	if parts := strings.Split(strings.TrimSpace(out.String()), "."); len(parts) != 3 {
		t.Errorf("run() printed %q; want a three-segment JWT", out.String())
	}
}

func TestRunToken(t *testing.T) {
	t.Setenv("GSPEECH_CONFIG", "")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if a := r.PostForm.Get("assertion"); a == "" {
			t.Errorf("assertion missing from token request")
		}
		w.Write([]byte(`{"access_token":"mock-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	b, err := os.ReadFile(testServiceAccountFile)
	if err != nil {
		t.Fatal(err)
	}
	var sa map[string]interface{}
	if err := json.Unmarshal(b, &sa); err != nil {
		t.Fatal(err)
	}
	sa["token_uri"] = server.URL
	b, err = json.Marshal(sa)
	if err != nil {
		t.Fatal(err)
	}
	saFile := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(saFile, b, 0600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-credentials", saFile}, &out); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "mock-token" {
		t.Errorf("run() printed %q; want = %q", got, "mock-token")
	}
}

func TestRunErrors(t *testing.T) {
	t.Setenv("GSPEECH_CONFIG", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	cases := [][]string{
		{},
		{"-credentials", "does_not_exist.json"},
		{"-unknown-flag"},
	}
	for _, args := range cases {
		var out bytes.Buffer
		if err := run(context.Background(), args, &out); err == nil {
			t.Errorf("run(%v) = nil; want = error", args)
		}
		if out.Len() != 0 {
			t.Errorf("run(%v) printed %q; want no output", args, out.String())
		}
	}
}
