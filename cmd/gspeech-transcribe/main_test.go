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
	"strings"
	"testing"
)

func TestRunCheck(t *testing.T) {
	t.Setenv("GSPEECH_CONFIG", "")
	var out bytes.Buffer
	args := []string{"-project", "mock-project-id", "-api-key", "test-key", "-check"}
	if err := run(context.Background(), args, &out); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "ok" {
		t.Errorf("run() printed %q; want = %q", got, "ok")
	}
}

func TestRunErrors(t *testing.T) {
	t.Setenv("GSPEECH_CONFIG", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"check without key", []string{"-project", "p", "-check"}, "API key not configured"},
		{"check without project", []string{"-api-key", "k", "-check"}, "project ID not configured"},
		{"no audio file", []string{"-project", "p", "-api-key", "k"}, "exactly one audio file must be given"},
		{"missing audio file", []string{"-project", "p", "-api-key", "k", "missing.wav"}, "missing.wav"},
		{"bad auth method", []string{"-auth", "oauth"}, "unsupported auth method"},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		err := run(context.Background(), tc.args, &out)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("[%s] run() = %v; want = %q", tc.name, err, tc.want)
		}
	}
}
