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

// Package internal contains utilities for running integration tests.
package internal

import (
	"context"
	"os"

	"github.com/voxline/gspeech"
)

const (
	certPath  = "../../testdata/integration_cert.json"
	audioPath = "../../testdata/integration_audio.wav"
)

// Available reports whether the integration service account key is present.
func Available() bool {
	_, err := os.Stat(certPath)
	return err == nil
}

// NewTestApp creates a new App instance for integration tests.
//
// NewTestApp looks for a service account JSON file named integration_cert.json in the testdata
// directory. This file is used to initialize the newly created App instance. Other fields set in
// conf are kept.
func NewTestApp(ctx context.Context, conf *gspeech.Config) (*gspeech.App, error) {
	c := gspeech.Config{}
	if conf != nil {
		c = *conf
	}
	c.ServiceAccountFile = certPath
	return gspeech.NewApp(ctx, &c)
}

// AudioSample reads the speech sample used by recognition tests from integration_audio.wav in the
// testdata directory.
func AudioSample() ([]byte, error) {
	return os.ReadFile(audioPath)
}
