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

// Package gspeech is the entry point to the speech client. It provides functionality for
// initializing App instances, which hold the project configuration and credentials shared by the
// token client and the Cloud Speech-to-Text client.
package gspeech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/voxline/gspeech/auth"
	"github.com/voxline/gspeech/credentials"
	"github.com/voxline/gspeech/internal"
	"github.com/voxline/gspeech/speech"
	"google.golang.org/api/option"
)

// Version of the gspeech module.
const Version = "1.0.0"

// configEnvName is the name of the environment variable with the path to a JSON Config file.
const configEnvName = "GSPEECH_CONFIG"

// projectEnvName is consulted for the project ID when neither the Config nor the service account
// provides one.
const projectEnvName = "GOOGLE_CLOUD_PROJECT"

// An App holds configuration and state common to the token and speech clients.
type App struct {
	projectID      string
	location       string
	model          string
	authMethod     string
	apiKey         string
	serviceAccount *credentials.ServiceAccount
	scopes         []string
	opts           []option.ClientOption
}

// Config represents the configuration used to initialize an App.
type Config struct {
	ProjectID          string   `json:"projectId"`
	Location           string   `json:"location"`
	Model              string   `json:"model"`
	AuthMethod         string   `json:"authMethod"`
	APIKey             string   `json:"apiKey"`
	ServiceAccountFile string   `json:"serviceAccountFile"`
	Scopes             []string `json:"scopes"`
}

// NewApp creates a new App from the provided config and client options.
//
// When the GSPEECH_CONFIG environment variable names a JSON file, values from that file are used
// for every field the config leaves empty. If a service account file is configured, the App
// authenticates with it unless the auth method is explicitly set to "api_key". The client options
// customize the HTTP transport used by every client created from the App.
func NewApp(ctx context.Context, config *Config, opts ...option.ClientOption) (*App, error) {
	if config == nil {
		config = &Config{}
	}
	conf, err := amendConfigWithDefaults(config)
	if err != nil {
		return nil, err
	}

	var sa *credentials.ServiceAccount
	if conf.ServiceAccountFile != "" {
		sa, err = credentials.NewServiceAccountFromFile(conf.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load service account: %v", err)
		}
	}

	authMethod := conf.AuthMethod
	if authMethod == "" {
		authMethod = speech.AuthMethodAPIKey
		if sa != nil {
			authMethod = speech.AuthMethodServiceAccount
		}
	}
	switch authMethod {
	case speech.AuthMethodAPIKey:
	case speech.AuthMethodServiceAccount:
		if sa == nil {
			return nil, errors.New("service account auth method requires a service account file")
		}
	default:
		return nil, fmt.Errorf("unsupported auth method: %q", authMethod)
	}

	var pid string
	if conf.ProjectID != "" {
		pid = conf.ProjectID
	} else if sa != nil && sa.ProjectID != "" {
		pid = sa.ProjectID
	} else {
		pid = os.Getenv(projectEnvName)
	}

	return &App{
		projectID:      pid,
		location:       conf.Location,
		model:          conf.Model,
		authMethod:     authMethod,
		apiKey:         conf.APIKey,
		serviceAccount: sa,
		scopes:         conf.Scopes,
		opts:           opts,
	}, nil
}

// ProjectID returns the project the App was initialized for.
func (a *App) ProjectID() string {
	return a.projectID
}

// Auth returns an instance of auth.Client.
func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	if a.serviceAccount == nil {
		return nil, errors.New("service account credentials are required to create an auth client")
	}
	conf := &internal.AuthConfig{
		Creds:   a.serviceAccount,
		Scopes:  a.scopes,
		Opts:    a.opts,
		Version: Version,
	}
	return auth.NewClient(ctx, conf)
}

// Speech returns an instance of speech.Client.
func (a *App) Speech(ctx context.Context) (*speech.Client, error) {
	conf := &internal.SpeechConfig{
		Opts:       a.opts,
		ProjectID:  a.projectID,
		Location:   a.location,
		Model:      a.model,
		AuthMethod: a.authMethod,
		APIKey:     a.apiKey,
		Version:    Version,
	}
	if a.authMethod == speech.AuthMethodServiceAccount {
		client, err := a.Auth(ctx)
		if err != nil {
			return nil, err
		}
		conf.Tokens = client
	}
	return speech.NewClient(ctx, conf)
}

// amendConfigWithDefaults reads the config file named by the GSPEECH_CONFIG env variable, and
// uses its values where the given config is missing values.
func amendConfigWithDefaults(config *Config) (*Config, error) {
	confFileName := os.Getenv(configEnvName)
	if confFileName == "" {
		return config, nil
	}
	dat, err := os.ReadFile(confFileName)
	if err != nil {
		return nil, err
	}

	fileConf := &Config{}
	d := json.NewDecoder(bytes.NewReader(dat))
	d.DisallowUnknownFields()
	if err := d.Decode(fileConf); err != nil {
		return nil, fmt.Errorf("invalid JSON config file %s: %v", confFileName, err)
	}
	updateConfig(config, fileConf)
	return fileConf, nil
}

// updateConfig copies every non-empty field of source into target.
func updateConfig(source, target *Config) {
	s := reflect.ValueOf(source).Elem()
	t := reflect.ValueOf(target).Elem()
	for i := 0; i < s.NumField(); i++ {
		fs := s.Field(i)
		switch fs.Kind() {
		case reflect.String:
			if fs.String() != "" {
				t.Field(i).SetString(fs.String())
			}
		case reflect.Slice:
			if fs.Len() > 0 {
				t.Field(i).Set(fs)
			}
		default:
			panic("non implemented Config{} field type")
		}
	}
}
