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

// Package speech transcribes audio with the Google Cloud Speech-to-Text v2 API.
package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"github.com/voxline/gspeech/internal"
	"google.golang.org/api/option"
)

const (
	defaultEndpoint = "https://speech.googleapis.com/v2"

	// DefaultLanguage is the language code used when Recognize is called without one.
	DefaultLanguage = "en-US"

	// DefaultLocation is the recognizer location used when none is configured.
	DefaultLocation = "global"

	// DefaultModel is the recognition model used when none is configured.
	DefaultModel = "chirp_3"

	// AuthMethodAPIKey authenticates requests with an API key query parameter.
	AuthMethodAPIKey = "api_key"

	// AuthMethodServiceAccount authenticates requests with a service account bearer token.
	AuthMethodServiceAccount = "service_account"

	providerName = "Google Cloud STT"
)

// ErrEmptyTranscript is returned when the API recognized no speech in the submitted audio.
var ErrEmptyTranscript = errors.New("no transcription from Google Cloud STT")

var supportedModels = []string{"chirp_3", "chirp_2", "long", "short"}

// Client is the interface for the Cloud Speech-to-Text service.
type Client struct {
	// To enable testing against arbitrary endpoints.
	endpoint   string
	client     *internal.HTTPClient
	projectID  string
	location   string
	model      string
	authMethod string
	apiKey     string
	tokens     internal.TokenProvider
}

// NewClient creates a new instance of the speech Client.
//
// This function can only be invoked from within the module. Instead, use the Speech() function of
// the App type to obtain a Client.
func NewClient(ctx context.Context, c *internal.SpeechConfig) (*Client, error) {
	authMethod := c.AuthMethod
	if authMethod == "" {
		authMethod = AuthMethodAPIKey
	}
	switch authMethod {
	case AuthMethodAPIKey:
	case AuthMethodServiceAccount:
		if c.Tokens == nil {
			return nil, errors.New("service account authentication requires a token provider")
		}
	default:
		return nil, fmt.Errorf("unsupported auth method: %q", c.AuthMethod)
	}

	opts := append([]option.ClientOption{option.WithoutAuthentication()}, c.Opts...)
	hc, endpoint, err := internal.NewHTTPClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	goVersion := strings.TrimPrefix(runtime.Version(), "go")
	version := fmt.Sprintf("gl-go/%s gspeech/%s", goVersion, c.Version)
	hc.Opts = []internal.HTTPOption{
		internal.WithHeader("x-goog-api-client", version),
	}
	hc.CreateErrFn = handleSpeechError

	location := c.Location
	if location == "" {
		location = DefaultLocation
	}
	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		client:     hc,
		projectID:  c.ProjectID,
		location:   location,
		model:      model,
		authMethod: authMethod,
		apiKey:     c.APIKey,
		tokens:     c.Tokens,
	}, nil
}

type recognizeRequest struct {
	Config  recognitionConfig `json:"config"`
	Content string            `json:"content"`
}

type recognitionConfig struct {
	AutoDecodingConfig struct{}             `json:"autoDecodingConfig"`
	LanguageCodes      []string             `json:"languageCodes"`
	Model              string               `json:"model"`
	Features           *recognitionFeatures `json:"features,omitempty"`
}

type recognitionFeatures struct {
	EnableAutomaticPunctuation bool `json:"enableAutomaticPunctuation"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// transcript joins the top alternative of every result.
func (r *recognizeResponse) transcript() string {
	var parts []string
	for _, result := range r.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Recognize transcribes the given audio and returns the recognized text.
//
// The audio encoding is detected by the service. If language is empty, DefaultLanguage is used.
// Recognize returns ErrEmptyTranscript if the service recognized no speech.
func (c *Client) Recognize(ctx context.Context, audio []byte, language string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio data must not be empty")
	}
	if c.projectID == "" {
		return "", errors.New("project ID not configured")
	}
	if language == "" {
		language = DefaultLanguage
	}

	opts, err := c.authOptions(ctx)
	if err != nil {
		return "", err
	}

	req := &internal.Request{
		Method: http.MethodPost,
		URL: fmt.Sprintf("%s/projects/%s/locations/%s/recognizers/_:recognize",
			c.endpoint, c.projectID, c.location),
		Body: internal.NewJSONEntity(&recognizeRequest{
			Config: recognitionConfig{
				LanguageCodes: []string{language},
				Model:         c.model,
				Features:      &recognitionFeatures{EnableAutomaticPunctuation: true},
			},
			Content: base64.StdEncoding.EncodeToString(audio),
		}),
		Opts: opts,
	}

	var result recognizeResponse
	if _, err := c.client.DoAndUnmarshal(ctx, req, &result); err != nil {
		return "", err
	}

	transcript := result.transcript()
	if transcript == "" {
		return "", ErrEmptyTranscript
	}
	return transcript, nil
}

// authOptions returns the request options that authenticate a single call. Service account
// callers get a freshly exchanged bearer token.
func (c *Client) authOptions(ctx context.Context) ([]internal.HTTPOption, error) {
	if c.authMethod == AuthMethodServiceAccount {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		return []internal.HTTPOption{internal.WithHeader("Authorization", "Bearer "+token)}, nil
	}

	if c.apiKey == "" {
		return nil, errors.New("API key not configured")
	}
	return []internal.HTTPOption{internal.WithQueryParam("key", c.apiKey)}, nil
}

// TestConnection checks that the client is configured well enough to make requests. For service
// account clients it performs a complete token exchange.
func (c *Client) TestConnection(ctx context.Context) error {
	if c.authMethod == AuthMethodAPIKey && c.apiKey == "" {
		return errors.New("API key not configured")
	}
	if c.projectID == "" {
		return errors.New("project ID not configured")
	}
	if c.authMethod == AuthMethodServiceAccount {
		if _, err := c.tokens.AccessToken(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Models returns the names of the recognition models supported by the client.
func (c *Client) Models() []string {
	models := make([]string, len(supportedModels))
	copy(models, supportedModels)
	return models
}

// ProviderName returns a human-readable name of the speech provider.
func (c *Client) ProviderName() string {
	return providerName
}

func handleSpeechError(resp *internal.Response) error {
	err := internal.NewPlatformErrorOnePlatform(resp)
	var pe *internal.PlatformError
	if errors.As(err, &pe) {
		pe.String = fmt.Sprintf("Google Cloud STT API error (%d): %s", resp.Status, pe.String)
	}
	return err
}
