// Copyright 2026 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snippets

// [START gspeech_import_golang]
import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/voxline/gspeech"
	"google.golang.org/api/option"
)

// [END gspeech_import_golang]

func initializeAppWithServiceAccount() *gspeech.App {
	// [START initialize_app_service_account_golang]
	config := &gspeech.Config{
		ServiceAccountFile: "path/to/serviceAccountKey.json",
	}
	app, err := gspeech.NewApp(context.Background(), config)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}
	// [END initialize_app_service_account_golang]

	return app
}

func initializeAppWithAPIKey() *gspeech.App {
	// [START initialize_app_api_key_golang]
	config := &gspeech.Config{
		ProjectID: "my-project-id",
		APIKey:    "my-api-key",
		Model:     "chirp_2",
		Location:  "us-central1",
	}
	app, err := gspeech.NewApp(context.Background(), config)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}
	// [END initialize_app_api_key_golang]

	return app
}

func initializeAppDefault() *gspeech.App {
	// [START initialize_app_default_golang]
	// Settings are read from the JSON file named by the GSPEECH_CONFIG environment variable.
	app, err := gspeech.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}
	// [END initialize_app_default_golang]

	return app
}

func initializeAppWithHTTPClient() *gspeech.App {
	// [START initialize_app_http_client_golang]
	hc := &http.Client{Timeout: 30 * time.Second}
	config := &gspeech.Config{
		ServiceAccountFile: "path/to/serviceAccountKey.json",
	}
	app, err := gspeech.NewApp(context.Background(), config, option.WithHTTPClient(hc))
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}
	// [END initialize_app_http_client_golang]

	return app
}
