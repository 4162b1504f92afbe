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

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/voxline/gspeech"
	"github.com/voxline/gspeech/errorutils"
	"github.com/voxline/gspeech/speech"
)

func transcribeFile(ctx context.Context, app *gspeech.App) string {
	// [START transcribe_file_golang]
	client, err := app.Speech(ctx)
	if err != nil {
		log.Fatalf("error getting Speech client: %v\n", err)
	}

	audio, err := os.ReadFile("path/to/recording.wav")
	if err != nil {
		log.Fatalf("error reading audio: %v\n", err)
	}

	transcript, err := client.Recognize(ctx, audio, "en-US")
	if err != nil {
		log.Fatalf("error transcribing audio: %v\n", err)
	}
	log.Printf("Transcript: %s\n", transcript)
	// [END transcribe_file_golang]

	return transcript
}

func transcribeWithErrorHandling(ctx context.Context, client *speech.Client, audio []byte) {
	// [START transcribe_error_handling_golang]
	transcript, err := client.Recognize(ctx, audio, "")
	switch {
	case err == nil:
		log.Printf("Transcript: %s\n", transcript)
	case errors.Is(err, speech.ErrEmptyTranscript):
		log.Println("No speech detected")
	case errorutils.IsUnauthenticated(err), errorutils.IsPermissionDenied(err):
		log.Printf("Check the credentials and API enablement: %v\n", err)
	case errorutils.IsResourceExhausted(err):
		log.Printf("Quota exceeded, try again later: %v\n", err)
	default:
		if resp := errorutils.HTTPResponse(err); resp != nil {
			log.Printf("Unexpected HTTP status %d: %v\n", resp.StatusCode, err)
		} else {
			log.Printf("Transcription failed: %v\n", err)
		}
	}
	// [END transcribe_error_handling_golang]
}

func testConnection(ctx context.Context, app *gspeech.App) {
	// [START test_connection_golang]
	client, err := app.Speech(ctx)
	if err != nil {
		log.Fatalf("error getting Speech client: %v\n", err)
	}
	if err := client.TestConnection(ctx); err != nil {
		log.Fatalf("%s is not reachable: %v\n", client.ProviderName(), err)
	}
	log.Printf("Available models: %v\n", client.Models())
	// [END test_connection_golang]
}
