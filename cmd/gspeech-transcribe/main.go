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

// Command gspeech-transcribe transcribes an audio file with Cloud Speech-to-Text.
//
// Settings not given on the command line are read from the JSON file named by the GSPEECH_CONFIG
// environment variable.
//
// Usage:
//
//	gspeech-transcribe [-project ID] [-credentials FILE | -api-key KEY] [-model M] [-language L] AUDIO
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voxline/gspeech"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		logrus.WithError(err).Fatal("gspeech-transcribe failed")
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gspeech-transcribe", flag.ContinueOnError)
	conf := &gspeech.Config{}
	fs.StringVar(&conf.ProjectID, "project", "", "Google Cloud project ID")
	fs.StringVar(&conf.Location, "location", "", "recognizer location (default global)")
	fs.StringVar(&conf.Model, "model", "", "recognition model (default chirp_3)")
	fs.StringVar(&conf.APIKey, "api-key", "", "API key")
	fs.StringVar(&conf.ServiceAccountFile, "credentials", "", "path to a service account key file")
	fs.StringVar(&conf.AuthMethod, "auth", "", "auth method: api_key or service_account")
	language := fs.String("language", "", "BCP-47 language code (default en-US)")
	check := fs.Bool("check", false, "only test the connection settings")
	timeout := fs.Duration("timeout", 2*time.Minute, "request timeout")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	app, err := gspeech.NewApp(ctx, conf)
	if err != nil {
		return err
	}
	client, err := app.Speech(ctx)
	if err != nil {
		return err
	}
	log := logrus.WithFields(logrus.Fields{
		"run":      uuid.NewString(),
		"provider": client.ProviderName(),
		"project":  app.ProjectID(),
	})

	if *check {
		if err := client.TestConnection(ctx); err != nil {
			return err
		}
		log.Info("connection settings are valid")
		fmt.Fprintln(out, "ok")
		return nil
	}

	if fs.NArg() != 1 {
		return errors.New("exactly one audio file must be given")
	}
	audio, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":  fs.Arg(0),
		"bytes": len(audio),
	}).Debug("sending audio")

	start := time.Now()
	transcript, err := client.Recognize(ctx, audio, *language)
	if err != nil {
		return err
	}
	log.WithField("elapsed", time.Since(start)).Debug("transcription complete")
	fmt.Fprintln(out, transcript)
	return nil
}
