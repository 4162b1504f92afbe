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

// Command gspeech-token prints an OAuth2 access token for a service account.
//
// Usage:
//
//	gspeech-token -credentials service_account.json [-scope SCOPE] [-assertion] [-v]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voxline/gspeech"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		logrus.WithError(err).Fatal("gspeech-token failed")
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gspeech-token", flag.ContinueOnError)
	credsFile := fs.String("credentials", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"), "path to a service account key file")
	scope := fs.String("scope", "", "space-separated OAuth2 scopes (default cloud-platform)")
	assertionOnly := fs.Bool("assertion", false, "print the signed JWT assertion instead of exchanging it")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if *credsFile == "" {
		return fmt.Errorf("no service account key file given; set -credentials or GOOGLE_APPLICATION_CREDENTIALS")
	}

	app, err := gspeech.NewApp(ctx, &gspeech.Config{
		ServiceAccountFile: *credsFile,
		AuthMethod:         "service_account",
		Scopes:             strings.Fields(*scope),
	})
	if err != nil {
		return err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return err
	}
	log := logrus.WithFields(logrus.Fields{
		"run":         uuid.NewString(),
		"credentials": *credsFile,
		"project":     app.ProjectID(),
	})

	if *assertionOnly {
		assertion, err := client.SignedAssertion(ctx)
		if err != nil {
			return err
		}
		log.Debug("signed assertion")
		fmt.Fprintln(out, assertion)
		return nil
	}

	token, err := client.Token(ctx)
	if err != nil {
		return err
	}
	log.WithField("expiry", token.Expiry).Debug("access token issued")
	fmt.Fprintln(out, token.AccessToken)
	return nil
}
