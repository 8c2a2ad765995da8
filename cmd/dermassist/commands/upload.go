// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/dermassist/dermassist/cmd/dermassist/cli"
	"github.com/dermassist/dermassist/lib/resultcache"
	"github.com/dermassist/dermassist/lib/upload"
)

func uploadCommand() *cli.Command {
	var options commonOptions
	var noCache bool

	return &cli.Command{
		Name:    "upload",
		Summary: "submit a skin image for analysis",
		Description: "Upload a JPG, JPEG, or PNG image and print the analysis result:\n" +
			"dermatoscopic features and a ranked classification. Results are\n" +
			"cached locally by image content, so re-uploading an unchanged file\n" +
			"replays the stored result without contacting the server.",
		Usage: "dermassist upload <image>",
		Examples: []cli.Example{
			{Description: "analyze an image", Command: "dermassist upload lesion.jpg"},
			{Description: "force a fresh analysis", Command: "dermassist upload --no-cache lesion.jpg"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			options.register(flags)
			flags.BoolVar(&noCache, "no-cache", false, "skip the local result cache and re-analyze")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one image path")
			}
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}
			record, err := env.requireSession()
			if err != nil {
				return err
			}

			imagePath := args[0]
			image, err := os.ReadFile(imagePath)
			if err != nil {
				return cli.Validation("reading image: %v", err)
			}
			filename := filepath.Base(imagePath)

			// The controller enforces the selection rules (format,
			// authentication) the interactive flow uses.
			uploads := upload.NewController()
			if err := uploads.Select(filename, image); err != nil {
				if errors.Is(err, upload.ErrUnsupportedFormat) {
					return cli.Validation("%s: unsupported format (accepted: JPG, JPEG, PNG)", filename)
				}
				return cli.Validation("%v", err)
			}

			var cache *resultcache.Cache
			if !noCache {
				cache, err = resultcache.Open(env.config.Paths.ResultCache)
				if err != nil {
					env.logger.Warn("result cache unavailable", "error", err)
					cache = nil
				}
			}
			if cache != nil {
				if cached, ok := cache.Get(image); ok {
					if options.jsonOutput {
						return cli.PrintJSON(cached)
					}
					fmt.Fprintf(os.Stdout, "Cached result for %s (use --no-cache to re-analyze)\n\n", filename)
					printAnalysis(os.Stdout, cached)
					return nil
				}
			}

			attemptID, err := uploads.Begin(record)
			if err != nil {
				return cli.Internal("%v", err)
			}

			apiSession, err := env.client.SessionFromToken(record.Token)
			if err != nil {
				return cli.Internal("%v", err)
			}
			defer apiSession.Close()

			result, err := apiSession.UploadImage(context.Background(), filename, image)
			uploads.Complete(attemptID, result, err)
			if err != nil {
				return categorize(err)
			}

			if cache != nil {
				if err := cache.Put(image, result); err != nil {
					env.logger.Warn("caching result failed", "error", err)
				}
			}

			if options.jsonOutput {
				return cli.PrintJSON(result)
			}
			printAnalysis(os.Stdout, result)
			return nil
		},
	}
}
