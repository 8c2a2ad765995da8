// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dermassist/dermassist/cmd/dermassist/cli"
	"github.com/dermassist/dermassist/portal"
)

func historyCommand() *cli.Command {
	var options commonOptions

	return &cli.Command{
		Name:    "history",
		Summary: "list your uploaded images and their results",
		Usage:   "dermassist history [<image-id>]",
		Description: "Without arguments, lists every image you have uploaded. With an\n" +
			"image ID, prints that record's full analysis.",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("history", pflag.ContinueOnError)
			options.register(flags)
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 1 {
				return cli.Validation("expected at most one image ID")
			}
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}
			record, err := env.requireSession()
			if err != nil {
				return err
			}

			apiSession, err := env.client.SessionFromToken(record.Token)
			if err != nil {
				return cli.Internal("%v", err)
			}
			defer apiSession.Close()

			if len(args) == 1 {
				image, err := apiSession.ImageByID(context.Background(), args[0])
				if err != nil {
					return categorize(err)
				}
				if options.jsonOutput {
					return cli.PrintJSON(image)
				}
				printImageRecord(os.Stdout, image)
				return nil
			}

			images, err := apiSession.UserImages(context.Background())
			if err != nil {
				return categorize(err)
			}
			if options.jsonOutput {
				return cli.PrintJSON(images)
			}
			if len(images) == 0 {
				fmt.Fprintln(os.Stdout, "No uploads yet")
				return nil
			}
			for _, image := range images {
				fmt.Fprintf(os.Stdout, "%s  %-24s %-20s %s\n",
					image.ID, image.FileName, image.UploadedAt, topClassSummary(image.Result))
			}
			return nil
		},
	}
}

func printImageRecord(w *os.File, image *portal.ImageRecord) {
	fmt.Fprintf(w, "%s  uploaded %s\n\n", image.FileName, image.UploadedAt)
	printAnalysis(w, &portal.AnalysisResult{
		Features:       image.Features,
		Classification: image.Result,
	})
}

// topClassSummary renders the rank-1 diagnosis for the list view, or a
// placeholder when classification is absent.
func topClassSummary(classification *portal.Classification) string {
	if classification == nil || !classification.Success || len(classification.Entries) == 0 {
		return "-"
	}
	top := classification.Entries[0]
	return fmt.Sprintf("%s %.1f%%", top.ClassName, top.ConfidencePercent)
}
