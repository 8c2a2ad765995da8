// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dermassist/dermassist/portal"
)

// printAnalysis writes a plain-text rendering of an analysis result.
// Features and classification are independently optional; absence of
// one never suppresses the other.
func printAnalysis(w io.Writer, result *portal.AnalysisResult) {
	if result == nil {
		return
	}
	if result.Features != nil {
		printFeatures(w, result.Features)
	}
	if result.Classification != nil {
		if result.Features != nil {
			fmt.Fprintln(w)
		}
		printClassification(w, result.Classification)
	}
	if result.Features == nil && result.Classification == nil {
		message := result.Message
		if message == "" {
			message = "The server returned no analysis for this image."
		}
		fmt.Fprintln(w, message)
	}
}

// featureText maps a feature code to its display word.
func featureText(code string) string {
	switch code {
	case portal.FeatureTypical:
		return "typical"
	case portal.FeatureAtypical:
		return "atypical"
	case portal.FeaturePresent:
		return "present"
	case portal.FeatureAbsent:
		return "absent"
	}
	return code
}

func printFeatures(w io.Writer, features *portal.FeatureSet) {
	fmt.Fprintln(w, "Dermatoscopic features")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Asymmetry\t%d of 2 axes\n", features.Asymmetry)
	fmt.Fprintf(tw, "  Pigment network\t%s\n", featureText(features.PigmentNetwork))
	fmt.Fprintf(tw, "  Dots and globules\t%s\n", featureText(features.DotsGlobules))
	fmt.Fprintf(tw, "  Streaks\t%s\n", featureText(features.Streaks))
	fmt.Fprintf(tw, "  Regression areas\t%s\n", featureText(features.RegressionAreas))
	fmt.Fprintf(tw, "  Blue-whitish veil\t%s\n", featureText(features.BlueWhitishVeil))
	fmt.Fprintf(tw, "  Colors\t%s\n", colorList(features))
	tw.Flush()
}

func colorList(features *portal.FeatureSet) string {
	var colors []string
	if features.White {
		colors = append(colors, "white")
	}
	if features.Red {
		colors = append(colors, "red")
	}
	if features.LightBrown {
		colors = append(colors, "light brown")
	}
	if features.DarkBrown {
		colors = append(colors, "dark brown")
	}
	if features.BlueGray {
		colors = append(colors, "blue-gray")
	}
	if features.Black {
		colors = append(colors, "black")
	}
	if len(colors) == 0 {
		return "none detected"
	}
	return strings.Join(colors, ", ")
}

func printClassification(w io.Writer, classification *portal.Classification) {
	fmt.Fprintln(w, "Classification")
	if !classification.Success {
		fmt.Fprintln(w, "  Classification unavailable for this image.")
		return
	}
	fmt.Fprintf(w, "  Confidence: %s\n", strings.ToUpper(string(classification.ConfidenceLevel)))
	// Entries arrive ranked; print them in received order.
	for _, entry := range classification.Entries {
		fmt.Fprintf(w, "  %d. %-30s %-6s %5.1f%%\n",
			entry.Rank, entry.ClassName, entry.ClassCode, entry.ConfidencePercent)
	}
	if classification.GradCAM != nil && classification.GradCAM.Success {
		fmt.Fprintln(w, "  Grad-CAM explanation available (original + heatmap overlay).")
	}
	if classification.Recommendation != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recommendation")
		fmt.Fprintln(w, indentText(classification.Recommendation, "  "))
	}
	if classification.Disclaimer != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, indentText(classification.Disclaimer, "  "))
	}
}

func indentText(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
