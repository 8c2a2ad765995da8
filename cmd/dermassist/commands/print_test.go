// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"strings"
	"testing"

	"github.com/dermassist/dermassist/portal"
)

func TestPrintAnalysis_IndependentSections(t *testing.T) {
	t.Run("features only", func(t *testing.T) {
		var output strings.Builder
		printAnalysis(&output, &portal.AnalysisResult{
			Features: &portal.FeatureSet{Asymmetry: 2, PigmentNetwork: portal.FeatureAtypical, Black: true},
		})
		text := output.String()
		if !strings.Contains(text, "2 of 2 axes") || !strings.Contains(text, "atypical") {
			t.Errorf("features missing from:\n%s", text)
		}
		if strings.Contains(text, "Classification") {
			t.Errorf("classification section rendered without data:\n%s", text)
		}
	})

	t.Run("classification only", func(t *testing.T) {
		var output strings.Builder
		printAnalysis(&output, &portal.AnalysisResult{
			Classification: &portal.Classification{
				Success:         true,
				ConfidenceLevel: portal.ConfidenceHigh,
				Entries: []portal.ClassificationEntry{
					{Rank: 1, ClassName: "Melanocytic nevus", ClassCode: "nv", ConfidencePercent: 87.2},
				},
			},
		})
		text := output.String()
		if !strings.Contains(text, "HIGH") || !strings.Contains(text, "Melanocytic nevus") {
			t.Errorf("classification missing from:\n%s", text)
		}
	})

	t.Run("neither falls back to message", func(t *testing.T) {
		var output strings.Builder
		printAnalysis(&output, &portal.AnalysisResult{Message: "Image stored without analysis"})
		if !strings.Contains(output.String(), "Image stored without analysis") {
			t.Errorf("message not printed:\n%s", output.String())
		}
	})
}

func TestFeatureText(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{portal.FeatureTypical, "typical"},
		{portal.FeatureAtypical, "atypical"},
		{portal.FeaturePresent, "present"},
		{portal.FeatureAbsent, "absent"},
		{"??", "??"},
	}
	for _, test := range tests {
		if got := featureText(test.code); got != test.want {
			t.Errorf("featureText(%q) = %q, want %q", test.code, got, test.want)
		}
	}
}

func TestColorList(t *testing.T) {
	all := &portal.FeatureSet{White: true, Red: true, LightBrown: true, DarkBrown: true, BlueGray: true, Black: true}
	if got := colorList(all); got != "white, red, light brown, dark brown, blue-gray, black" {
		t.Errorf("colorList(all) = %q", got)
	}
	if got := colorList(&portal.FeatureSet{}); got != "none detected" {
		t.Errorf("colorList(none) = %q", got)
	}
}

func TestTopClassSummary(t *testing.T) {
	classified := &portal.Classification{
		Success: true,
		Entries: []portal.ClassificationEntry{
			{Rank: 1, ClassName: "Melanoma", ConfidencePercent: 41.0},
			{Rank: 2, ClassName: "Benign keratosis", ConfidencePercent: 39.5},
		},
	}
	if got := topClassSummary(classified); got != "Melanoma 41.0%" {
		t.Errorf("topClassSummary = %q", got)
	}
	if got := topClassSummary(nil); got != "-" {
		t.Errorf("topClassSummary(nil) = %q", got)
	}
	if got := topClassSummary(&portal.Classification{Success: false}); got != "-" {
		t.Errorf("topClassSummary(unsuccessful) = %q", got)
	}
}
