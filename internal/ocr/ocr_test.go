package ocr

import (
	"reflect"
	"testing"
)

func TestDetectSource(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"5 stars on GoodReads!", "GoodReads"},
		{"Verified Purchase - amazon.com", "Amazon"},
		{"shared on LinkedIn yesterday", "LinkedIn"},
		{"via twitter", "X"},
		{"seen on x.com today", "X"},
		{"a plain review with no platform", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := DetectSource(tc.text); got != tc.want {
			t.Errorf("DetectSource(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDetectBooks(t *testing.T) {
	books := []BookMatcher{
		{Title: "AI Engineering", ShortName: "AIE"},
		{Title: "Designing Machine Learning Systems", ShortName: "DMLS"},
	}

	cases := []struct {
		text string
		want []string
	}{
		{"Just finished AI Engineering, highly recommend", []string{"AIE"}},
		{"the aie book changed how I work", []string{"AIE"}},
		{"designing machine learning systems is a classic", []string{"DMLS"}},
		{"read both AIE and DMLS this year", []string{"AIE", "DMLS"}},
		{"a review about some other book", nil},
	}

	for _, tc := range cases {
		if got := DetectBooks(tc.text, books); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("DetectBooks(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestNoopExtractor(t *testing.T) {
	var e NoopExtractor
	if got := e.ExtractText("anything.png"); got != "" {
		t.Errorf("noop should return empty, got %q", got)
	}
}

func TestTesseractExtractorMissingBinary(t *testing.T) {
	e := &TesseractExtractor{Binary: "definitely-not-a-real-binary"}
	if got := e.ExtractText("whatever.png"); got != "" {
		t.Errorf("missing binary should yield empty text, got %q", got)
	}
}
