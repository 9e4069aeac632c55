package ocr

import (
	"context"
	"log"
	"os/exec"
	"strings"
	"time"
)

// Extractor pulls text out of an image to pre-fill the submission
// form. Best-effort only: implementations return "" on any failure and
// never block review creation.
type Extractor interface {
	ExtractText(path string) string
}

// TesseractExtractor shells out to the tesseract binary.
type TesseractExtractor struct {
	// Binary overrides the executable name, default "tesseract".
	Binary string
	// Timeout bounds a single invocation, default 30s.
	Timeout time.Duration
}

func (e *TesseractExtractor) ExtractText(path string) string {
	binary := e.Binary
	if binary == "" {
		binary = "tesseract"
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// "stdout" makes tesseract print the recognized text instead of
	// writing an output file
	out, err := exec.CommandContext(ctx, binary, path, "stdout").Output()
	if err != nil {
		log.Printf("ocr: extract %s: %v", path, err)
		return ""
	}
	return string(out)
}

// NoopExtractor disables OCR; the upload flow still stores the file.
type NoopExtractor struct{}

func (NoopExtractor) ExtractText(string) string { return "" }

// sourcePatterns maps lowercase text markers to a source label, in
// detection order.
var sourcePatterns = []struct {
	marker string
	label  string
}{
	{"goodreads", "GoodReads"},
	{"amazon", "Amazon"},
	{"linkedin", "LinkedIn"},
	{"twitter", "X"},
	{"x.com", "X"},
}

// DetectSource guesses which platform a screenshot came from.
// Returns "" when nothing matches.
func DetectSource(text string) string {
	lower := strings.ToLower(text)
	for _, p := range sourcePatterns {
		if strings.Contains(lower, p.marker) {
			return p.label
		}
	}
	return ""
}

// BookMatcher is the subset of book data OCR detection needs.
type BookMatcher struct {
	Title     string
	ShortName string
}

// DetectBooks returns the short names of all books whose title or
// short code appears in the text.
func DetectBooks(text string, books []BookMatcher) []string {
	lower := strings.ToLower(text)

	var detected []string
	for _, b := range books {
		if b.Title != "" && strings.Contains(lower, strings.ToLower(b.Title)) {
			detected = append(detected, b.ShortName)
			continue
		}
		if b.ShortName != "" && strings.Contains(lower, strings.ToLower(b.ShortName)) {
			detected = append(detected, b.ShortName)
		}
	}
	return detected
}
