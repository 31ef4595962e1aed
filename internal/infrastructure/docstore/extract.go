package docstore

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var errNoText = errors.New("no extractable text")

// extractText performs best-effort extraction per format. Plain text is
// exact; the binary formats use lightweight heuristics good enough for
// keyword matching and prompt context, not faithful rendering.
func extractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".doc":
		return extractDOC(path)
	case ".rtf":
		return extractRTF(path)
	default:
		return "", fmt.Errorf("unsupported extension %q", filepath.Ext(path))
	}
}

// pdfLiteral matches string literals inside PDF content streams. Crude, but
// it recovers enough text from uncompressed PDFs for relevance scoring.
var pdfLiteral = regexp.MustCompile(`\(([^()\\]{5,})\)`)

func extractPDF(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, m := range pdfLiteral.FindAllStringSubmatch(string(raw), -1) {
		if isMostlyPrintable(m[1]) {
			parts = append(parts, m[1])
		}
	}
	if len(parts) == 0 {
		return "", errNoText
	}
	return strings.Join(parts, "\n"), nil
}

// extractDOCX unzips word/document.xml and collects character data, which
// yields the paragraph text without any styling.
func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		var parts []string
		dec := xml.NewDecoder(rc)
		for {
			tok, err := dec.Token()
			if err != nil {
				break
			}
			if cd, ok := tok.(xml.CharData); ok {
				if t := strings.TrimSpace(string(cd)); t != "" {
					parts = append(parts, t)
				}
			}
		}
		if len(parts) == 0 {
			return "", errNoText
		}
		return strings.Join(parts, "\n"), nil
	}
	return "", errNoText
}

var docReadable = regexp.MustCompile(`[a-zA-Z0-9 .,;:!?'-]{15,}`)

func extractDOC(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	runs := docReadable.FindAllString(string(raw), 50)
	var parts []string
	for _, r := range runs {
		if t := strings.TrimSpace(r); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", errNoText
	}
	return strings.Join(parts, "\n"), nil
}

var (
	rtfControl  = regexp.MustCompile(`\\\*?[a-zA-Z]+-?\d*\s?`)
	rtfBraces   = regexp.MustCompile(`[{}]`)
	rtfHexBytes = regexp.MustCompile(`\\'[0-9a-fA-F]{2}`)
)

func extractRTF(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	text := rtfHexBytes.ReplaceAllString(string(raw), " ")
	text = rtfControl.ReplaceAllString(text, "")
	text = rtfBraces.ReplaceAllString(text, "")

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return "", errNoText
	}
	return strings.Join(lines, "\n"), nil
}

func isMostlyPrintable(s string) bool {
	printable := 0
	for _, r := range s {
		if r >= 32 && r < 127 {
			printable++
		}
	}
	return printable*10 >= len(s)*9
}
