package services

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/careercompass/compass-web/internal/models"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// ResumeExtractor turns an uploaded resume file into plain text.
type ResumeExtractor struct{}

func NewResumeExtractor() *ResumeExtractor {
	return &ResumeExtractor{}
}

// ExtractText picks a parser from the file extension, falling back to the content type.
func (re *ResumeExtractor) ExtractText(filename, contentType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch detectKind(filename, contentType) {
	case mimePDF:
		text, err = extractPDFText(data)
	case mimeDOCX:
		text, err = extractDocxText(data)
	case mimeText:
		if !utf8.Valid(data) {
			return "", &models.ValidationError{Field: "resume_file", Message: "text file is not valid UTF-8"}
		}
		text = string(data)
	default:
		return "", &models.ValidationError{
			Field:   "resume_file",
			Message: fmt.Sprintf("unsupported file type %q, upload a .pdf, .docx or .txt file", filepath.Ext(filename)),
		}
	}
	if err != nil {
		return "", &models.ValidationError{Field: "resume_file", Message: err.Error()}
	}

	text = CleanText(text)
	if text == "" {
		return "", &models.ValidationError{Field: "resume_file", Message: "no text content found in file"}
	}
	return text, nil
}

func detectKind(filename, contentType string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	case ".txt", ".md":
		return mimeText
	}

	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch ct {
	case mimePDF, mimeDOCX, mimeText:
		return ct
	}
	return ""
}

// extractPDFText reads the plain text of every page. The pdf package panics
// on some malformed files, so a panic is turned into an error.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}
	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripXMLTags(doc.Editable().GetContent()), nil
}

// stripXMLTags turns WordprocessingML into text, breaking lines at paragraph ends.
func stripXMLTags(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	var b strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}

// CleanText trims each line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
