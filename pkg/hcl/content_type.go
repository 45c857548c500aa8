package hcl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leowmjw/go-field-timeline/pkg/sequence"
)

const (
	// ContentTypeHCL is the custom MIME type for HCL configuration
	ContentTypeHCL = "application/vnd.hcl"

	// ContentTypeJSON is the standard MIME type for JSON
	ContentTypeJSON = "application/json"

	// ContentTypeYAML is the MIME type for YAML descriptions
	ContentTypeYAML = "application/yaml"
)

// yamlKeyLine matches a top level "key:" mapping entry
var yamlKeyLine = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*:(\s|$)`)

// DetectContentType determines if the request body is JSON, HCL or YAML based
// on the Content-Type header and content inspection
func DetectContentType(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			if mediaType == ContentTypeHCL {
				return ContentTypeHCL, nil
			}
			if mediaType == ContentTypeJSON {
				return ContentTypeJSON, nil
			}
			if mediaType == ContentTypeYAML || mediaType == "application/x-yaml" || mediaType == "text/yaml" {
				return ContentTypeYAML, nil
			}
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read request body: %w", err)
	}

	// Reset the body so it can be read again later
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	return DetectFormat("", body), nil
}

// DetectFormat determines the description format from the file extension
// first and content inspection otherwise
func DetectFormat(filename string, content []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return ContentTypeJSON
	case ".hcl", ".tf":
		return ContentTypeHCL
	case ".yaml", ".yml":
		return ContentTypeYAML
	}

	trimmed := bytes.TrimSpace(content)

	// Simple heuristic: JSON starts with { or [, HCL typically doesn't
	if len(trimmed) > 0 {
		if trimmed[0] == '{' || trimmed[0] == '[' {
			return ContentTypeJSON
		}
		if IsHCL(trimmed) {
			return ContentTypeHCL
		}
		if looksLikeYAML(trimmed) {
			return ContentTypeYAML
		}
	}

	// Default to JSON if we can't determine
	return ContentTypeJSON
}

func looksLikeYAML(content []byte) bool {
	if bytes.HasPrefix(content, []byte("---")) {
		return true
	}
	line, _, _ := bytes.Cut(content, []byte("\n"))
	return yamlKeyLine.Match(bytes.TrimRight(line, "\r"))
}

// ParseDescription decodes a description in whichever format DetectFormat picks.
func ParseDescription(filename string, content []byte) (*sequence.Description, error) {
	return DecodeDescription(DetectFormat(filename, content), content)
}

// DecodeDescription decodes content of a known format.
func DecodeDescription(format string, content []byte) (*sequence.Description, error) {
	var desc sequence.Description
	switch format {
	case ContentTypeHCL:
		return ParseHCLSequence(string(content))
	case ContentTypeYAML:
		if err := yaml.Unmarshal(content, &desc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML description: %w", err)
		}
	default:
		if err := json.Unmarshal(content, &desc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON description: %w", err)
		}
	}
	return &desc, nil
}

// IsHCLBasedOnExtension checks if the filename has an HCL extension
func IsHCLBasedOnExtension(filename string) bool {
	return strings.HasSuffix(filename, ".hcl") ||
		strings.HasSuffix(filename, ".tf") ||
		strings.HasSuffix(filename, ".tfvars")
}
