package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/domain/entity"
)

type helperResponse struct {
	Config *struct {
		ID *string `json:"id"`
	} `json:"config"`
	URL json.RawMessage `json:"url"`
}

// ParseHelperResponse turns a helper result into a window directive.
//
// Any stderr output wins over stdout and yields a *HelperReportedError.
// Otherwise stdout must be a JSON object carrying a non-empty config.id; the
// optional url is used only when it is a string. The directive payload is the
// untouched stdout text.
func ParseHelperResponse(result port.HelperResult) (entity.WindowDirective, error) {
	if len(result.Stderr) > 0 {
		text := string(result.Stderr)
		if !utf8.ValidString(text) {
			text = string(bytes.ToValidUTF8(result.Stderr, []byte("\uFFFD")))
		}
		return entity.WindowDirective{}, &HelperReportedError{Text: text}
	}

	if !utf8.Valid(result.Stdout) {
		return entity.WindowDirective{}, fmt.Errorf("%w: helper stdout", ErrEncoding)
	}

	trimmed := bytes.TrimSpace(result.Stdout)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return entity.WindowDirective{}, fmt.Errorf("%w: stdout is not a JSON object", ErrMalformedResponse)
	}

	var resp helperResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return entity.WindowDirective{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if resp.Config == nil || resp.Config.ID == nil || *resp.Config.ID == "" {
		return entity.WindowDirective{}, fmt.Errorf("%w: missing config.id", ErrMalformedResponse)
	}

	directive := entity.WindowDirective{
		WindowID: entity.WindowID(*resp.Config.ID),
		Payload:  string(result.Stdout),
	}
	var target string
	if len(resp.URL) > 0 && json.Unmarshal(resp.URL, &target) == nil {
		directive.NavigationTarget = target
	}
	return directive, nil
}
