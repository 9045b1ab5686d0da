package usecase

import (
	"errors"
	"strings"

	"github.com/bnema/pipewin/internal/domain/entity"
)

// Command pipeline errors. Each one fails a single command; none of them stops the listener.
var (
	ErrSpawnFailed       = errors.New("helper spawn failed")
	ErrHelperTimeout     = errors.New("helper timed out")
	ErrHelperReported    = errors.New("helper reported an error")
	ErrMalformedResponse = errors.New("malformed helper response")
	ErrEncoding          = errors.New("invalid UTF-8")
	ErrWindowCreation    = errors.New("window creation failed")
	ErrDelivery          = errors.New("payload delivery failed")
)

// HelperReportedError carries the helper's stderr text.
type HelperReportedError struct {
	Text string
}

func (e *HelperReportedError) Error() string {
	return ErrHelperReported.Error() + ": " + strings.TrimSpace(e.Text)
}

func (e *HelperReportedError) Unwrap() error { return ErrHelperReported }

// OutcomeForError maps a pipeline error to the outcome stored in the journal.
func OutcomeForError(err error) entity.CommandOutcome {
	switch {
	case errors.Is(err, ErrHelperReported):
		return entity.OutcomeHelperReported
	case errors.Is(err, ErrMalformedResponse):
		return entity.OutcomeMalformed
	case errors.Is(err, ErrEncoding):
		return entity.OutcomeEncoding
	case errors.Is(err, ErrHelperTimeout):
		return entity.OutcomeTimeout
	case errors.Is(err, ErrSpawnFailed):
		return entity.OutcomeSpawnFailed
	case errors.Is(err, ErrWindowCreation):
		return entity.OutcomeCreationFailed
	case errors.Is(err, ErrDelivery):
		return entity.OutcomeDeliveryFailed
	default:
		return entity.OutcomeSpawnFailed
	}
}
