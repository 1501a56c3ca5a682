package detector

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is returned for a missing or empty image and for
	// thresholds outside their range.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCollaborator matches every *CollaboratorError.
	ErrCollaborator = errors.New("collaborator failure")
)

// Pipeline stages. Propose and classify call out to injected collaborators.
const (
	StagePropose  = "propose"
	StageClassify = "classify"
	StageSuppress = "suppress"
)

// CollaboratorError reports a failure of the proposer or the classifier.
type CollaboratorError struct {
	Stage string
	Err   error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCollaborator, e.Stage, e.Err)
}

// Unwrap returns the collaborator's own error.
func (e *CollaboratorError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCollaborator) hold.
func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }
