package archive

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNoConvertibleMembers marks an archive that extracted cleanly but
// contained nothing the pipeline can convert.
var ErrNoConvertibleMembers = errors.New("archive contains no convertible media files")

// ExtractError reports a failed extraction, naming the archive so the
// user-facing message identifies which input failed.
type ExtractError struct {
	Archive string
	Kind    Kind
	Err     error
}

func (e *ExtractError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("cannot extract %s: %v", filepath.Base(e.Archive), e.Err)
	}
	return fmt.Sprintf("cannot extract %s (%s): %v", filepath.Base(e.Archive), e.Kind, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }
