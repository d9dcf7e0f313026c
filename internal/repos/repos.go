package repos

import "errors"

// ErrVersionConflict is returned by version-checked saves when the row's
// stored version no longer matches the version that was read. The caller
// must re-read and re-apply its mutation.
var ErrVersionConflict = errors.New("aggregate version conflict")
