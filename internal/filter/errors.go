package filter

import "errors"

// ErrUnknownFilterType is returned by Encode when asked to encode a Filter
// whose Type field isn't one of the constants defined in this package.
var ErrUnknownFilterType = errors.New("filter: unknown filter type")
