package verbatim

import "errors"

// ErrMalformedDocument means the input bytes are not a readable .docx
// package: either the ZIP container or word/document.xml does not parse.
// Retrying the same bytes fails identically, so callers should reject the
// upload rather than retry.
var ErrMalformedDocument = errors.New("malformed docx package")

// ErrUnsupportedFormat means the package opened but the main document part
// (word/document.xml) is absent — e.g. an .odt or a renamed ZIP.
var ErrUnsupportedFormat = errors.New("unsupported document format")
