package contentstore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFormat reports a file suffix that maps to no content format.
	ErrUnknownFormat = errors.New("unknown content format")
	// ErrDestinationExists reports a flush target that is already on disk.
	ErrDestinationExists = errors.New("destination already exists")
)

// Format is the physical kind of a blob. Each format has its own directory
// below an identity directory.
type Format int

const (
	FormatXML Format = iota
	FormatText
	FormatMVD
	FormatJSON
)

var formatDirs = [...]string{
	FormatXML:  "XML",
	FormatText: "TEXT",
	FormatMVD:  "MVD",
	FormatJSON: "JSON",
}

// String returns the directory name of the format.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatDirs) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatDirs[f]
}

// FormatForSuffix maps a file suffix such as ".xml" to its format.
func FormatForSuffix(suffix string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(suffix, ".")) {
	case "xml":
		return FormatXML, nil
	case "txt":
		return FormatText, nil
	case "mvd":
		return FormatMVD, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, suffix)
	}
}

// ParseFormat maps a format directory name back to its format.
func ParseFormat(dir string) (Format, bool) {
	for f, name := range formatDirs {
		if name == dir {
			return Format(f), true
		}
	}
	return 0, false
}
