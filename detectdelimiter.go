package dbsfigures

import (
	"bytes"
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// DetermineDelimiterBytes is DetermineDelimiter for content that is already
// in memory. A header line containing a tab, or failing that a comma, is
// trusted over the detector, and a detected delimiter that never appears in
// the header is discarded.
func DetermineDelimiterBytes(content []byte) rune {
	header := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		header = content[:i]
	}
	if bytes.IndexByte(header, '\t') >= 0 {
		return '\t'
	}
	if bytes.IndexByte(header, ',') >= 0 {
		return ','
	}

	delim := DetermineDelimiter(bytes.NewReader(content))
	if !bytes.ContainsRune(header, delim) {
		return ','
	}

	return delim
}
