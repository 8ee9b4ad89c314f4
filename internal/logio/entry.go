// Package logio implements the append-only, line-oriented log file format
// shared by new-entries and stored-entries: entry (de)serialization,
// append, atomic rewrite-via-temp-file, and hidden/version-aware recursive
// directory listing.
package logio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

// dateTimeLayout matches strftime("%Y-%m-%dT%H:%M:%S") in UTC — no
// fractional seconds, no timezone suffix (§6.2). ISO-8601 ensures
// lexicographic order equals chronological order (§4.4.2 step 6).
const dateTimeLayout = "2006-01-02T15:04:05"

// Entry is a single timestamped key/value assignment (§3.1).
type Entry struct {
	DateTime string
	Key      jsonvalue.Value
	Value    jsonvalue.Value
}

// NowDateTime returns the current UTC wall clock at second resolution,
// formatted per §6.2. Entries are timestamped with this at creation time
// (§3.4 "Entry" lifecycle).
func NowDateTime() string {
	return time.Now().UTC().Format(dateTimeLayout)
}

// MarshalLine serializes e as the three-element JSON array line format
// from §6.2: [datetime, key, value], UTF-8, terminated by '\n'.
func (e Entry) MarshalLine() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('[')

	dt, err := json.Marshal(e.DateTime)
	if err != nil {
		return nil, fmt.Errorf("logio: marshaling datetime: %w", err)
	}

	buf.Write(dt)
	buf.WriteByte(',')

	kb, err := e.Key.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("logio: marshaling key: %w", err)
	}

	buf.Write(kb)
	buf.WriteByte(',')

	vb, err := e.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("logio: marshaling value: %w", err)
	}

	buf.Write(vb)
	buf.WriteByte(']')
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// ParseLine parses a single entry line. Per §4.3, a line that is not a
// 3-element JSON array, or whose position 0 is not a string, is invalid —
// the caller is expected to skip it and log a warning, never treat it as
// fatal.
func ParseLine(line []byte) (Entry, error) {
	var raw []json.RawMessage

	if err := json.Unmarshal(line, &raw); err != nil {
		return Entry{}, fmt.Errorf("logio: line is not a JSON array: %w", err)
	}

	const entryArity = 3
	if len(raw) != entryArity {
		return Entry{}, fmt.Errorf("logio: expected a 3-element array, got %d elements", len(raw))
	}

	var dt string
	if err := json.Unmarshal(raw[0], &dt); err != nil {
		return Entry{}, fmt.Errorf("logio: position 0 is not a string: %w", err)
	}

	var key, val jsonvalue.Value
	if err := key.UnmarshalJSON(raw[1]); err != nil {
		return Entry{}, fmt.Errorf("logio: decoding key: %w", err)
	}

	if err := val.UnmarshalJSON(raw[2]); err != nil {
		return Entry{}, fmt.Errorf("logio: decoding value: %w", err)
	}

	return Entry{DateTime: dt, Key: key, Value: val}, nil
}
