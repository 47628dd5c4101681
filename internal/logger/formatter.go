package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Line marks understood by operational tooling.
const (
	MarkInfo    = "[.]"
	MarkError   = "[!]"
	MarkSuccess = "[+]"
)

const lineTimeFormat = "2006-01-02 15:04:05"

// LineWriter wraps an io.Writer and converts zerolog JSON output into one
// plain line per event:
//
//	2026-10-14 08:00:00 [.] Starting work pid=4312
//	2026-10-14 08:00:03 [!] CreateService failed code=1073
//	2026-10-14 08:00:03 [+] Service installed
//
// Every event is written with a single Write call on the wrapped writer.
type LineWriter struct {
	w io.Writer
}

// NewLineWriter creates a LineWriter that wraps the given writer.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

var levelMarks = map[string]string{
	"trace": MarkInfo,
	"debug": MarkInfo,
	"info":  MarkInfo,
	"warn":  MarkError,
	"error": MarkError,
	"fatal": MarkError,
	"panic": MarkError,
}

func (f *LineWriter) Write(p []byte) (int, error) {
	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		// Not valid JSON, pass through as-is
		return f.w.Write(p)
	}

	timestamp := extractString(fields, "time")
	level := extractString(fields, "level")
	message := extractString(fields, "message")
	mark := extractString(fields, markField)

	delete(fields, "time")
	delete(fields, "level")
	delete(fields, "message")
	delete(fields, markField)
	delete(fields, "component")
	delete(fields, "caller")

	if mark == "" {
		mark = levelMarks[level]
	}
	if mark == "" {
		mark = MarkInfo
	}

	line := formatTimestamp(timestamp) + " " + mark + " " + message
	if extra := formatExtra(fields); extra != "" {
		line += " " + extra
	}
	line += "\n"

	_, err := f.w.Write([]byte(line))
	// Return original length to satisfy zerolog's expectation
	return len(p), err
}

func extractString(fields map[string]interface{}, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}

// formatTimestamp renders an RFC3339 timestamp as "2006-01-02 15:04:05" in UTC.
// Missing or unparsable timestamps fall back to the current time.
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t = time.Now()
	}
	return t.UTC().Format(lineTimeFormat)
}

// formatExtra builds a "key=value key2=value2" string from remaining fields.
func formatExtra(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		s := fmt.Sprintf("%v", fields[k])
		if strings.ContainsAny(s, " \t\n\"") {
			parts = append(parts, fmt.Sprintf("%s=%q", k, s))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", k, s))
		}
	}

	return strings.Join(parts, " ")
}
