package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLineWriter_BasicMessage(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(&buf)

	input := map[string]interface{}{
		"level":     "info",
		"time":      "2026-02-26T12:00:00Z",
		"component": "lifecycle",
		"message":   "Starting work",
		"pid":       4312,
	}
	data, _ := json.Marshal(input)

	n, err := w.Write(data)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if n != len(data) {
		t.Errorf("Write returned %d, want %d", n, len(data))
	}

	want := "2026-02-26 12:00:00 [.] Starting work pid=4312\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLineWriter_ErrorLevelUsesErrorMark(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(&buf)

	input := map[string]interface{}{
		"level":   "error",
		"time":    "2026-02-26T12:00:01Z",
		"message": "CreateService failed",
		"caller":  "service/install.go:42",
		"code":    1073,
	}
	data, _ := json.Marshal(input)

	w.Write(data)
	line := buf.String()

	if !strings.HasPrefix(line, "2026-02-26 12:00:01 [!] CreateService failed") {
		t.Errorf("unexpected line: %q", line)
	}
	if strings.Contains(line, "caller=") {
		t.Errorf("caller should be excluded: %q", line)
	}
	if !strings.Contains(line, "code=1073") {
		t.Errorf("code field not found: %q", line)
	}
}

func TestLineWriter_SuccessMarkOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(&buf)

	input := map[string]interface{}{
		"level":   "info",
		"time":    "2026-02-26T12:00:00Z",
		"message": "Service installed",
		markField: MarkSuccess,
	}
	data, _ := json.Marshal(input)

	w.Write(data)

	want := "2026-02-26 12:00:00 [+] Service installed\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLineWriter_ConvertsToUTC(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(&buf)

	input := map[string]interface{}{
		"level":   "info",
		"time":    "2026-02-26T21:00:00+09:00",
		"message": "Done",
	}
	data, _ := json.Marshal(input)

	w.Write(data)

	if !strings.HasPrefix(buf.String(), "2026-02-26 12:00:00 ") {
		t.Errorf("timestamp not converted to UTC: %q", buf.String())
	}
}

func TestLineWriter_InvalidJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(&buf)

	input := []byte("not json at all\n")
	n, err := w.Write(input)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if n != len(input) {
		t.Errorf("Write returned %d, want %d", n, len(input))
	}

	// Should pass through as-is
	if buf.String() != "not json at all\n" {
		t.Errorf("invalid JSON not passed through: %q", buf.String())
	}
}

func TestLineWriter_AllLevels(t *testing.T) {
	levels := map[string]string{
		"trace": MarkInfo,
		"debug": MarkInfo,
		"info":  MarkInfo,
		"warn":  MarkError,
		"error": MarkError,
		"fatal": MarkError,
		"panic": MarkError,
	}
	for level, mark := range levels {
		t.Run(level, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewLineWriter(&buf)
			input := map[string]interface{}{
				"level":   level,
				"time":    "2026-02-26T12:00:00Z",
				"message": "test",
			}
			data, _ := json.Marshal(input)
			w.Write(data)
			if !strings.Contains(buf.String(), " "+mark+" test") {
				t.Errorf("level %s: expected %s in %q", level, mark, buf.String())
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"RFC3339 UTC", "2026-02-26T12:00:00Z", "2026-02-26 12:00:00"},
		{"RFC3339 with timezone", "2026-02-26T12:00:00+09:00", "2026-02-26 03:00:00"},
		{"Fractional seconds dropped", "2026-02-26T12:00:00.987Z", "2026-02-26 12:00:00"},
		{"Negative timezone", "2026-02-26T12:00:00-05:00", "2026-02-26 17:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTimestamp(tt.input)
			if got != tt.want {
				t.Errorf("formatTimestamp(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp_EmptyHasFixedWidth(t *testing.T) {
	got := formatTimestamp("")
	if len(got) != len(lineTimeFormat) {
		t.Errorf("formatTimestamp(\"\") = %q, want %d characters", got, len(lineTimeFormat))
	}
}

func TestFormatExtra_Sorted(t *testing.T) {
	fields := map[string]interface{}{
		"z_field": "last",
		"a_field": "first",
		"m_field": "middle",
	}
	got := formatExtra(fields)
	if got != "a_field=first m_field=middle z_field=last" {
		t.Errorf("formatExtra not sorted: %q", got)
	}
}

func TestFormatExtra_QuotedValues(t *testing.T) {
	fields := map[string]interface{}{
		"error": "access is denied",
	}
	got := formatExtra(fields)
	if got != `error="access is denied"` {
		t.Errorf("space-containing value not quoted: %q", got)
	}
}

func TestFormatExtra_Empty(t *testing.T) {
	got := formatExtra(map[string]interface{}{})
	if got != "" {
		t.Errorf("empty fields should return empty string: %q", got)
	}
}
