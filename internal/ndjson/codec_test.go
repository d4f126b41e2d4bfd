package ndjson

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	enc := NewEncoder(&buf, testLogger())
	require.NoError(t, enc.Encode(record{Name: "first", Count: 1}))
	require.NoError(t, enc.Encode(record{Name: "second", Count: 2}))

	// One JSON object per line.
	require.Equal(t, 2, strings.Count(buf.String(), "\n"))

	dec := NewDecoder(&buf, testLogger())

	var r record
	require.NoError(t, dec.Decode(&r))
	require.Equal(t, "first", r.Name)

	require.NoError(t, dec.Decode(&r))
	require.Equal(t, 2, r.Count)

	require.Equal(t, io.EOF, dec.Decode(&r))
}

func TestDecodeSkipsBlankLines(t *testing.T) {
	input := "\n{\"name\":\"a\",\"count\":1}\n\n{\"name\":\"b\",\"count\":2}\n"
	dec := NewDecoder(strings.NewReader(input), testLogger())

	var r record
	require.NoError(t, dec.Decode(&r))
	require.Equal(t, "a", r.Name)
	require.NoError(t, dec.Decode(&r))
	require.Equal(t, "b", r.Name)
	require.Equal(t, io.EOF, dec.Decode(&r))
}

func TestDecodeMalformedLine(t *testing.T) {
	dec := NewDecoder(strings.NewReader("{oops\n"), testLogger())

	var r record
	err := dec.Decode(&r)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")
}

func TestEncodeOversizedRecord(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, testLogger())

	err := enc.Encode(record{Name: strings.Repeat("x", MaxRecordSize)})
	require.Error(t, err)
	require.Zero(t, buf.Len())
}
