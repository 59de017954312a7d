package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("WAT", 3600)
	l := New(&buf, loc)

	l.Warn("invalid_filename", map[string]any{"filename": "../x", "error": errors.New("boom")})
	l.Info("", map[string]any{"level": "debug"})

	sc := bufio.NewScanner(&buf)
	var lines []map[string]any
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, LevelWarn, lines[0]["level"])
	assert.Equal(t, "invalid_filename", lines[0]["msg"])
	assert.Equal(t, "../x", lines[0]["filename"])
	assert.Equal(t, "boom", lines[0]["error"])
	ts, err := time.Parse(time.RFC3339Nano, lines[0]["ts"].(string))
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, 3600, offset)

	assert.Equal(t, "debug", lines[1]["level"])
	assert.NotContains(t, lines[1], "msg")
}

func TestNew_NilLocation(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, nil).Error("x", nil)

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, LevelError, m["level"])
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "rid-1")
	assert.Equal(t, "rid-1", RequestID(ctx))
}
