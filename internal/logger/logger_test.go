package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), "decoding log line %q", line)
		out = append(out, m)
	}
	return out
}

func TestLogRpcRequest(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "info", Output: &buf})

	log.RpcLogger("/commsdesk.v1.CommsDesk/ListCalls").LogRpcRequest(5*time.Millisecond, nil)
	log.RpcLogger("/commsdesk.v1.CommsDesk/GetThread").LogRpcRequest(time.Millisecond, errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "grpc", lines[0]["component"])
	assert.Equal(t, "/commsdesk.v1.CommsDesk/ListCalls", lines[0]["method"])
	assert.Equal(t, "commsdesk", lines[0]["service"])

	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error"])
	assert.Equal(t, "/commsdesk.v1.CommsDesk/GetThread", lines[1]["method"])
}

func TestLogStoreOperationLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "warn", Output: &buf})

	log.StoreLogger("ListCalls").LogStoreOperation(time.Millisecond, 3, nil)
	assert.Zero(t, buf.Len(), "debug line should be dropped at warn")

	log.StoreLogger("AppendMessage").LogStoreOperation(time.Millisecond, 0, errors.New("thread x: not found"))
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "store", lines[0]["component"])
	assert.Equal(t, "AppendMessage", lines[0]["operation"])
	assert.Equal(t, "warn", lines[0]["level"])
}

func TestComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "debug", Output: &buf})

	log.StoreLogger("SetQualification").Info("updated").Str("call_id", "c1").Send()
	log.WithFields(map[string]interface{}{"request_id": "r1"}).Debug("trace").Send()

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "store", lines[0]["component"])
	assert.Equal(t, "c1", lines[0]["call_id"])
	assert.Equal(t, "r1", lines[1]["request_id"])
}

func TestLogHttpRequest(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "info", Output: &buf})

	log.LogHttpRequest("GET", "/api/call-logs", 200, time.Millisecond)
	log.LogHttpRequest("GET", "/api/stats", 500, time.Millisecond)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, float64(200), lines[0]["status"])
	assert.Equal(t, "error", lines[1]["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "info", ParseLevel("bogus").String())
	assert.Equal(t, "debug", ParseLevel("debug").String())
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().StoreLogger("x").LogStoreOperation(time.Millisecond, 1, nil)
	})
}
