package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", getRequestID(ctx))
}

func TestFormatLogIncludesRequestID(t *testing.T) {
	msg := formatLog("INFO", "abc", "hello %s", "world")
	assert.Equal(t, "[INFO] [req_id=abc] hello world", msg)

	msg = formatLog("WARN", "", "plain")
	assert.Equal(t, "[WARN] plain", msg)
}
