package logging

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestLoggerCarriesRequestID(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "abc123")
	NewLogger(ctx).LogInfof("list_projects", "page=%d", 2)

	assert.Equal(t, "[info] request_id=abc123 operation=list_projects page=2\n", buf.String())
}

func TestLoggerUnknownRequestID(t *testing.T) {
	buf := captureLog(t)

	NewLogger(context.Background()).LogError("login", errors.New("boom"))

	assert.True(t, strings.HasPrefix(buf.String(), "[error] request_id=unknown operation=login error=boom"))
}

func TestDiscardLogger(t *testing.T) {
	buf := captureLog(t)

	l := Discard()
	l.LogWarnf("x", "y")
	l.LogError("x", errors.New("z"))

	assert.Empty(t, buf.String())
}
