package cli

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilggamegenuis/apeval/internal/cli/config"
)

func testSession(t *testing.T) (*session, *strings.Builder, *strings.Builder) {
	t.Helper()
	cfg := &config.Config{Precision: 32, Style: "standard", Digits: 0}
	var out, errw strings.Builder
	sess := newSession(cfg, slog.New(slog.DiscardHandler), &out, &errw)
	return sess, &out, &errw
}

func TestSessionEvalAll(t *testing.T) {
	sess, out, errw := testSession(t)
	err := sess.evalAll([]string{"2+2", "10/4"})
	require.NoError(t, err)
	assert.Equal(t, "4\n2.5\n", out.String())
	assert.Empty(t, errw.String())
}

func TestSessionEvalAllErrors(t *testing.T) {
	sess, out, errw := testSession(t)
	err := sess.evalAll([]string{"2+2", "1/0", "(3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3")
	assert.Equal(t, "4\n", out.String())
	assert.Contains(t, errw.String(), "division by zero")
}

func TestSessionDigits(t *testing.T) {
	sess, out, _ := testSession(t)
	sess.digits = 5
	require.NoError(t, sess.evalAll([]string{"1/3"}))
	assert.Equal(t, "0.33333\n", out.String())
}

func TestDotCommands(t *testing.T) {
	sess, out, errw := testSession(t)

	assert.True(t, sess.dotCommand(".quit"))
	assert.True(t, sess.dotCommand(".exit"))

	assert.False(t, sess.dotCommand(".precision 96"))
	assert.Equal(t, 96, sess.precision)
	assert.False(t, sess.dotCommand(".precision nope"))
	assert.Equal(t, 96, sess.precision)
	assert.Contains(t, errw.String(), "Usage: .precision")

	assert.False(t, sess.dotCommand(".style spreadsheet"))
	assert.Equal(t, "spreadsheet", sess.styleName)

	assert.False(t, sess.dotCommand(".digits 7"))
	assert.Equal(t, 7, sess.digits)

	out.Reset()
	assert.False(t, sess.dotCommand(".precision"))
	assert.Equal(t, "precision is 96\n", out.String())

	errw.Reset()
	assert.False(t, sess.dotCommand(".bogus"))
	assert.Contains(t, errw.String(), "Unknown command")
}

func TestStyleMapping(t *testing.T) {
	sess, out, _ := testSession(t)
	sess.styleName = "spreadsheet"
	require.NoError(t, sess.evalAll([]string{"-3^2"}))
	assert.Equal(t, "9\n", out.String())
}
