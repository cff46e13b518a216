package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valutatrade/hub"
)

func TestSplitLine(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"buy -currency BTC -amount 0.5", []string{"buy", "-currency", "BTC", "-amount", "0.5"}},
		{"login -username 'john doe' -password pass", []string{"login", "-username", "john doe", "-password", "pass"}},
		{`register -username "a b" -password "c d"`, []string{"register", "-username", "a b", "-password", "c d"}},
		{"exit", []string{"exit"}},
		{"a ''", []string{"a", ""}},
	}
	for _, c := range cases {
		got, err := splitLine(c.in)
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}

	_, err := splitLine("login -username 'unterminated")
	assert.Error(t, err)
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	settings := hub.DefaultSettings()
	settings.DataDir = t.TempDir()
	app, err := NewApp(settings, zerolog.Nop())
	require.NoError(t, err)
	app.Out = &bytes.Buffer{}
	app.Err = &bytes.Buffer{}
	return app
}

func TestSessionLifecycle(t *testing.T) {
	app := newTestApp(t)
	script := strings.Join([]string{
		"register -username alice -password s3cret",
		"login -username alice -password s3cret",
		"logout",
		"exit",
		"never reached",
	}, "\n")

	err := app.RunSession(context.Background(), strings.NewReader(script))
	require.NoError(t, err)

	out := app.Out.(*bytes.Buffer).String()
	assert.Contains(t, out, "alice> ", "the prompt shows the logged-in user")
	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, "Bye.")
	assert.NotContains(t, out, "never reached")
	assert.Nil(t, app.Session.User())
}

func TestSessionRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	err := app.RunSession(context.Background(), strings.NewReader("show-portfolio\nexit\n"))
	require.NoError(t, err)
	assert.Contains(t, app.Err.(*bytes.Buffer).String(), "log in first")
}

func TestSessionSurvivesBadInput(t *testing.T) {
	app := newTestApp(t)
	script := "login -username 'broken\ncurrencies\nexit\n"
	err := app.RunSession(context.Background(), strings.NewReader(script))
	require.NoError(t, err)
	assert.Contains(t, app.Err.(*bytes.Buffer).String(), "unclosed quote")
	assert.Contains(t, app.Out.(*bytes.Buffer).String(), "US Dollar")
}

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("1.25")
	require.NoError(t, err)
	assert.Equal(t, "1.25", amount.String())

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := parseAmount(bad)
		var verr *hub.ValidationError
		assert.ErrorAs(t, err, &verr, "input %q", bad)
	}
}
