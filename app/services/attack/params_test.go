package attack

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/ishulazy/Venomm/core/logger"
	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger.L = discard
	logger.SVCAttack = discard
	os.Exit(m.Run())
}

func TestParseParamsValid(t *testing.T) {
	p, perr := ParseParams("10.0.0.1 8080 30")
	require.Nil(t, perr)
	assert.Equal(t, Params{Host: "10.0.0.1", Port: 8080, Duration: 30}, p)

	// Surrounding and repeated whitespace is tolerated.
	p, perr = ParseParams("  example.com   9000\t120 ")
	require.Nil(t, perr)
	assert.Equal(t, Params{Host: "example.com", Port: 9000, Duration: 120}, p)

	// The cap itself is allowed.
	_, perr = ParseParams("10.0.0.1 8080 3600")
	assert.Nil(t, perr)
}

func TestParseParamsFormat(t *testing.T) {
	for _, input := range []string{
		"",
		"10.0.0.1",
		"10.0.0.1 8080",
		"10.0.0.1 8080 30 extra",
		"10.0.0.1 http 30",
		"10.0.0.1 8080 soon",
	} {
		_, perr := ParseParams(input)
		require.NotNil(t, perr, "input %q", input)
		assert.Equal(t, "bad_format", perr.Reason, "input %q", input)
		assert.Equal(t, "Invalid command format. Please use: target_ip target_port time", perr.Message)
	}
}

func TestParseParamsBlockedPorts(t *testing.T) {
	for _, port := range []string{"8700", "20000", "443", "17500", "9031", "20002", "20001"} {
		_, perr := ParseParams("10.0.0.1 " + port + " 30")
		require.NotNil(t, perr, "port %s", port)
		assert.Equal(t, "port_blocked", perr.Reason)
		assert.Equal(t, "Port "+port+" is blocked. Please use a different port.", perr.Message)
	}
}

func TestParseParamsDurationCap(t *testing.T) {
	_, perr := ParseParams("10.0.0.1 8080 3601")
	require.NotNil(t, perr)
	assert.Equal(t, "duration_too_long", perr.Reason)
	assert.Equal(t, "Attack duration is too long. Please use a shorter duration.", perr.Message)
}

func TestParseParamsBlockedPortBeforeDuration(t *testing.T) {
	// Both violations present: the port message wins.
	_, perr := ParseParams("10.0.0.1 443 99999")
	require.NotNil(t, perr)
	assert.Equal(t, "port_blocked", perr.Reason)
}

func TestLogLauncherAccepts(t *testing.T) {
	err := LogLauncher{}.Launch(context.Background(), 42, Params{Host: "10.0.0.1", Port: 8080, Duration: 30})
	assert.NoError(t, err)
}
