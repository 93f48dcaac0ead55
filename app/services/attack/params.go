package attack

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxDuration caps a single run at one hour.
const MaxDuration = 3600

// blockedPorts lists destination ports that are never accepted.
var blockedPorts = map[int]struct{}{
	8700:  {},
	20000: {},
	443:   {},
	17500: {},
	9031:  {},
	20002: {},
	20001: {},
}

// PortBlocked reports whether the port is on the refusal list.
func PortBlocked(port int) bool {
	_, ok := blockedPorts[port]
	return ok
}

// Params are the validated inputs of a single run request.
type Params struct {
	Host     string
	Port     int
	Duration int
}

// ParamsError rejects malformed or disallowed run parameters.
// Message is safe to send back to the user verbatim.
type ParamsError struct {
	Reason  string
	Message string
}

func (e *ParamsError) Error() string {
	return "attack: invalid params: " + e.Reason
}

// Code feeds the structured handler summary log.
func (e *ParamsError) Code() string { return e.Reason }

var (
	// ErrFormat rejects input that is not exactly "host port duration".
	ErrFormat = &ParamsError{
		Reason:  "bad_format",
		Message: "Invalid command format. Please use: target_ip target_port time",
	}

	// ErrDurationTooLong rejects durations past MaxDuration.
	ErrDurationTooLong = &ParamsError{
		Reason:  "duration_too_long",
		Message: "Attack duration is too long. Please use a shorter duration.",
	}
)

func errPortBlocked(port int) *ParamsError {
	return &ParamsError{
		Reason:  "port_blocked",
		Message: fmt.Sprintf("Port %d is blocked. Please use a different port.", port),
	}
}

// ParseParams validates a follow-up message of the form "host port duration".
// Exactly three whitespace-separated tokens are required; anything else,
// including extra tokens, is a format error.
func ParseParams(text string) (Params, *ParamsError) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Params{}, ErrFormat
	}

	port, err := strconv.Atoi(fields[1])
	if err != nil {
		return Params{}, ErrFormat
	}
	duration, err := strconv.Atoi(fields[2])
	if err != nil {
		return Params{}, ErrFormat
	}

	if PortBlocked(port) {
		return Params{}, errPortBlocked(port)
	}
	if duration > MaxDuration {
		return Params{}, ErrDurationTooLong
	}

	return Params{Host: fields[0], Port: port, Duration: duration}, nil
}
