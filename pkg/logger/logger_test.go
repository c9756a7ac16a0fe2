package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_WritesServiceAndComponent(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf, Service: "workshop-system"})
	cl := Component(log, "snapshot")
	cl.Debug().Msg("loaded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["service"] != "workshop-system" {
		t.Errorf("service: expected workshop-system, got %v", entry["service"])
	}
	if entry["component"] != "snapshot" {
		t.Errorf("component: expected snapshot, got %v", entry["component"])
	}
	if entry["message"] != "loaded" {
		t.Errorf("message: expected loaded, got %v", entry["message"])
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	g := Get()
	g.Info().Msg("hello")
	if first.Len() == 0 {
		t.Error("expected output on the first writer")
	}
	if second.Len() != 0 {
		t.Error("expected the second Init to be ignored")
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warning ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}
