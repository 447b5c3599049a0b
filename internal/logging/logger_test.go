// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Config{Level: "debug", Format: "json", Output: &buf})

	logger.Info().Str("component", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"component":"test"`) || !strings.Contains(out, `"hello"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestInitLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Config{Level: "warn", Output: &buf})

	logger.Info().Msg("suppressed")
	logger.Warn().Msg("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info line emitted at warn level")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("warn line missing")
	}
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Config{Level: "shouting", Output: &buf})

	logger.Info().Msg("still works")
	if !strings.Contains(buf.String(), "still works") {
		t.Error("fallback level did not emit info")
	}
}

func TestSlogAdapterRoutesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Config{Level: "debug", Output: &buf})

	slogger := NewSlogLogger(logger)
	slogger.Info("service started", slog.String("service", "http"), slog.Int("port", 8080))

	out := buf.String()
	if !strings.Contains(out, `"service":"http"`) || !strings.Contains(out, `"port":8080`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSlogAdapterLevelGate(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Config{Level: "error", Output: &buf})

	slogger := NewSlogLogger(logger)
	slogger.Info("quiet")
	slogger.Error("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info record emitted at error level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("error record missing")
	}
}
