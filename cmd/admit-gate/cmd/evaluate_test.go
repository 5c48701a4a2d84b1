package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sentinel-Gate/admitgate/internal/config"
	"github.com/Sentinel-Gate/admitgate/internal/domain/admission"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

func testConfig(mutate func(*config.AppConfig)) *config.AppConfig {
	cfg := &config.AppConfig{LogLevel: "error"}
	if mutate != nil {
		mutate(cfg)
	}
	cfg.SetDefaults()
	return cfg
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestRunEvaluate_Text(t *testing.T) {
	t.Parallel()

	input := writeFile(t, "patient.json", `{"patient_id":"P-1","hypoxemia":true,"new_coagulopathy":false}`)
	var stdout, stderr bytes.Buffer

	if err := runEvaluate(context.Background(), testConfig(nil), input, &stdout, &stderr); err != nil {
		t.Fatalf("runEvaluate() error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"MCG Sepsis & Other Febrile Illness (without focal infection) Admission Policy",
		"Patient ID:    P-1",
		"Admission Recommended: YES",
		" - Hypoxemia",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunEvaluate_JSON(t *testing.T) {
	t.Parallel()

	input := writeFile(t, "patient.json", `{}`)
	cfg := testConfig(func(c *config.AppConfig) { c.Output.Format = "json" })
	var stdout, stderr bytes.Buffer

	if err := runEvaluate(context.Background(), cfg, input, &stdout, &stderr); err != nil {
		t.Fatalf("runEvaluate() error: %v", err)
	}

	var rec admission.Record
	if err := json.Unmarshal(stdout.Bytes(), &rec); err != nil {
		t.Fatalf("output is not a JSON record: %v\n%s", err, stdout.String())
	}
	if rec.Recommendation.Admit {
		t.Error("Admit = true, want false")
	}
	if len(rec.Recommendation.Triggered) != 0 || rec.Recommendation.Triggered == nil {
		t.Errorf("Triggered = %#v, want empty non-nil", rec.Recommendation.Triggered)
	}
	if got := len(rec.Recommendation.Missing); got != 12 {
		t.Errorf("len(Missing) = %d, want 12", got)
	}
}

func TestRunEvaluate_FailureWritesNothing(t *testing.T) {
	t.Parallel()

	input := writeFile(t, "patient.json", `{"hypoxemia":1}`)
	var stdout, stderr bytes.Buffer

	err := runEvaluate(context.Background(), testConfig(nil), input, &stdout, &stderr)
	if exitCode(err) != exitInvalidValueType {
		t.Fatalf("runEvaluate() error = %v, want InvalidValueType", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty on failure, got:\n%s", stdout.String())
	}
}

func TestRunEvaluate_UnknownIgnore(t *testing.T) {
	t.Parallel()

	input := writeFile(t, "patient.json", `{"fever":true,"hypoxemia":false}`)
	cfg := testConfig(func(c *config.AppConfig) {
		c.UnknownCriteria = "ignore"
		c.LogLevel = "warn"
	})
	var stdout, stderr bytes.Buffer

	if err := runEvaluate(context.Background(), cfg, input, &stdout, &stderr); err != nil {
		t.Fatalf("runEvaluate() error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Ignored Keys:\n - fever") {
		t.Errorf("output missing ignored key:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "ignored unknown criteria") {
		t.Errorf("expected warning on stderr, got:\n%s", stderr.String())
	}
}

func TestRunEvaluate_MetricsTextfile(t *testing.T) {
	t.Parallel()

	prom := filepath.Join(t.TempDir(), "admitgate.prom")
	cfg := testConfig(func(c *config.AppConfig) { c.Metrics.Textfile = prom })

	missing := filepath.Join(t.TempDir(), "absent.json")
	err := runEvaluate(context.Background(), cfg, missing, &bytes.Buffer{}, &bytes.Buffer{})
	if exitCode(err) != exitFileNotFound {
		t.Fatalf("runEvaluate() error = %v, want FileNotFound", err)
	}

	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
	if !strings.Contains(string(data), `admitgate_evaluation_failures_total{kind="FileNotFound"} 1`) {
		t.Errorf("textfile missing failure counter:\n%s", data)
	}
}

func TestRunEvaluate_Trace(t *testing.T) {
	t.Parallel()

	input := writeFile(t, "patient.json", `{"hypoxemia":null}`)
	cfg := testConfig(func(c *config.AppConfig) { c.Telemetry.Trace = true })
	var stdout, stderr bytes.Buffer

	if err := runEvaluate(context.Background(), cfg, input, &stdout, &stderr); err != nil {
		t.Fatalf("runEvaluate() error: %v", err)
	}
	if !strings.Contains(stderr.String(), "admission.evaluate") {
		t.Errorf("expected span on stderr, got:\n%s", stderr.String())
	}
}

func TestRunEvaluate_CustomPolicy(t *testing.T) {
	t.Parallel()

	policy := writeFile(t, "policy.yaml", `
name: respiratory
title: Respiratory
criteria:
  - name: hypoxia
    label: Hypoxia
  - name: hypotension
    label: Hypotension
  - name: tachypnea
    label: Tachypnea
notes:
  - when: size(triggered) < 2
    text: Only one respiratory criterion is met.
`)
	input := writeFile(t, "patient.json", `{"hypoxia":true,"hypotension":null}`)
	cfg := testConfig(func(c *config.AppConfig) {
		c.Policy.File = policy
		c.Output.Format = "json"
	})
	var stdout bytes.Buffer

	if err := runEvaluate(context.Background(), cfg, input, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("runEvaluate() error: %v", err)
	}

	var rec admission.Record
	if err := json.Unmarshal(stdout.Bytes(), &rec); err != nil {
		t.Fatalf("output is not a JSON record: %v", err)
	}
	r := rec.Recommendation
	if r.Policy != "respiratory" || !r.Admit {
		t.Errorf("recommendation = %+v, want respiratory admission", r)
	}
	if !strings.HasSuffix(r.Summary, "Only one respiratory criterion is met.") {
		t.Errorf("Summary = %q, want note appended", r.Summary)
	}
	if strings.Join(r.Triggered, ",") != "hypoxia" || strings.Join(r.Missing, ",") != "hypotension,tachypnea" {
		t.Errorf("triggered=%v missing=%v", r.Triggered, r.Missing)
	}
}

func TestRunEvaluate_BadFormat(t *testing.T) {
	t.Parallel()

	cfg := testConfig(func(c *config.AppConfig) { c.Output.Format = "csv" })
	if err := runEvaluate(context.Background(), cfg, "unused.json", &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Error("runEvaluate() with bad format should fail")
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"debug": "DEBUG", "INFO": "INFO", "warn": "WARN", "warning": "WARN", "error": "ERROR", "": "INFO", "bogus": "INFO",
	} {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLoadCatalog_Default(t *testing.T) {
	t.Parallel()

	cat, err := loadCatalog("")
	if err != nil {
		t.Fatalf("loadCatalog() error: %v", err)
	}
	if cat.Name() != criteria.DefaultPolicyName {
		t.Errorf("Name() = %q, want %q", cat.Name(), criteria.DefaultPolicyName)
	}
}
