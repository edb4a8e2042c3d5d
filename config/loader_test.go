package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppConfig(t *testing.T) {
	path := writeConfig(t, `
dataset:
  name: Atlantic23_05
  trustedMMSIs: [311042900]
  timezone: America/Denver
  recorderPrefix: daisy
export:
  gapSeconds: 90
  outputDir: out
  lineWidth: 4
  dayIndex: 3
store:
  path: archive.db
`)
	if err := LoadAppConfig(path); err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if Config.Dataset.Name != "Atlantic23_05" {
		t.Errorf("Dataset.Name = %q", Config.Dataset.Name)
	}
	if len(Config.Dataset.TrustedMMSIs) != 1 || Config.Dataset.TrustedMMSIs[0] != 311042900 {
		t.Errorf("TrustedMMSIs = %v", Config.Dataset.TrustedMMSIs)
	}
	loc, err := Config.Dataset.Location()
	if err != nil || loc.String() != "America/Denver" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
	if Config.Export.GapSeconds != 90 || Config.Export.OutputDir != "out" {
		t.Errorf("Export = %+v", Config.Export)
	}
	if Config.Store.Path != "archive.db" {
		t.Errorf("Store.Path = %q", Config.Store.Path)
	}
}

func TestLoadAppConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
dataset:
  name: Bahamas22_08
`)
	if err := LoadAppConfig(path); err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if Config.Dataset.RecorderPrefix != "daisy" {
		t.Errorf("RecorderPrefix default = %q, want daisy", Config.Dataset.RecorderPrefix)
	}
	if Config.Export.GapSeconds != 60 {
		t.Errorf("GapSeconds default = %d, want 60", Config.Export.GapSeconds)
	}
	if Config.Export.OutputDir != "." {
		t.Errorf("OutputDir default = %q, want .", Config.Export.OutputDir)
	}
	if Config.Export.LineWidth != 6 {
		t.Errorf("LineWidth default = %d, want 6", Config.Export.LineWidth)
	}
	if loc, err := Config.Dataset.Location(); err != nil || loc.String() != "UTC" {
		t.Errorf("Location() default = %v, %v", loc, err)
	}
}

func TestLoadAppConfigRejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, `
dataset:
  name: X
  timezone: Not/AZone
`)
	if err := LoadAppConfig(path); err == nil {
		t.Error("bad timezone accepted")
	}
}

func TestLoadAppConfigRequiresName(t *testing.T) {
	path := writeConfig(t, `
export:
  gapSeconds: 60
`)
	if err := LoadAppConfig(path); err == nil {
		t.Error("missing dataset name accepted")
	}
}
