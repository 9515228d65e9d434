package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_DefaultsAndSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DatasetPath != "obesity_data_clean.csv" || c.ListenAddr != "127.0.0.1:7860" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if want := []string{"gender", "obesity_group", "transport"}; !reflect.DeepEqual(c.CategoricalFields, want) {
		t.Fatalf("categorical=%v want %v", c.CategoricalFields, want)
	}
	if len(c.GroupOrder) != 7 || c.GroupOrder[0] != "insufficient_weight" {
		t.Fatalf("group order=%v", c.GroupOrder)
	}

	c.DatasetPath = "/data/other.csv"
	c.ContinuousFields = []string{"age", "weight"}
	if err := Save(c, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".dsexplorer", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	c2, err := Load("")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if c2.DatasetPath != "/data/other.csv" || !reflect.DeepEqual(c2.ContinuousFields, []string{"age", "weight"}) {
		t.Fatalf("round trip lost values: %+v", c2)
	}
	s := c2.Schema()
	if s.GroupField != "obesity_group" || len(s.Continuous) != 2 {
		t.Fatalf("schema=%+v", s)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(cfgPath, []byte("output_dir: /tmp/charts\nlisten_addr: 0.0.0.0:9000\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DSEXPLORER_LISTEN_ADDR", "127.0.0.1:8081")
	c, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.OutputDir != "/tmp/charts" {
		t.Fatalf("output_dir=%q", c.OutputDir)
	}
	if c.ListenAddr != "127.0.0.1:8081" {
		t.Fatalf("listen_addr=%q want env override", c.ListenAddr)
	}
	opt := c.ChartOptions()
	if opt.OutputDir != "/tmp/charts" || opt.HeatmapFile != "heatmap.png" {
		t.Fatalf("chart options=%+v", opt)
	}
}

func TestDelimiterRune(t *testing.T) {
	cases := map[string]rune{"": 0, ",": ',', ";": ';', "tab": '\t'}
	for in, want := range cases {
		c := &Global{Delimiter: in}
		got, err := c.DelimiterRune()
		if err != nil || got != want {
			t.Fatalf("%q: got %q err %v", in, got, err)
		}
	}
	if _, err := (&Global{Delimiter: "|"}).DelimiterRune(); err == nil {
		t.Fatalf("expected error for unsupported delimiter")
	}
}
