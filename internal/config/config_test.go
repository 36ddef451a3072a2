package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Generator != "orbit" {
		t.Errorf("generator default = %q, want orbit", cfg.Generator)
	}
	if cfg.TravelSpeed != 9000 {
		t.Errorf("travel-speed default = %g, want 9000", cfg.TravelSpeed)
	}
	if cfg.DwellTime != 500 {
		t.Errorf("dwell-time default = %d, want 500", cfg.DwellTime)
	}
	if cfg.RetractLength != 0.5 || cfg.RetractSpeed != 40 {
		t.Errorf("retract defaults = %g at %g", cfg.RetractLength, cfg.RetractSpeed)
	}
	if cfg.ZHopHeight != 0.2 {
		t.Errorf("z-hop-height default = %g, want 0.2", cfg.ZHopHeight)
	}
	if cfg.StartCorner != "front-left" || cfg.EndCorner != "back-right" {
		t.Errorf("corner defaults = %q, %q", cfg.StartCorner, cfg.EndCorner)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty sqlite path", func(c *Config) { c.SQLitePath = "" }},
		{"empty work dir", func(c *Config) { c.WorkDir = "" }},
		{"unknown generator", func(c *Config) { c.Generator = "spiral" }},
		{"unknown firmware", func(c *Config) { c.Firmware = "reprap" }},
		{"zero max file size", func(c *Config) { c.MaxFileSize = 0 }},
		{"negative retries", func(c *Config) { c.FSMMaxRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNormalize_Clamps(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	cfg.TravelSpeed = -1
	cfg.DwellTime = -5
	cfg.RetractLength = -0.5
	cfg.ZHopHeight = -1
	cfg.FirstLayer = -3
	cfg.Orbits = 0
	cfg.SnapshotsPerLoop = -2
	cfg.OrbitRadius = -10

	cfg.Normalize()

	if cfg.TravelSpeed <= 0 {
		t.Errorf("travel speed not clamped: %g", cfg.TravelSpeed)
	}
	if cfg.DwellTime != 0 || cfg.RetractLength != 0 || cfg.ZHopHeight != 0 {
		t.Errorf("negative emission options not clamped: %+v", cfg)
	}
	if cfg.FirstLayer != 0 {
		t.Errorf("first layer not clamped: %d", cfg.FirstLayer)
	}
	if cfg.Orbits != 1 || cfg.SnapshotsPerLoop != 1 || cfg.OrbitRadius != 0 {
		t.Errorf("orbit options not clamped: orbits=%d perLoop=%d radius=%g",
			cfg.Orbits, cfg.SnapshotsPerLoop, cfg.OrbitRadius)
	}
}
