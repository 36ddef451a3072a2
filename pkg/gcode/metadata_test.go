package gcode

import "testing"

func TestScanMetadata_TotalLayers(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"orca phrase", []string{"; total layer number: 150"}, 150},
		{"prusa style", []string{";TOTAL_LAYERS:80"}, 80},
		{"cura style", []string{";LAYER_COUNT should not match", ";LAYERS:42"}, 42},
		{"max layer is zero based", []string{";MAX_LAYER:99"}, 100},
		{"absent", []string{"G1 X1", "; nothing here"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := ScanMetadata(tt.lines)
			if md.TotalLayers != tt.want {
				t.Errorf("TotalLayers = %d, want %d", md.TotalLayers, tt.want)
			}
		})
	}
}

func TestScanMetadata_BoundingBox(t *testing.T) {
	md := ScanMetadata([]string{
		"; EXCLUDE_OBJECT_DEFINE NAME=cube POLYGON=[[80,90],[140,90],[140,150],[80,150]]",
	})
	if md.MinX != 80 || md.MaxX != 140 || md.MinY != 90 || md.MaxY != 150 {
		t.Errorf("polygon bbox = (%g..%g, %g..%g)", md.MinX, md.MaxX, md.MinY, md.MaxY)
	}
	if md.CenterX() != 110 || md.CenterY() != 120 {
		t.Errorf("center = (%g, %g)", md.CenterX(), md.CenterY())
	}
}

func TestScanMetadata_RangeForm(t *testing.T) {
	md := ScanMetadata([]string{
		"; object bounds X[10.0:60.0] Y[20.0:70.0] Z[0.0:35.5]",
	})
	if md.MinX != 10 || md.MaxX != 60 || md.MinY != 20 || md.MaxY != 70 {
		t.Errorf("range bbox = (%g..%g, %g..%g)", md.MinX, md.MaxX, md.MinY, md.MaxY)
	}
	if md.MaxZ != 35.5 {
		t.Errorf("MaxZ = %g, want 35.5", md.MaxZ)
	}
}

func TestScanMetadata_IndividualBounds(t *testing.T) {
	md := ScanMetadata([]string{
		"; min_x = 50.5",
		"; max_x = 150.5",
		"; min_y = 40",
		"; max_y = 180",
		"; max_z_height: 22.25",
	})
	if md.MinX != 50.5 || md.MaxX != 150.5 || md.MinY != 40 || md.MaxY != 180 {
		t.Errorf("bbox = (%g..%g, %g..%g)", md.MinX, md.MaxX, md.MinY, md.MaxY)
	}
	if md.MaxZ != 22.25 {
		t.Errorf("MaxZ = %g, want 22.25", md.MaxZ)
	}
}

func TestScanMetadata_BedSize(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		wantX  float64
		wantY  float64
		warned bool
	}{
		{"explicit size", []string{"; bed_size = 300x300"}, 300, 300, false},
		{"printable area far corner", []string{"; printable_area = 0x0,256x0,256x256,0x256"}, 256, 256, false},
		{"below validity floor", []string{"; bed_size = 10x10"}, DefaultBedX, DefaultBedY, true},
		{"absent", nil, DefaultBedX, DefaultBedY, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := ScanMetadata(tt.lines)
			if md.BedX != tt.wantX || md.BedY != tt.wantY {
				t.Errorf("bed = %gx%g, want %gx%g", md.BedX, md.BedY, tt.wantX, tt.wantY)
			}
			if (len(md.Warnings) > 0) != tt.warned {
				t.Errorf("warnings = %v, warned want %v", md.Warnings, tt.warned)
			}
		})
	}
}

func TestScanMetadata_Firmware(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"cura flavor", []string{";FLAVOR:Marlin"}, FirmwareMarlin},
		{"klipper flavor", []string{"; gcode_flavor = klipper"}, FirmwareKlipper},
		{"unknown flavor ignored", []string{";FLAVOR:RepRap"}, ""},
		{"absent", []string{"G1 X0"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := ScanMetadata(tt.lines)
			if md.Firmware != tt.want {
				t.Errorf("Firmware = %q, want %q", md.Firmware, tt.want)
			}
		})
	}
}

func TestScanMetadata_Defaults(t *testing.T) {
	md := ScanMetadata([]string{"G28", "G1 X10 Y10"})

	if md.BedX != DefaultBedX || md.BedY != DefaultBedY {
		t.Errorf("bed defaults = %gx%g", md.BedX, md.BedY)
	}
	if md.MaxZ != DefaultMaxZ {
		t.Errorf("MaxZ default = %g", md.MaxZ)
	}
	// Missing bounding box falls back to the bed extents.
	if md.MinX != 0 || md.MaxX != DefaultBedX || md.MinY != 0 || md.MaxY != DefaultBedY {
		t.Errorf("bbox fallback = (%g..%g, %g..%g)", md.MinX, md.MaxX, md.MinY, md.MaxY)
	}
	if md.TotalLayers != 0 {
		t.Errorf("TotalLayers = %d, want 0 (unknown)", md.TotalLayers)
	}
}

func TestScanMetadata_FirstMatchWins(t *testing.T) {
	md := ScanMetadata([]string{
		"; total layer number: 10",
		"; total layer number: 99",
		"; bed_size = 300x300",
		"; bed_size = 400x400",
	})
	if md.TotalLayers != 10 {
		t.Errorf("TotalLayers = %d, want first match 10", md.TotalLayers)
	}
	if md.BedX != 300 {
		t.Errorf("BedX = %g, want first match 300", md.BedX)
	}
}
