package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "go-image-quality/internal/errors"
	"go-image-quality/pkg/models"
)

func writeUniformPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeCheckerPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/8+y/8)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluate_JSON(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		standard models.ResolutionStandard
		level    models.QualityLevel
	}{
		{"uniform", writeUniformPNG(t, dir, "flat.png", 1920, 1080), "1080p", models.QualityLow},
		{"checkerboard", writeCheckerPNG(t, dir, "checker.png", 640, 480), models.Unrecognized, models.QualityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "evaluate", "--json", tt.path)
			if err != nil {
				t.Fatalf("evaluate returned error: %v", err)
			}

			var resp models.EvaluationResponse
			if err := json.Unmarshal([]byte(out), &resp); err != nil {
				t.Fatalf("Expected JSON output: %v\n%s", err, out)
			}
			if resp.Source != tt.path {
				t.Errorf("Expected source %s, got %s", tt.path, resp.Source)
			}
			if resp.Report.ResolutionStandard != tt.standard {
				t.Errorf("Expected standard %q, got %q", tt.standard, resp.Report.ResolutionStandard)
			}
			if resp.Report.QualityLevel != tt.level {
				t.Errorf("Expected quality %v, got %v", tt.level, resp.Report.QualityLevel)
			}
			if len(resp.ID) != 16 {
				t.Errorf("Expected 16 character ID, got %q", resp.ID)
			}
		})
	}
}

func TestEvaluate_Text(t *testing.T) {
	dir := t.TempDir()
	path := writeUniformPNG(t, dir, "flat.png", 1280, 720)

	out, err := execute(t, "evaluate", path)
	if err != nil {
		t.Fatalf("evaluate returned error: %v", err)
	}
	for _, want := range []string{"1280x720", "720p", "16:9 (landscape)", "PNG", "low", "[error]", "[warning]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestEvaluate_MissingFile(t *testing.T) {
	_, err := execute(t, "evaluate", filepath.Join(t.TempDir(), "missing.png"))
	if !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		t.Fatalf("Expected decode error, got %v", err)
	}
}

func TestEvaluate_UnknownStrategy(t *testing.T) {
	dir := t.TempDir()
	path := writeUniformPNG(t, dir, "flat.png", 8, 8)

	if _, err := execute(t, "evaluate", "--strategy", "fuzzy", path); err == nil {
		t.Fatal("Expected unknown strategy to fail")
	}
}

func TestEvaluate_RequiresPath(t *testing.T) {
	if _, err := execute(t, "evaluate"); err == nil {
		t.Fatal("Expected error without arguments")
	}
	if _, err := execute(t, "evaluate", "a.png", "b.png"); err == nil {
		t.Fatal("Expected error with more than one path")
	}
}

func TestFormats(t *testing.T) {
	out, err := execute(t, "formats")
	if err != nil {
		t.Fatalf("formats returned error: %v", err)
	}

	lines := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			t.Fatalf("Unexpected line %q", line)
		}
		lines[fields[0]] = fields[1] + " " + fields[2]
	}

	tests := map[string]string{
		".png":  "PNG yes",
		".jpeg": "JPG yes",
		".raw":  "RAW yes",
		".webp": "WEBP yes",
		".psd":  "PSD yes",
		".tga":  "TGA yes",
		".pcx":  "PCX yes",
		".svg":  "SVG yes",
		".avif": "AVIF yes",
		".pcd":  "PCD no",
		".exif": "EXIF no",
		".fpx":  "FPX no",
	}
	for ext, want := range tests {
		if lines[ext] != want {
			t.Errorf("Expected %s to be %q, got %q", ext, want, lines[ext])
		}
	}
}
