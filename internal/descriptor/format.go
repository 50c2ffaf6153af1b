package descriptor

import (
	"path/filepath"
	"sort"
	"strings"
)

// UnknownFormat is reported for extensions missing from the format table.
const UnknownFormat = "unknown"

// formatLabels maps lowercase extensions to canonical format tags. EXIF, FPX
// and PCD carry a label but cannot be decoded.
var formatLabels = map[string]string{
	".bmp":  "BMP",
	".jpg":  "JPG",
	".jpeg": "JPG",
	".png":  "PNG",
	".tif":  "TIF",
	".tiff": "TIF",
	".gif":  "GIF",
	".pcx":  "PCX",
	".tga":  "TGA",
	".exif": "EXIF",
	".fpx":  "FPX",
	".svg":  "SVG",
	".psd":  "PSD",
	".pcd":  "PCD",
	".webp": "WEBP",
	".avif": "AVIF",
	".apng": "APNG",
	".raw":  "RAW",
}

// FileFormat returns the format tag for path based on its extension
func FileFormat(path string) string {
	if label, ok := formatLabels[strings.ToLower(filepath.Ext(path))]; ok {
		return label
	}
	return UnknownFormat
}

// KnownExtensions returns every extension with a format tag, sorted
func KnownExtensions() []string {
	exts := make([]string, 0, len(formatLabels))
	for ext := range formatLabels {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
