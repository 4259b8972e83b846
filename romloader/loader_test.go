package romloader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// createTestCH8File creates a temporary .ch8 file with test data
func createTestCH8File(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create test CH8 file: %v", err)
	}
	return path
}

// createTestZipFile creates a temporary .zip file containing the given entries
func createTestZipFile(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.zip")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, data := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("Failed to write to zip: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return path
}

// createTestGzipFile creates a temporary .gz file containing ROM data
func createTestGzipFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.ch8.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create gzip file: %v", err)
	}
	defer f.Close()

	w := gzip.NewWriter(f)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to write to gzip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return path
}

// TestLoader_RawCH8Load tests loading plain .ch8 files
func TestLoader_RawCH8Load(t *testing.T) {
	testData := []byte{0x60, 0x05, 0x61, 0x03, 0x80, 0x14}
	path := createTestCH8File(t, testData)

	data, name, err := LoadROM(path)
	if err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}

	if !bytes.Equal(data, testData) {
		t.Errorf("Data mismatch: expected %v, got %v", testData, data)
	}

	if name != "test.ch8" {
		t.Errorf("Name mismatch: expected test.ch8, got %s", name)
	}
}

// TestLoader_ZipLoad tests loading a ROM from ZIP archives
func TestLoader_ZipLoad(t *testing.T) {
	testData := []byte{0x00, 0xE0, 0x12, 0x00}
	path := createTestZipFile(t, map[string][]byte{
		"readme.txt": []byte("not a rom"),
		"game.ch8":   testData,
	})

	data, name, err := LoadROM(path)
	if err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}

	if !bytes.Equal(data, testData) {
		t.Errorf("Data mismatch: expected %v, got %v", testData, data)
	}

	if name != "game.ch8" {
		t.Errorf("Name mismatch: expected game.ch8, got %s", name)
	}
}

// TestLoader_ZipWithoutROM tests the no-.ch8 error path
func TestLoader_ZipWithoutROM(t *testing.T) {
	path := createTestZipFile(t, map[string][]byte{
		"readme.txt": []byte("nothing here"),
	})

	_, _, err := LoadROM(path)
	if !errors.Is(err, ErrNoCH8File) {
		t.Errorf("Expected ErrNoCH8File, got %v", err)
	}
}

// TestLoader_GzipLoad tests loading a ROM from gzip files
func TestLoader_GzipLoad(t *testing.T) {
	testData := []byte{0xA2, 0xF0, 0xF3, 0x55}
	path := createTestGzipFile(t, testData)

	data, name, err := LoadROM(path)
	if err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}

	if !bytes.Equal(data, testData) {
		t.Errorf("Data mismatch: expected %v, got %v", testData, data)
	}

	if name != "test.ch8" {
		t.Errorf("Name mismatch: expected test.ch8, got %s", name)
	}
}

// TestLoader_FormatDetectionMagic tests detection via magic bytes
func TestLoader_FormatDetectionMagic(t *testing.T) {
	testCases := []struct {
		name     string
		header   []byte
		path     string
		expected formatType
	}{
		{"zip magic", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, "file.bin", formatZIP},
		{"empty zip magic", []byte{0x50, 0x4B, 0x05, 0x06, 0x00}, "file.bin", formatZIP},
		{"7z magic", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, "file.bin", format7z},
		{"gzip magic", []byte{0x1F, 0x8B, 0x08}, "file.bin", formatGzip},
		{"rar magic", []byte{0x52, 0x61, 0x72, 0x21, 0x1A}, "file.bin", formatRAR},
		{"magic beats extension", []byte{0x50, 0x4B, 0x03, 0x04}, "file.ch8", formatZIP},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectFormat(tc.header, tc.path); got != tc.expected {
				t.Errorf("Expected format %d, got %d", tc.expected, got)
			}
		})
	}
}

// TestLoader_FormatDetectionExtension tests the extension fallback
func TestLoader_FormatDetectionExtension(t *testing.T) {
	testCases := []struct {
		path     string
		expected formatType
	}{
		{"game.ch8", formatRawCH8},
		{"GAME.CH8", formatRawCH8},
		{"game.zip", formatZIP},
		{"game.7z", format7z},
		{"game.gz", formatGzip},
		{"game.tar.gz", formatGzip},
		{"game.rar", formatRAR},
		{"game.bin", formatUnknown},
	}

	for _, tc := range testCases {
		if got := detectFormat([]byte{0x60, 0x00}, tc.path); got != tc.expected {
			t.Errorf("%s: expected format %d, got %d", tc.path, tc.expected, got)
		}
	}
}

// TestLoader_UnsupportedFormat tests the unknown-format error path
func TestLoader_UnsupportedFormat(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "mystery.bin")
	if err := os.WriteFile(path, []byte{0x60, 0x00}, 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := LoadROM(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

// TestLoader_SizeLimit tests the extraction size cap
func TestLoader_SizeLimit(t *testing.T) {
	big := make([]byte, maxROMSize+1)
	path := createTestCH8File(t, big)

	_, _, err := LoadROM(path)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
}

// TestLoader_MissingFile tests the open error path
func TestLoader_MissingFile(t *testing.T) {
	_, _, err := LoadROM(filepath.Join(t.TempDir(), "does-not-exist.ch8"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestIsCH8File tests extension matching
func TestIsCH8File(t *testing.T) {
	if !isCH8File("pong.ch8") || !isCH8File("PONG.CH8") {
		t.Error("Expected .ch8 files to match")
	}
	if isCH8File("pong.sms") || isCH8File("pong.ch8.txt") {
		t.Error("Non-.ch8 files must not match")
	}
}
