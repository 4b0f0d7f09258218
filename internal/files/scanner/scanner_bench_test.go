package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// BenchmarkScanDataset benchmarks dataset scanning with real filesystem
func BenchmarkScanDataset(b *testing.B) {
	// Create temporary dataset structure for benchmarking
	tempDir := b.TempDir()

	for i := 0; i < 10; i++ {
		subject := filepath.Join(tempDir, fmt.Sprintf("sub-%02d", i), "anat")
		if err := os.MkdirAll(subject, 0755); err != nil {
			b.Fatal(err)
		}
		name := filepath.Join(subject, fmt.Sprintf("sub-%02d_T1w.nii", i))
		if err := os.WriteFile(name, []byte("data"), 0644); err != nil {
			b.Fatal(err)
		}
	}

	s := NewScanner()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := s.ScanDataset(tempDir, Options{})
		if err != nil {
			b.Fatal(err)
		}
	}
}
