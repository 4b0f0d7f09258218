// Package files provides file-related functionality organized into sub-packages.
//
// This package is split into the following sub-packages:
//   - filesystem: Filesystem abstraction interfaces and implementations (OS,
//     in-memory, and embedded)
//   - scanner: Candidate file discovery over a dataset tree
//
// # Usage
//
//	import (
//	    "github.com/dmgolembiowski/datalad/internal/files/filesystem"
//	    "github.com/dmgolembiowski/datalad/internal/files/scanner"
//	)
//
//	fs := filesystem.NewOSFileSystem()
//	paths, err := scanner.NewScannerWithFS(fs).ScanDataset("./study", scanner.Options{})
//
// Every dataset read performed by the extraction pipeline goes through the
// filesystem abstraction, so extractors can be tested against in-memory
// trees without touching the disk.
package files
