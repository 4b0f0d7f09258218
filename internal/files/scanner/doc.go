// Package scanner provides candidate file discovery for metadata
// extraction.
//
// The scanner package is responsible for:
//   - Recursively discovering data files in a dataset tree
//   - Normalizing paths to dataset-relative Unix form
//   - Excluding administrative directories from extraction
//
// The scanner is designed to be filesystem-agnostic through the use of
// filesystem.FileSystemProvider interface, enabling both production use
// with the OS filesystem and testing with in-memory filesystems.
package scanner
