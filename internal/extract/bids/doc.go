// Package bids extracts metadata from datasets that follow the Brain
// Imaging Data Structure convention.
//
// A dataset participates only when a dataset_description.json descriptor
// sits at its root. Dataset-level extraction remaps the descriptor fields
// onto standardized keys, falls back to the README for a missing
// description, and attaches the JSON-LD context describing the vocabulary
// the keys belong to. Per-file extraction flattens convention-aware
// metadata queries under a "bids:" prefix and overlays per-subject
// properties parsed from the participants table.
package bids
