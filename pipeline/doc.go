// Package pipeline runs the whole workflow from one YAML configuration:
// genotype calls become distance matrices, precomputed matrices are read,
// all matrices are aligned to their common samples, every modality is
// clustered by correlation in parallel, the per-modality partitions are
// reconciled by consensus, and the summary table is written to the output
// path.
//
// A configuration is checked before anything runs. Every violated key-set
// rule comes back as *ConfigError naming the invariant and the keys
// involved. Each Run carries its own logger tagged with a fresh run_id and
// optionally feeds a Metrics collector.
package pipeline
