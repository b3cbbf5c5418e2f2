// Package patchstore journals modifications made to toolchain source
// trees. Before a file is patched its original content is captured in a
// SQLite-backed journal, so every extension run can be reverted exactly,
// even across process restarts. Backups are keyed by target path and
// checksummed; restore verifies the checksum before writing anything
// back.
package patchstore
