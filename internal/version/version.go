// Package version tracks the format versions of everything fieldmap persists.
//
// Readers accept the current version and one version back, so a rolling
// upgrade can write the new format while older readers are still live.
package version

import (
	"fmt"
)

// Format versions for persisted artifacts.
const (
	// SnapshotFormatVersionCurrent is the current index snapshot format version.
	SnapshotFormatVersionCurrent = 1
	// SnapshotFormatVersionMin is the oldest snapshot version this build reads.
	SnapshotFormatVersionMin = 1

	// SchemaFormatVersionCurrent is the current schema definition version.
	SchemaFormatVersionCurrent = 1
	// SchemaFormatVersionMin is the oldest schema definition version this build reads.
	SchemaFormatVersionMin = 1
)

// SupportedVersions tracks which versions of a format are readable.
type SupportedVersions struct {
	Format         string
	CurrentVersion int
	MinVersion     int
}

// SnapshotVersions returns the supported index snapshot versions.
func SnapshotVersions() SupportedVersions {
	return SupportedVersions{
		Format:         "snapshot",
		CurrentVersion: SnapshotFormatVersionCurrent,
		MinVersion:     SnapshotFormatVersionMin,
	}
}

// SchemaVersions returns the supported schema definition versions.
func SchemaVersions() SupportedVersions {
	return SupportedVersions{
		Format:         "schema",
		CurrentVersion: SchemaFormatVersionCurrent,
		MinVersion:     SchemaFormatVersionMin,
	}
}

// CanRead returns true if the given version is readable.
func (sv SupportedVersions) CanRead(version int) bool {
	return version >= sv.MinVersion && version <= sv.CurrentVersion
}

// Check returns an error when version is outside the readable range.
func (sv SupportedVersions) Check(version int) error {
	if version < sv.MinVersion {
		return &ErrVersionTooOld{Format: sv.Format, Version: version, MinVersion: sv.MinVersion}
	}
	if version > sv.CurrentVersion {
		return &ErrVersionTooNew{Format: sv.Format, Version: version, CurrentVersion: sv.CurrentVersion}
	}
	return nil
}

// ErrVersionTooOld indicates a format version is older than the minimum supported.
type ErrVersionTooOld struct {
	Format     string
	Version    int
	MinVersion int
}

func (e *ErrVersionTooOld) Error() string {
	return fmt.Sprintf("%s format version %d is too old (minimum: %d)", e.Format, e.Version, e.MinVersion)
}

// ErrVersionTooNew indicates a format version is newer than this build can read.
type ErrVersionTooNew struct {
	Format         string
	Version        int
	CurrentVersion int
}

func (e *ErrVersionTooNew) Error() string {
	return fmt.Sprintf("%s format version %d is too new for this build (current: %d)", e.Format, e.Version, e.CurrentVersion)
}

// CheckSnapshotVersion validates an index snapshot version is readable.
func CheckSnapshotVersion(version int) error {
	return SnapshotVersions().Check(version)
}

// CheckSchemaVersion validates a schema definition version is readable.
func CheckSchemaVersion(version int) error {
	return SchemaVersions().Check(version)
}

// WriteConfig controls which format versions a writer produces.
type WriteConfig struct {
	// SnapshotVersion is the snapshot format version to write.
	// If 0, uses the current version.
	SnapshotVersion int
}

// DefaultWriteConfig returns a WriteConfig that writes the current versions.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{SnapshotVersion: SnapshotFormatVersionCurrent}
}

// GetSnapshotVersion returns the snapshot version to write, defaulting to current.
func (wc WriteConfig) GetSnapshotVersion() int {
	if wc.SnapshotVersion == 0 {
		return SnapshotFormatVersionCurrent
	}
	return wc.SnapshotVersion
}

// Validate checks that the WriteConfig only specifies writable versions.
func (wc WriteConfig) Validate() error {
	sv := SnapshotVersions()
	if wc.SnapshotVersion != 0 && !sv.CanRead(wc.SnapshotVersion) {
		return fmt.Errorf("snapshot version %d is not supported (range: %d-%d)",
			wc.SnapshotVersion, sv.MinVersion, sv.CurrentVersion)
	}
	return nil
}
