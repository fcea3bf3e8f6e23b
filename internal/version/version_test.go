package version

import (
	"errors"
	"testing"
)

func TestCheckSnapshotVersion(t *testing.T) {
	tests := []struct {
		name    string
		version int
		tooOld  bool
		tooNew  bool
	}{
		{"current", SnapshotFormatVersionCurrent, false, false},
		{"minimum", SnapshotFormatVersionMin, false, false},
		{"zero", 0, true, false},
		{"future", SnapshotFormatVersionCurrent + 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSnapshotVersion(tt.version)
			var old *ErrVersionTooOld
			var future *ErrVersionTooNew
			if got := errors.As(err, &old); got != tt.tooOld {
				t.Errorf("too old = %v, want %v (err %v)", got, tt.tooOld, err)
			}
			if got := errors.As(err, &future); got != tt.tooNew {
				t.Errorf("too new = %v, want %v (err %v)", got, tt.tooNew, err)
			}
		})
	}
}

func TestCheckSchemaVersion(t *testing.T) {
	if err := CheckSchemaVersion(SchemaFormatVersionCurrent); err != nil {
		t.Errorf("current schema version rejected: %v", err)
	}
	err := CheckSchemaVersion(SchemaFormatVersionCurrent + 1)
	if err == nil || err.Error() != "schema format version 2 is too new for this build (current: 1)" {
		t.Errorf("error = %v", err)
	}
}

func TestWriteConfig(t *testing.T) {
	var wc WriteConfig
	if got := wc.GetSnapshotVersion(); got != SnapshotFormatVersionCurrent {
		t.Errorf("zero config writes version %d", got)
	}
	if err := DefaultWriteConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if err := (WriteConfig{SnapshotVersion: 99}).Validate(); err == nil {
		t.Error("expected error for unsupported version")
	}
}
