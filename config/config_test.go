// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qops.yaml")
	if err := os.WriteFile(path, []byte("spillCodec: s2\noutputBatchSize: 1024\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SpillCodec != "s2" {
		t.Fatalf("SpillCodec = %q, want s2", cfg.SpillCodec)
	}
	if cfg.OutputBatchSize != 1024 {
		t.Fatalf("OutputBatchSize = %d, want 1024", cfg.OutputBatchSize)
	}
	if cfg.SpillBlockSize != Default().SpillBlockSize {
		t.Fatalf("SpillBlockSize = %d, want default %d", cfg.SpillBlockSize, Default().SpillBlockSize)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qops.yaml")
	if err := os.WriteFile(path, []byte("outputBatchSize: 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for non-positive outputBatchSize")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/qops.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
