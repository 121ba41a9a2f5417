package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/stablepose/internal/fsutil"
	"github.com/banshee-data/stablepose/internal/pose"
	"github.com/banshee-data/stablepose/internal/stp"
)

// TestFlagDefaults verifies the flags exist with the documented defaults.
func TestFlagDefaults(t *testing.T) {
	if minProb == nil || *minProb != 0 {
		t.Errorf("expected min-prob default 0, got %v", minProb)
	}
	if dryRun == nil || *dryRun != false {
		t.Errorf("expected dry-run default false, got %v", dryRun)
	}
	if dbPath == nil || *dbPath != "" {
		t.Errorf("expected empty db default, got %v", dbPath)
	}
	if plotDir == nil || *plotDir != "" {
		t.Errorf("expected empty plots default, got %v", plotDir)
	}
}

func writePoseFile(t *testing.T, fsys fsutil.FileSystem, path string, poses []pose.StablePose) {
	t.Helper()
	f, err := stp.NewFileFS(fsys, path)
	if err != nil {
		t.Fatalf("NewFileFS(%q) failed: %v", path, err)
	}
	if err := f.Write(poses, 0); err != nil {
		t.Fatalf("Write(%q) failed: %v", path, err)
	}
}

func TestProcessDirFiltersFiles(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	mug := []pose.StablePose{
		{P: 0.75, ID: "0"},
		{P: 0.2, ID: "1"},
		{P: 0.05, ID: "2"},
	}
	bowl := []pose.StablePose{
		{P: 0.1, ID: "0"},
	}
	writePoseFile(t, mfs, "/meshes/mug.stp", mug)
	writePoseFile(t, mfs, "/meshes/bowl.stp", bowl)

	// Non-.stp files and broken .stp files are skipped, not fatal.
	if err := mfs.WriteFile("/meshes/mug.obj", []byte("v 0 0 0\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := mfs.WriteFile("/meshes/broken.stp", []byte("p oops\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	processed, failed, err := processDir(mfs, "/meshes", nil, options{minProb: 0.15})
	if err != nil {
		t.Fatalf("processDir failed: %v", err)
	}
	if processed != 2 {
		t.Errorf("processed = %d, want 2", processed)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}

	// mug.stp keeps the two poses at or above 0.15, in order.
	f, err := stp.NewFileFS(mfs, "/meshes/mug.stp")
	if err != nil {
		t.Fatalf("NewFileFS failed: %v", err)
	}
	got, err := f.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if diff := cmp.Diff(mug[:2], got); diff != "" {
		t.Errorf("mug poses mismatch (-want +got):\n%s", diff)
	}

	// bowl.stp ends up empty but still carries the banner.
	f, err = stp.NewFileFS(mfs, "/meshes/bowl.stp")
	if err != nil {
		t.Fatalf("NewFileFS failed: %v", err)
	}
	got, err = f.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected bowl.stp emptied, got %d poses", len(got))
	}
	data, err := mfs.ReadFile("/meshes/bowl.stp")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "# Num Poses: 0") {
		t.Errorf("expected banner with zero poses:\n%s", data)
	}
}

func TestProcessDirDryRun(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	poses := []pose.StablePose{
		{P: 0.9, ID: "0"},
		{P: 0.1, ID: "1"},
	}
	writePoseFile(t, mfs, "/meshes/mug.stp", poses)
	before, err := mfs.ReadFile("/meshes/mug.stp")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	processed, failed, err := processDir(mfs, "/meshes", nil, options{minProb: 0.5, dryRun: true})
	if err != nil {
		t.Fatalf("processDir failed: %v", err)
	}
	if processed != 1 || failed != 0 {
		t.Errorf("processed = %d, failed = %d, want 1, 0", processed, failed)
	}

	after, err := mfs.ReadFile("/meshes/mug.stp")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(before) != string(after) {
		t.Error("dry run modified the file")
	}
}

func TestProcessDirMissing(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	if _, _, err := processDir(mfs, "/nowhere", nil, options{}); err == nil {
		t.Error("expected error for missing directory")
	}
}
