//go:build !android

package utils

import "testing"

// TestPrepareSaveStorage_Desktop 桌面平台交给 gdata 决定目录
func TestPrepareSaveStorage_Desktop(t *testing.T) {
	dir, err := PrepareSaveStorage()
	if err != nil {
		t.Fatalf("PrepareSaveStorage() error: %v", err)
	}
	if dir != "" {
		t.Errorf("PrepareSaveStorage() dir = %q, want empty", dir)
	}
}
