package fileid

import (
	"strings"
	"testing"
)

func TestFromPath_Deterministic(t *testing.T) {
	if FromPath("/docs/a.pdf") != FromPath("/docs/a.pdf") {
		t.Error("same path should yield same ID")
	}
	if FromPath("/docs/a.pdf") == FromPath("/docs/b.pdf") {
		t.Error("different paths should yield different IDs")
	}
	if !strings.HasPrefix(FromPath("/docs/a.pdf"), "file:") {
		t.Error("path IDs should carry the file: prefix")
	}
}

func TestFromPath_Normalized(t *testing.T) {
	if FromPath("/docs/a.pdf") != FromPath("/docs/./a.pdf") {
		t.Error("path cleaning should normalize equivalent paths")
	}
}

func TestFromUpload_Unique(t *testing.T) {
	a, b := FromUpload(), FromUpload()
	if a == b {
		t.Error("upload IDs should be unique")
	}
	if !strings.HasPrefix(a, "upload:") {
		t.Error("upload IDs should carry the upload: prefix")
	}
}
