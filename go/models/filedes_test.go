package models

import (
	"testing"
)

func snapshot(f *FileDes) []Descriptor {
	var out []Descriptor
	f.Each(func(fd int, d Descriptor) bool {
		out = append(out, d)
		return true
	})
	return out
}

func TestFileDesRestoreSave(t *testing.T) {
	f := NewFileDes(4)
	f.Set(0, "stdin")
	f.Set(3, 42)
	before := snapshot(f)
	f.Restore(f.Save())
	after := snapshot(f)
	if len(before) != len(after) {
		t.Fatalf("table length changed %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("fd %d changed %v -> %v", i, before[i], after[i])
		}
	}
}

func TestFileDesSaveAliases(t *testing.T) {
	f := NewFileDes(2)
	saved := f.Save()
	f.Set(1, "late")
	if saved[1] != "late" {
		t.Fatal("Save() copied the table")
	}

	other := NewFileDes(3)
	other.Set(2, "other")
	f.Restore(other.Save())
	if f.Len() != 3 {
		t.Fatalf("restored table has %d slots", f.Len())
	}
	if d, _ := f.Get(2); d != "other" {
		t.Fatalf("restored fd 2 = %v", d)
	}
	f.Restore(saved)
	if d, _ := f.Get(1); d != "late" {
		t.Fatalf("restored fd 1 = %v", d)
	}
}

func TestFileDesBounds(t *testing.T) {
	f := NewFileDes(1)
	if _, err := f.Get(1); err == nil {
		t.Fatal("Get() past the end succeeded")
	}
	if err := f.Set(-1, nil); err == nil {
		t.Fatal("Set(-1) succeeded")
	}
	count := 0
	NewFileDes(5).Each(func(fd int, d Descriptor) bool {
		count++
		return fd < 1
	})
	if count != 2 {
		t.Fatalf("Each() visited %d slots after stopping", count)
	}
	if f.String() != "[<nil>]" {
		t.Fatalf("String() = %q", f.String())
	}
}
