package rails

import (
	"context"
	"testing"

	"github.com/maheshrc27/feedrail/internal/models"
)

func TestResolveIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	ok := RailFunc(func(context.Context, string, []string, string, string) models.Outcome {
		return models.Outcome{Success: true}
	})
	r.Register(ok, "Facebook")

	for _, name := range []string{"facebook", "FACEBOOK", " FaceBook "} {
		if _, found := r.Resolve(name); !found {
			t.Fatalf("Resolve(%q) found nothing", name)
		}
	}
}

func TestResolveUnknownIsAbsent(t *testing.T) {
	t.Parallel()
	r := NewDefaultRegistry("", 0)
	rail, found := r.Resolve("twitter")
	if found || rail != nil {
		t.Fatalf("expected twitter to be unsupported, got %v", rail)
	}
}

func TestDefaultRegistryShipsMetaFamily(t *testing.T) {
	t.Parallel()
	r := NewDefaultRegistry("", 0)
	got := r.Platforms()
	want := []string{"facebook", "instagram"}
	if len(got) != len(want) {
		t.Fatalf("Platforms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Platforms() = %v, want %v", got, want)
		}
	}
}
