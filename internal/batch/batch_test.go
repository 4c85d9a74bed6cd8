package batch

import (
	"errors"
	"reflect"
	"testing"
)

func files(buckets []Bucket) [][]string {
	out := make([][]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Files
	}
	return out
}

func TestGroupRoundRobin(t *testing.T) {
	f := Filter{Extensions: []string{"jpg"}}
	buckets, err := Group(f, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"}, 3)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	want := [][]string{{"a.jpg", "d.jpg"}, {"b.jpg", "e.jpg"}, {"c.jpg"}}
	if got := files(buckets); !reflect.DeepEqual(got, want) {
		t.Fatalf("Group() = %v, want %v", got, want)
	}
	for i, b := range buckets {
		if b.Index != i {
			t.Fatalf("bucket %d has index %d", i, b.Index)
		}
	}
}

func TestGroupIsDeterministic(t *testing.T) {
	f := Filter{Prefix: "IMG_", Extensions: []string{"JPG", "jpg"}}
	names := []string{"IMG_3.jpg", "IMG_1.JPG", "notes.txt", "IMG_2.jpg", "IMG_9.jpg"}
	first, err := Group(f, names, 2)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Group(f, names, 2)
		if err != nil {
			t.Fatalf("Group: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Group is not deterministic: %v vs %v", first, again)
		}
	}
}

func TestGroupSkipsNonQualifyingWithoutAdvancing(t *testing.T) {
	f := Filter{Prefix: "IMG_", Extensions: []string{"jpg"}}
	names := []string{"IMG_1.jpg", "thumbs.db", "IMG_2.jpg", "DSC_1.jpg", "IMG_3.jpg"}
	buckets, err := Group(f, names, 2)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	want := [][]string{{"IMG_1.jpg", "IMG_3.jpg"}, {"IMG_2.jpg"}}
	if got := files(buckets); !reflect.DeepEqual(got, want) {
		t.Fatalf("Group() = %v, want %v", got, want)
	}
	if !NonEmpty(buckets) || Total(buckets) != 3 {
		t.Fatalf("expected 3 grouped files, got %d", Total(buckets))
	}
}

func TestGroupNoMatchesYieldsEmptyBuckets(t *testing.T) {
	f := Filter{Prefix: "M", Extensions: []string{"mpg"}}
	buckets, err := Group(f, []string{"clip.mov", "readme", "X001.mpg"}, 4)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(buckets) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(buckets))
	}
	if Total(buckets) != 0 || NonEmpty(buckets) {
		t.Fatalf("expected all buckets empty, got %v", files(buckets))
	}
}

func TestGroupRejectsZeroBuckets(t *testing.T) {
	if _, err := Group(Filter{}, nil, 0); !errors.Is(err, ErrNoBuckets) {
		t.Fatalf("expected ErrNoBuckets, got %v", err)
	}
}

func TestFilterMatch(t *testing.T) {
	f := Filter{Prefix: "M", Extensions: []string{"mpg", "MPG"}, Exclude: []string{"Mcombined.mpg"}}
	tests := []struct {
		name string
		want bool
	}{
		{"M001.mpg", true},
		{"M001.MPG", true},
		{"M001.Mpg", false},
		{"m001.mpg", false},
		{"X001.mpg", false},
		{"M001", false},
		{"M001.mpg.part", false},
		{"Mcombined.mpg", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Match(tt.name); got != tt.want {
				t.Fatalf("Match(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestFilterMatchNormalizesUnicode(t *testing.T) {
	f := Filter{Prefix: "\u00c9t\u00e9_", Extensions: []string{"jpg"}}
	if !f.Match("E\u0301te\u0301_01.jpg") {
		t.Fatal("expected decomposed name to match composed prefix")
	}
}

func TestSelectKeepsOrder(t *testing.T) {
	f := Filter{Extensions: []string{"mpg"}}
	got := f.Select([]string{"b.mpg", "x.txt", "a.mpg"})
	if want := []string{"b.mpg", "a.mpg"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Select() = %v, want %v", got, want)
	}
}

func TestBucketLabel(t *testing.T) {
	if got := (Bucket{Index: 7}).Label(); got != "seq007" {
		t.Fatalf("Label() = %q", got)
	}
}
