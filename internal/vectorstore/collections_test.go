package vectorstore

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewCollections_Errors(t *testing.T) {
	if _, err := NewCollections(nil, "default"); !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("empty mapping: err = %v, want ErrUnknownCollection", err)
	}

	_, err := NewCollections(map[string]string{"default": "produtos"}, "chunks_500")
	if !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("absent default purpose: err = %v, want ErrUnknownCollection", err)
	}
}

func TestCollections_Resolve(t *testing.T) {
	c, err := NewCollections(map[string]string{
		"default":    "produtos_1000",
		"chunks_500": "produtos_500",
	}, "default")
	if err != nil {
		t.Fatalf("NewCollections: %v", err)
	}

	tests := []struct {
		name    string
		purpose string
		want    string
		wantErr bool
	}{
		{name: "explicit purpose", purpose: "chunks_500", want: "produtos_500"},
		{name: "default via empty purpose", purpose: "", want: "produtos_1000"},
		{name: "named default", purpose: "default", want: "produtos_1000"},
		{name: "unknown purpose", purpose: "experiments", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Resolve(tt.purpose)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCollection) {
					t.Errorf("Resolve(%q) err = %v, want ErrUnknownCollection", tt.purpose, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.purpose, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.purpose, got, tt.want)
			}
		})
	}
}

func TestCollections_NamesSortedDeduplicated(t *testing.T) {
	c, err := NewCollections(map[string]string{
		"default": "produtos",
		"alias":   "produtos",
		"small":   "produtos_500",
	}, "default")
	if err != nil {
		t.Fatalf("NewCollections: %v", err)
	}

	want := []string{"produtos", "produtos_500"}
	if got := c.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestCollections_Default(t *testing.T) {
	c, err := NewCollections(map[string]string{"default": "produtos"}, "default")
	if err != nil {
		t.Fatalf("NewCollections: %v", err)
	}
	if got := c.Default(); got != "produtos" {
		t.Errorf("Default() = %q, want %q", got, "produtos")
	}
}
