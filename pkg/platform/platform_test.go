package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/mdpkm/pkg/platform"
	"github.com/macropower/mdpkm/pkg/platform/static"
)

func TestVersionFilters(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		version string
		want    []string
	}{
		"patch release": {
			version: "1.20.1",
			want:    []string{"1.20.1", "1.20"},
		},
		"minor release": {
			version: "1.21",
			want:    []string{"1.21"},
		},
		"two digit patch": {
			version: "1.20.10",
			want:    []string{"1.20.10", "1.20"},
		},
		"short minor keeps four characters": {
			version: "1.8.9",
			want:    []string{"1.8.9", "1.8."},
		},
		"snapshot without dots": {
			version: "24w14a",
			want:    []string{"24w14a", "24w1"},
		},
		"short version": {
			version: "1.2",
			want:    []string{"1.2"},
		},
		"empty": {
			version: "",
			want:    nil,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, platform.VersionFilters(tc.version))
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	a := static.New(nil, static.WithID("a"))
	b := static.New(nil, static.WithID("b"))

	r, err := platform.NewRegistry(a, b)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, r.IDs())

	got, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID())

	_, err = r.Get("c")
	require.ErrorIs(t, err, platform.ErrUnknownPlatform)

	err = r.Register(static.New(nil, static.WithID("a")))
	require.ErrorIs(t, err, platform.ErrDuplicate)

	assert.Equal(t, "b", r.Next("a"))
	assert.Equal(t, "a", r.Next("b"))
	assert.Equal(t, "a", r.Next("unknown"))
}

func TestProjectNormalize(t *testing.T) {
	t.Parallel()

	p := platform.Project{Slug: "sodium"}.Normalize()
	assert.Equal(t, "sodium", p.Title)

	p = platform.Project{Slug: "sodium", Title: "Sodium"}.Normalize()
	assert.Equal(t, "Sodium", p.Title)
}
