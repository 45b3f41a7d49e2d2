package schema_test

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/mdpkm/pkg/schema"
)

const testSchemaURL = "https://example.test/schema.json"

var testSchema = []byte(`{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {"size": {"type": "integer", "minimum": 1}}
			}
		}
	},
	"required": ["name"],
	"additionalProperties": false
}`)

func TestValidationError(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  schema.ValidationError
		want string
	}{
		"with path": {
			err: schema.ValidationError{
				Path:   (&yaml.PathBuilder{}).Root().Child("search").Child("pageSize").Build(),
				Detail: "must be >= 1",
			},
			want: "error at $.search.pageSize: must be >= 1",
		},
		"with field": {
			err:  schema.ValidationError{Field: "kind", Detail: "required"},
			want: "error at kind: required",
		},
		"bare": {
			err:  schema.ValidationError{Detail: "bad"},
			want: "validation error: bad",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.err.Error())
			require.ErrorIs(t, tc.err, schema.ErrValidation)
		})
	}
}

func TestNewValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		data    []byte
		wantErr string
	}{
		"valid": {data: testSchema},
		"invalid json": {
			data:    []byte(`{"type": nope}`),
			wantErr: "unmarshal schema",
		},
		"invalid schema": {
			data:    []byte(`{"type": "invalid_type"}`),
			wantErr: "compile schema",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v, err := schema.NewValidator(testSchemaURL, tc.data)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				assert.Nil(t, v)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, v)
		})
	}

	assert.Panics(t, func() {
		schema.MustNewValidator(testSchemaURL, []byte(`{`))
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v := schema.MustNewValidator(testSchemaURL, testSchema)

	tcs := map[string]struct {
		data     any
		wantPath string
	}{
		"valid": {
			data: map[string]any{"name": "x", "items": []any{map[string]any{"size": 2}}},
		},
		"missing required": {
			data:     map[string]any{},
			wantPath: "$",
		},
		"nested": {
			data: map[string]any{
				"name":  "x",
				"items": []any{map[string]any{"size": 1}, map[string]any{"size": 0}},
			},
			wantPath: "$.items[1].size",
		},
		"unknown property": {
			data:     map[string]any{"name": "x", "extra": true},
			wantPath: "$",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(tc.data)
			if tc.wantPath == "" {
				require.NoError(t, err)
				return
			}

			var verr *schema.ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotNil(t, verr.Path)
			assert.Equal(t, tc.wantPath, verr.Path.String())
		})
	}
}

type generated struct {
	Name  string `json:"name"            jsonschema:"title=Name,minLength=1"`
	Count int    `json:"count,omitempty" jsonschema:"minimum=1"`
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	data, err := schema.Generate(testSchemaURL, &generated{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"$id": "`+testSchemaURL+`"`)

	v, err := schema.NewValidator(testSchemaURL, data)
	require.NoError(t, err)

	require.NoError(t, v.Validate(map[string]any{"name": "a", "count": 2}))
	require.Error(t, v.Validate(map[string]any{"name": ""}))
	require.Error(t, v.Validate(map[string]any{"count": 2}))
}
