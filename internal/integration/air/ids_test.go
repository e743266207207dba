package air

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "numeric", raw: "42", want: "42"},
		{name: "numeric with whitespace", raw: "  42 ", want: "42"},
		{name: "uuid", raw: "3f6b1a2c-0d4e-4f5a-8b9c-1d2e3f4a5b6c", want: "3f6b1a2c-0d4e-4f5a-8b9c-1d2e3f4a5b6c"},
		{name: "slug", raw: "endpoint_ABC-7", want: "endpoint_ABC-7"},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace only", raw: "   ", wantErr: true},
		{name: "path traversal", raw: "../../etc/passwd", wantErr: true},
		{name: "embedded space", raw: "42 43", wantErr: true},
		{name: "query injection", raw: "42?admin=true", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeID(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractEntityID(t *testing.T) {
	tests := []struct {
		name    string
		entity  map[string]interface{}
		want    string
		wantErr bool
	}{
		{
			name:   "underscore id wins",
			entity: map[string]interface{}{"_id": "abc", "id": "ignored"},
			want:   "abc",
		},
		{
			name:   "plain id",
			entity: map[string]interface{}{"id": "abc"},
			want:   "abc",
		},
		{
			name:   "typed id",
			entity: map[string]interface{}{"taskId": "t-9"},
			want:   "t-9",
		},
		{
			name:   "capitalized fallback",
			entity: map[string]interface{}{"Id": "x"},
			want:   "x",
		},
		{
			name:   "numeric id formats without exponent",
			entity: map[string]interface{}{"_id": float64(1234567890123)},
			want:   "1234567890123",
		},
		{
			name:   "null probe falls through to next",
			entity: map[string]interface{}{"_id": nil, "id": "real"},
			want:   "real",
		},
		{
			name:    "no id fields",
			entity:  map[string]interface{}{"name": "orphan", "status": "ok"},
			wantErr: true,
		},
		{
			name:    "zero numeric id treated as absent",
			entity:  map[string]interface{}{"_id": float64(0)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractEntityID(tt.entity, "task")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A failed extraction names the fields that were present, so operators can
// see what the server actually sent.
func TestExtractEntityID_ErrorListsFields(t *testing.T) {
	_, err := ExtractEntityID(map[string]interface{}{"zeta": 1, "alpha": 2}, "case")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha, zeta")
}

func TestValidEntity(t *testing.T) {
	entity := map[string]interface{}{"_id": "1", "name": "Acme", "note": ""}

	assert.True(t, ValidEntity(entity, "organization", []string{"name"}))
	assert.False(t, ValidEntity(entity, "organization", []string{"note"}))
	assert.False(t, ValidEntity(entity, "organization", []string{"missing"}))
	assert.False(t, ValidEntity(map[string]interface{}{"name": "no-id"}, "organization", nil))
}
