package air

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocator(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		wantMode LocatorMode
		wantVal  string
		wantErr  bool
	}{
		{name: "bare string is an ID", value: "42", wantMode: LocatorModeID, wantVal: "42"},
		{name: "id object", value: map[string]interface{}{"mode": "id", "value": "42"}, wantMode: LocatorModeID, wantVal: "42"},
		{name: "list object", value: map[string]interface{}{"mode": "list", "value": "7"}, wantMode: LocatorModeList, wantVal: "7"},
		{name: "name object", value: map[string]interface{}{"mode": "name", "value": "Acme"}, wantMode: LocatorModeName, wantVal: "Acme"},
		{name: "numeric value coerced to string", value: map[string]interface{}{"mode": "id", "value": float64(5)}, wantMode: LocatorModeID, wantVal: "5"},
		{name: "empty string", value: "  ", wantErr: true},
		{name: "missing value", value: map[string]interface{}{"mode": "id"}, wantErr: true},
		{name: "unknown mode", value: map[string]interface{}{"mode": "url", "value": "x"}, wantErr: true},
		{name: "wrong type", value: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator, err := ParseLocator(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, locator.Mode)
			assert.Equal(t, tt.wantVal, locator.Value)
		})
	}
}

func TestResolveOrganization(t *testing.T) {
	resolver := &stubResolver{byName: map[string]int{"Acme": 42}}

	t.Run("id mode uses value verbatim", func(t *testing.T) {
		ref, err := (&ResourceLocator{Mode: LocatorModeID, Value: "7"}).ResolveOrganization(context.Background(), resolver)
		require.NoError(t, err)
		assert.Equal(t, 7, ref.ID)
	})

	t.Run("non-numeric id stays a string", func(t *testing.T) {
		ref, err := (&ResourceLocator{Mode: LocatorModeID, Value: "org-x"}).ResolveOrganization(context.Background(), resolver)
		require.NoError(t, err)
		assert.Equal(t, "org-x", ref.ID)
	})

	t.Run("name mode goes through the resolver", func(t *testing.T) {
		ref, err := (&ResourceLocator{Mode: LocatorModeName, Value: "Acme"}).ResolveOrganization(context.Background(), resolver)
		require.NoError(t, err)
		assert.Equal(t, 42, ref.ID)
	})

	t.Run("unresolvable name fails", func(t *testing.T) {
		_, err := (&ResourceLocator{Mode: LocatorModeName, Value: "Ghost"}).ResolveOrganization(context.Background(), resolver)
		assert.Error(t, err)
	})
}
