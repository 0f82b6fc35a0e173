package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/friendsofgo/errors"
	"github.com/stretchr/testify/require"
)

func TestReadJSONOrJSON5AsJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.json"), []byte(`{"location":"westus"}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "commented.json5"), []byte("{\n  // region\n  \"location\": \"eastus\",\n}"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "both.json"), []byte(`{}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "both.json5"), []byte(`{}`), 0600))

	testCases := []struct {
		path     string
		valid    bool
		json5    bool
		contains string
	}{
		{path: "plain.json", valid: true, contains: `"westus"`},
		{path: "plain", valid: true, contains: `"westus"`},
		{path: "commented.json5", valid: true, json5: true, contains: `"eastus"`},
		{path: "commented", valid: true, json5: true, contains: `"eastus"`},
		{path: "both", valid: false},
		{path: "missing", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			data, wasJSON5, err := ReadJSONOrJSON5AsJSON(filepath.Join(dir, tc.path))
			if !tc.valid {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.json5, wasJSON5)
			require.Contains(t, string(data), tc.contains)
			require.NotContains(t, string(data), "//")
		})
	}
}

func TestReadJSONOrJSON5AsJSON_NotExist(t *testing.T) {
	_, _, err := ReadJSONOrJSON5AsJSON(filepath.Join(t.TempDir(), "webapp"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}
