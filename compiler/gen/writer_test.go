package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pygen/internal/testutil"
)

func TestManifestWriter_WriteAll(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML, FormatMsgpack} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			person, role := movieViews()
			cfg := MustNewConfig(WithTarget(dir), WithFormat(format), WithLogger(testutil.NewTestLogger(t)))
			g, err := NewGraph(cfg, testutil.Model("Studio", person, role), testutil.Model("Crew", person))
			require.NoError(t, err)

			w := NewManifestWriter(g).WithWorkers(2).WithGenerator("v0.1.0")
			require.NoError(t, w.WriteAll(context.Background()))

			metrics := w.Metrics()
			assert.Equal(t, 3, metrics.FilesWritten)
			assert.Positive(t, metrics.TotalBytes)
			assert.NotEmpty(t, metrics.RunID)

			for _, name := range []string{"manifest", "studio", "crew"} {
				assert.FileExists(t, filepath.Join(dir, name+"."+format))
			}

			data, err := os.ReadFile(filepath.Join(dir, "manifest."+format))
			require.NoError(t, err)
			m, err := Decode(format, data)
			require.NoError(t, err)
			assert.Equal(t, metrics.RunID, m.RunID)
			assert.Equal(t, "v0.1.0", m.Generator)

			want, err := Export(g)
			require.NoError(t, err)
			require.Len(t, m.DataClasses, len(want.DataClasses))
			assert.Equal(t, want.DataClasses[1].Name, m.DataClasses[1].Name)
			assert.Equal(t, want.DataClasses[1].Filter.Parameters, m.DataClasses[1].Filter.Parameters)
			assert.Equal(t, want.APIClasses, m.APIClasses)
			assert.Equal(t, []string{"PersonAPI"}, m.MultiAPIClasses[1].APIs)
		})
	}
}

func TestManifestWriter_Errors(t *testing.T) {
	person, role := movieViews()

	t.Run("missing target", func(t *testing.T) {
		g, err := NewGraph(newTestConfig(t), testutil.Model("Studio", person, role))
		require.NoError(t, err)
		err = NewManifestWriter(g).WriteAll(context.Background())
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		cfg := MustNewConfig(WithTarget(t.TempDir()), WithLogger(testutil.NewTestLogger(t)))
		g, err := NewGraph(cfg, testutil.Model("Studio", person, role))
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = NewManifestWriter(g).WriteAll(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestEncodeDecode(t *testing.T) {
	_, err := Encode("toml", &Manifest{})
	require.Error(t, err)
	_, err = Decode("toml", nil)
	require.Error(t, err)

	data, err := Encode(FormatJSON, &Manifest{Generator: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"generator\": \"x\"")
	m, err := Decode("", data)
	require.NoError(t, err)
	assert.Equal(t, "x", m.Generator)
}
