package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TopicBridge/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	cat, err := Default()
	require.NoError(t, err)

	topics := cat.Topics()
	require.Len(t, topics, 12)
	assert.Equal(t, "Global AI Regulation Summit 2024", topics[0].Title)
	assert.Equal(t, domain.CategoryTech, topics[0].Category)
	assert.True(t, topics[0].IsInternational)
	require.NotNil(t, topics[0].ControversyPrediction)
	assert.Equal(t, 75, topics[0].ControversyPrediction.Score)
	assert.Len(t, topics[0].TrendAnalysis, 5)

	top := cat.Top(3)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"1", "11", "12"}, []string{top[0].ID, top[1].ID, top[2].ID})
}

func TestTopicsReturnsCopy(t *testing.T) {
	t.Parallel()

	cat, err := Default()
	require.NoError(t, err)

	topics := cat.Topics()
	topics[0].Title = "mutated"
	assert.NotEqual(t, "mutated", cat.Topics()[0].Title)
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("- {id: a, title: one}\n- {id: a, title: two}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicated")

	_, err = Parse([]byte("- {title: nameless}\n"))
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- {id: x, title: Custom, category: Science}\n"), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cat.Topics(), 1)
	assert.Equal(t, domain.CategoryScience, cat.Topics()[0].Category)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
