package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html lang="fr">
<head><title> Release notes </title><script>var x = 1;</script></head>
<body>
  <nav><a href="/">Home</a></nav>
  <main>
    <h1>Changes</h1>
    <ul><li>Faster</li><li>Smaller</li></ul>
  </main>
  <footer>Copyright</footer>
</body>
</html>`

func TestMainContentPrefersMainAndDropsNoise(t *testing.T) {
	got, err := MainContent(page)
	require.NoError(t, err)
	assert.Contains(t, got, "<h1>Changes</h1>")
	assert.NotContains(t, got, "Home")
	assert.NotContains(t, got, "Copyright")
}

func TestExtractProducesMarkdown(t *testing.T) {
	md, err := New().Extract(page)
	require.NoError(t, err)
	assert.Contains(t, md, "# Changes")
	assert.Contains(t, md, "- Faster")
	assert.NotContains(t, md, "<main>")
}

func TestInfo(t *testing.T) {
	info := Info(page)
	assert.Equal(t, "Release notes", info.Title)
	assert.Equal(t, "fr", info.Language)

	assert.Equal(t, PageInfo{}, Info("<p>fragment</p>"))
}
