package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const noisyPage = `<html><head><title>Park Tower</title><style>.x{color:red}</style></head>
<body>
<nav>Menu links</nav>
<div class="ad-banner">Buy now</div>
<p>3LDK apartment near Shibuya station.</p>
<script>var tracking = 1;</script>
<div class="Cookie-Consent">Accept cookies</div>
<footer>Copyright</footer>
</body></html>`

func TestParseExtractMode(t *testing.T) {
	testCases := []struct {
		input    string
		expected ExtractMode
		wantErr  bool
	}{
		{"", ModeBasic, false},
		{"basic", ModeBasic, false},
		{" Readability ", ModeReadability, false},
		{"trafilatura", ModeTrafilatura, false},
		{"magic", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			mode, err := ParseExtractMode(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, mode)
		})
	}
}

func TestExtractor_Basic(t *testing.T) {
	extractor := NewExtractor(ModeBasic, zap.NewNop())

	content, err := extractor.Extract([]byte(noisyPage), "https://example.com/listing")
	require.NoError(t, err)

	assert.Equal(t, "Park Tower", content.Title)
	assert.Contains(t, content.Text, "3LDK apartment near Shibuya station.")
	for _, unwanted := range []string{"Menu links", "Buy now", "tracking", "Accept cookies", "Copyright", "color:red"} {
		assert.NotContains(t, content.Text, unwanted)
	}
}

func TestExtractor_BasicKeepsBlocksApart(t *testing.T) {
	extractor := NewExtractor(ModeBasic, zap.NewNop())

	content, err := extractor.ExtractBasic([]byte(`<html><body><div>賃料12万円</div><div>2LDK</div></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "賃料12万円 2LDK", CleanScrapedText(content.Text))
}

const articlePage = `<html><head><title>Park Tower Shibuya</title></head>
<body>
<nav><a href="/">Home</a> <a href="/rent">Rent</a></nav>
<article>
<h1>Park Tower Shibuya</h1>
<p>Park Tower Shibuya is a twenty storey residential building completed in 2015, five minutes on foot from Shibuya station on the Yamanote line.</p>
<p>The listed unit is a south facing 3LDK of 75 square metres on the twelfth floor, with a large balcony, a fitted kitchen and floor heating in every room.</p>
<p>Monthly rent is 320,000 yen including the management fee. The deposit and key money are one month each, and pets are allowed after screening.</p>
<p>Supermarkets, a hospital and an elementary school are within a ten minute walk, and Yoyogi park is reachable by bicycle in under fifteen minutes.</p>
</article>
<footer>Copyright Example Realty</footer>
</body></html>`

func TestExtractor_TrafilaturaMarkdown(t *testing.T) {
	extractor := NewExtractor(ModeTrafilatura, zap.NewNop())

	content, err := extractor.Extract([]byte(articlePage), "https://example.com/listing")
	require.NoError(t, err)

	require.NotEmpty(t, content.Markdown)
	assert.Contains(t, content.Markdown, "Monthly rent is 320,000 yen")

	body, format := content.Body()
	assert.Equal(t, FormatMarkdown, format)
	assert.Equal(t, content.Markdown, body)
}
