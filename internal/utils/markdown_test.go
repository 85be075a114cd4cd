package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	t.Run("formats text", func(t *testing.T) {
		out := string(RenderMarkdown("**bold** text"))
		assert.Contains(t, out, "<strong>bold</strong>")
	})

	t.Run("strips scripts", func(t *testing.T) {
		out := string(RenderMarkdown("hi <script>alert(1)</script>"))
		assert.NotContains(t, out, "<script>")
	})

	t.Run("images load lazily", func(t *testing.T) {
		out := string(RenderMarkdown("![cat](https://example.com/cat.gif)"))
		assert.Contains(t, out, `loading="lazy"`)
	})

	t.Run("mentions link to profiles", func(t *testing.T) {
		out := string(RenderMarkdown("thanks @leo.tolstoy. and (@anna)"))
		assert.Contains(t, out, `<a class="mention" href="/profile/leo.tolstoy/">@leo.tolstoy</a>.`)
		assert.Contains(t, out, `(<a class="mention" href="/profile/anna/">@anna</a>)`)
	})

	t.Run("mentions skip code and emails", func(t *testing.T) {
		out := string(RenderMarkdown("`@inline` mail me at bob@example.com"))
		assert.NotContains(t, out, "mention")
	})

	t.Run("text stays escaped", func(t *testing.T) {
		out := string(RenderMarkdown("1 &lt; 2 @ann"))
		assert.Contains(t, out, "1 &lt; 2")
		assert.Contains(t, out, `href="/profile/ann/"`)
	})
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestRandString(t *testing.T) {
	s := RandString(7)
	assert.Len(t, s, 7)
	assert.NotEqual(t, s, RandString(7))
}
