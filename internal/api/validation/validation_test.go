package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeBareURL(t *testing.T) {
	t.Run("MatchesURLs", func(t *testing.T) {
		for _, s := range []string{
			"http://example.com",
			"https://www.alltrails.com/trail/us/california/half-dome",
			"HTTPS://EXAMPLE.COM",
			"https://example.com some trailing words",
		} {
			assert.True(t, LooksLikeBareURL(s), s)
		}
	})

	t.Run("IgnoresPlainText", func(t *testing.T) {
		for _, s := range []string{
			"",
			"Hiking Half Dome next weekend",
			"see https://example.com for details",
			"httpsomething else",
		} {
			assert.False(t, LooksLikeBareURL(s), s)
		}
	})
}
