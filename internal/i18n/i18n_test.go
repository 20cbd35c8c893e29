package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, "రోజులు", Lookup("te", English).T("days"))
	assert.Equal(t, "days", Lookup("fr", English).T("days"))
	assert.Equal(t, "నెల", Lookup("fr", Telugu).T("month"))
	assert.Equal(t, "years", Lookup("EN-gb", "").T("years"))
	assert.Equal(t, "unknownKey", Lookup(English, "").T("unknownKey"))
}

func TestFromAcceptLanguage(t *testing.T) {
	assert.Equal(t, "te", FromAcceptLanguage("te-IN,te;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", FromAcceptLanguage("fr-FR;q=0.9, en-US;q=0.7"))
	assert.Equal(t, "", FromAcceptLanguage("de"))
	assert.Equal(t, "", FromAcceptLanguage(""))
}

func TestFromAcceptLanguageHonoursWeights(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"en;q=0.1, te;q=0.9", Telugu},
		{"te;q=0.2, en-GB;q=0.8", English},
		{"de, te;q=0.5", Telugu},
		{"te;q=0, en;q=0.3", English},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAcceptLanguage(tt.header))
		})
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(English))
	assert.True(t, Supported(Telugu))
	assert.False(t, Supported("hi"))
}
