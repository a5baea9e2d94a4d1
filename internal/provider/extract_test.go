package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextOpenAI(t *testing.T) {
	raw := []byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`)
	assert.Equal(t, "hello", ExtractText(ProfileOpenAI, raw))
	assert.Equal(t, "hello", ExtractText(ProfileMistral, raw))
}

func TestExtractTextAnthropic(t *testing.T) {
	raw := []byte(`{"content":[{"type":"text","text":"part one "},{"type":"text","text":"part two"}]}`)
	assert.Equal(t, "part one part two", ExtractText(ProfileAnthropic, raw))
}

func TestExtractTextGoogle(t *testing.T) {
	raw := []byte(`{"candidates":[{"content":{"parts":[{"text":"generated"}],"role":"model"}}]}`)
	assert.Equal(t, "generated", ExtractText(ProfileGoogle, raw))
}

func TestExtractTextCohere(t *testing.T) {
	assert.Equal(t, "chat reply", ExtractText(ProfileCohere, []byte(`{"text":"chat reply"}`)))
	assert.Equal(t, "old shape", ExtractText(ProfileCohere, []byte(`{"generations":[{"text":"old shape"}]}`)))
}

func TestExtractTextGeneric(t *testing.T) {
	assert.Equal(t, "a", ExtractText(ProfileGeneric, []byte(`{"choices":[{"message":{"content":"a"}}]}`)))
	assert.Equal(t, "b", ExtractText(ProfileGeneric, []byte(`{"choices":[{"text":"b"}]}`)))
	assert.Equal(t, "c", ExtractText(ProfileGeneric, []byte(`{"response":"c"}`)))
	assert.Equal(t, "d", ExtractText(ProfileGeneric, []byte(`{"output":"d"}`)))
}

func TestExtractTextMalformed(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{}`),
		[]byte(`{"choices":[]}`),
		[]byte(`{"choices":"nope"}`),
		[]byte(`{"content":{"text":"wrong shape"}}`),
		[]byte(`{"candidates":[{"content":{}}]}`),
		nil,
	}
	for _, raw := range cases {
		for _, profile := range []Profile{ProfileOpenAI, ProfileAnthropic, ProfileGoogle, ProfileCohere, ProfileMistral, ProfileGeneric} {
			assert.Empty(t, ExtractText(profile, raw), "profile=%s raw=%s", profile, raw)
		}
	}
}
