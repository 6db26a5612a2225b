package onnx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVocab = `{
	"<|startoftext|>": 100,
	"<|endoftext|>": 101,
	"a": 1, "b": 2, "c": 3,
	"a</w>": 4, "b</w>": 5, "c</w>": 6,
	"ab</w>": 7, "ab": 8, "abc</w>": 9, "!</w>": 10
}`

const testMerges = `#version: 0.2
a b</w>
a b
ab c</w>
`

func newTestTokenizer(t *testing.T, ctx int) *Tokenizer {
	t.Helper()
	tok, err := NewTokenizer(strings.NewReader(testVocab), strings.NewReader(testMerges), ctx)
	require.NoError(t, err)
	return tok
}

func TestTokenizer_Encode(t *testing.T) {
	tok := newTestTokenizer(t, 8)

	ids, mask := tok.Encode("  AB   abc!")

	assert.Equal(t, []int64{100, 7, 9, 10, 101, 101, 101, 101}, ids)
	assert.Equal(t, []int64{1, 1, 1, 1, 1, 0, 0, 0}, mask)
}

func TestTokenizer_Truncates(t *testing.T) {
	tok := newTestTokenizer(t, 4)

	ids, mask := tok.Encode("a b c ab")

	assert.Equal(t, []int64{100, 4, 5, 101}, ids)
	assert.Equal(t, []int64{1, 1, 1, 1}, mask)
}

func TestTokenizer_MissingSpecialTokens(t *testing.T) {
	_, err := NewTokenizer(strings.NewReader(`{"a": 1}`), strings.NewReader(""), 77)
	assert.Error(t, err)
}

func TestBytesToUnicode(t *testing.T) {
	table := bytesToUnicode()

	assert.Equal(t, 'a', table['a'])
	assert.Equal(t, rune(256+32), table[' '])
	seen := make(map[rune]bool)
	for _, r := range table {
		assert.False(t, seen[r])
		seen[r] = true
	}
}
