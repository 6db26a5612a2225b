package onnx

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strings"
	"sync"
)

const (
	startToken = "<|startoftext|>"
	endToken   = "<|endoftext|>"
	wordSuffix = "</w>"
)

var clipPattern = regexp.MustCompile(`<\|startoftext\|>|<\|endoftext\|>|'s|'t|'re|'ve|'m|'ll|'d|\p{L}+|\p{N}|[^\s\p{L}\p{N}]+`)

// Tokenizer is the byte-level BPE tokenizer used by CLIP text encoders
type Tokenizer struct {
	vocab     map[string]int64
	ranks     map[[2]string]int
	byteRunes [256]rune
	startID   int64
	endID     int64
	context   int

	mu    sync.Mutex
	cache map[string][]string
}

// LoadTokenizer reads vocab.json and merges.txt
func LoadTokenizer(vocabPath, mergesPath string, contextLength int) (*Tokenizer, error) {
	vf, err := os.Open(vocabPath)
	if err != nil {
		return nil, err
	}
	defer vf.Close()

	mf, err := os.Open(mergesPath)
	if err != nil {
		return nil, err
	}
	defer mf.Close()

	return NewTokenizer(vf, mf, contextLength)
}

// NewTokenizer builds a tokenizer from vocab JSON and merges text readers
func NewTokenizer(vocab, merges io.Reader, contextLength int) (*Tokenizer, error) {
	t := &Tokenizer{
		ranks:   make(map[[2]string]int),
		context: contextLength,
		cache:   make(map[string][]string),
	}
	if err := json.NewDecoder(vocab).Decode(&t.vocab); err != nil {
		return nil, fmt.Errorf("decode vocab: %w", err)
	}

	var ok bool
	if t.startID, ok = t.vocab[startToken]; !ok {
		return nil, fmt.Errorf("vocab is missing %s", startToken)
	}
	if t.endID, ok = t.vocab[endToken]; !ok {
		return nil, fmt.Errorf("vocab is missing %s", endToken)
	}

	scanner := bufio.NewScanner(merges)
	rank := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#version") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		t.ranks[[2]string{parts[0], parts[1]}] = rank
		rank++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read merges: %w", err)
	}

	t.byteRunes = bytesToUnicode()
	return t, nil
}

// Encode returns padded token ids and the matching attention mask. Output is
// always exactly the context length; long input is truncated before the end
// token. Padding uses the end token id.
func (t *Tokenizer) Encode(text string) ([]int64, []int64) {
	ids := []int64{t.startID}
	for _, word := range clipPattern.FindAllString(normalizeText(text), -1) {
		for _, tok := range t.bpe(t.toUnicode(word)) {
			if id, ok := t.vocab[tok]; ok {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) > t.context-1 {
		ids = ids[:t.context-1]
	}
	ids = append(ids, t.endID)

	out := make([]int64, t.context)
	mask := make([]int64, t.context)
	for i := range out {
		if i < len(ids) {
			out[i] = ids[i]
			mask[i] = 1
		} else {
			out[i] = t.endID
		}
	}
	return out, mask
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (t *Tokenizer) toUnicode(word string) string {
	var b strings.Builder
	for _, c := range []byte(word) {
		b.WriteRune(t.byteRunes[c])
	}
	return b.String()
}

func (t *Tokenizer) bpe(token string) []string {
	t.mu.Lock()
	if cached, ok := t.cache[token]; ok {
		t.mu.Unlock()
		return cached
	}
	t.mu.Unlock()

	runes := []rune(token)
	if len(runes) == 0 {
		return nil
	}
	word := make([]string, len(runes))
	for i, r := range runes {
		word[i] = string(r)
	}
	word[len(word)-1] += wordSuffix

	for len(word) > 1 {
		best, bestRank := -1, math.MaxInt
		for i := 0; i < len(word)-1; i++ {
			if r, ok := t.ranks[[2]string{word[i], word[i+1]}]; ok && r < bestRank {
				best, bestRank = i, r
			}
		}
		if best < 0 {
			break
		}
		first, second := word[best], word[best+1]
		merged := make([]string, 0, len(word))
		for i := 0; i < len(word); i++ {
			if i < len(word)-1 && word[i] == first && word[i+1] == second {
				merged = append(merged, first+second)
				i++
				continue
			}
			merged = append(merged, word[i])
		}
		word = merged
	}

	t.mu.Lock()
	t.cache[token] = word
	t.mu.Unlock()
	return word
}

// bytesToUnicode maps every byte to a printable rune so BPE never sees
// whitespace or control characters.
func bytesToUnicode() [256]rune {
	var table [256]rune
	printable := func(b int) bool {
		return (b >= '!' && b <= '~') || (b >= 0xA1 && b <= 0xAC) || (b >= 0xAE && b <= 0xFF)
	}
	n := 0
	for b := 0; b < 256; b++ {
		if printable(b) {
			table[b] = rune(b)
		} else {
			table[b] = rune(256 + n)
			n++
		}
	}
	return table
}
