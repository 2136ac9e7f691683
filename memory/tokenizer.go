package memory

import (
	"time"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer measures text length in tokens.
type Tokenizer interface {
	Count(text string) int
}

// CharTokenizer counts characters (runes).
type CharTokenizer struct{}

// Count implements Tokenizer.
func (CharTokenizer) Count(text string) int { return utf8.RuneCountInString(text) }

// TiktokenTokenizer counts BPE tokens for an OpenAI model encoding.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenTokenizer resolves the encoding used by modelName
// (e.g. "gpt-3.5-turbo").
func NewTiktokenTokenizer(modelName string) (*TiktokenTokenizer, error) {
	enc, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		return nil, err
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

// Count implements Tokenizer.
func (t *TiktokenTokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// EncodingLoadTimeout bounds how long TokenizerFor waits for an encoding.
// tiktoken-go downloads the BPE file over HTTP on first use unless it is
// already in TIKTOKEN_CACHE_DIR, which would stall offline hosts.
const EncodingLoadTimeout = 10 * time.Second

// TokenizerFor returns a tiktoken tokenizer for modelName, or CharTokenizer
// when modelName is empty or its encoding cannot be loaded within
// EncodingLoadTimeout. Pre-populate TIKTOKEN_CACHE_DIR to run offline.
func TokenizerFor(modelName string) Tokenizer {
	return tokenizerFor(modelName, EncodingLoadTimeout, NewTiktokenTokenizer)
}

func tokenizerFor(modelName string, timeout time.Duration, load func(string) (*TiktokenTokenizer, error)) Tokenizer {
	if modelName == "" {
		return CharTokenizer{}
	}

	type result struct {
		tok *TiktokenTokenizer
		err error
	}
	done := make(chan result, 1)
	go func() {
		tok, err := load(modelName)
		done <- result{tok, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return CharTokenizer{}
		}
		return r.tok
	case <-time.After(timeout):
		return CharTokenizer{}
	}
}

var (
	_ Tokenizer = CharTokenizer{}
	_ Tokenizer = (*TiktokenTokenizer)(nil)
)
