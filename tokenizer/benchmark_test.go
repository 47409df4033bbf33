package tokenizer_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/steosofficial/steostokenizer/tokenizer"
	"github.com/steosofficial/steostokenizer/viterbi"
)

// Эта переменная нужна, чтобы компилятор не "выкинул" вызовы как бесполезные.
var benchmarkResult interface{}

// sentences - тексты для бенчмарков, смешанные известные и неизвестные слова.
var sentences = []string{
	"お寿司が食べたい。",
	"東京都に行きたい、京都は？",
	"カタカナとひらがなとXYZ 123",
	"かみを食べたい。",
}

func benchmarkTexts(count int) []string {
	texts := make([]string, count)
	for i := range texts {
		texts[i] = sentences[i%len(sentences)]
	}
	return texts
}

// BenchmarkTokenize тестирует последовательный разбор в разных режимах.
func BenchmarkTokenize(b *testing.B) {
	for _, mode := range []viterbi.Mode{viterbi.Normal, viterbi.Search, viterbi.Extended} {
		b.Run(mode.String(), func(b *testing.B) {
			tk, err := tokenizer.New(set, tokenizer.WithMode(mode))
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				benchmarkResult = tk.Tokenize(sentences[i%len(sentences)])
			}
		})
	}
}

// BenchmarkTokenizeLong тестирует длинный текст без разбиения и с разбиением по предложениям.
func BenchmarkTokenizeLong(b *testing.B) {
	text := strings.Repeat("お寿司が食べたい。東京都に行きたい、", 200)
	for _, split := range []bool{false, true} {
		b.Run(fmt.Sprintf("split=%v", split), func(b *testing.B) {
			var opts []tokenizer.Option
			if split {
				opts = append(opts, tokenizer.WithSentenceSplit())
			}
			tk, err := tokenizer.New(set, opts...)
			if err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(len(text)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				benchmarkResult = tk.Tokenize(text)
			}
		})
	}
}

// BenchmarkTokenizeList тестирует пакетный разбор пулом воркеров.
func BenchmarkTokenizeList(b *testing.B) {
	texts := benchmarkTexts(10_000)
	b.Run(fmt.Sprintf("%d_texts", len(texts)), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			benchmarkResult = tok.TokenizeList(texts)
		}
	})
}
