package fst

import (
	"bytes"
	"errors"
	"sort"
	"testing"
)

func mustBuild(t *testing.T, words []string) *FST {
	t.Helper()
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	blob, err := Build(sorted)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f, err := New(blob)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestLookup_Ranks(t *testing.T) {
	words := []string{"すし", "お寿司", "お", "寿司", "が", "食べ", "食べる", "たい", "。", "東京", "東京都", "京都"}
	f := mustBuild(t, words)

	sorted := append([]string(nil), words...)
	sort.Strings(sorted)

	if f.Len() != len(sorted) {
		t.Fatalf("Len() = %d, ожидалось %d", f.Len(), len(sorted))
	}
	for want, w := range sorted {
		t.Run(w, func(t *testing.T) {
			got, ok := f.Lookup(w)
			if !ok {
				t.Fatalf("слово %q не найдено", w)
			}
			if got != want {
				t.Errorf("Lookup(%q) = %d, ожидалось %d", w, got, want)
			}
		})
	}
}

func TestLookup_NonMembers(t *testing.T) {
	f := mustBuild(t, []string{"東京", "東京都", "京都"})

	testCases := []struct {
		name string
		word string
	}{
		{name: "Префикс слова", word: "東"},
		{name: "Продолжение слова", word: "東京都庁"},
		{name: "Незнакомый символ", word: "大阪"},
		{name: "Пустая строка", word: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if rank, ok := f.Lookup(tc.word); ok {
				t.Errorf("Lookup(%q) = %d, слово не должно находиться", tc.word, rank)
			}
		})
	}
}

func TestPrefixMatches(t *testing.T) {
	f := mustBuild(t, []string{"東", "東京", "東京都", "京都", "都"})
	text := []rune("東京都に")

	type match struct{ length, rank int }
	var got []match
	f.PrefixMatches(text, 0, func(length, rank int) {
		got = append(got, match{length, rank})
	})

	want := []string{"東", "東京", "東京都"}
	if len(got) != len(want) {
		t.Fatalf("найдено %d совпадений, ожидалось %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].length != len([]rune(w)) {
			t.Errorf("совпадение %d: длина %d, ожидалась %d", i, got[i].length, len([]rune(w)))
		}
		if rank, _ := f.Lookup(w); rank != got[i].rank {
			t.Errorf("совпадение %d: ранг %d, Lookup дает %d", i, got[i].rank, rank)
		}
	}

	var fromMiddle []int
	f.PrefixMatches(text, 2, func(length, _ int) { fromMiddle = append(fromMiddle, length) })
	if len(fromMiddle) != 1 || fromMiddle[0] != 1 {
		t.Errorf("совпадения с позиции 2: %v, ожидалось [1]", fromMiddle)
	}
}

func TestEach_EnumeratesSortedWords(t *testing.T) {
	words := []string{"かみ", "かみさま", "かも", "かもめ", "さかな", "な"}
	f := mustBuild(t, words)

	var got []string
	f.Each(func(word string, rank int) {
		if rank != len(got) {
			t.Errorf("слово %q: ранг %d, ожидалось %d", word, rank, len(got))
		}
		got = append(got, word)
	})
	if len(got) != len(words) {
		t.Fatalf("перечислено %d слов, ожидалось %d", len(got), len(words))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Errorf("слово %d: %q, ожидалось %q", i, got[i], words[i])
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	words := []string{"あ", "あい", "あいう", "いう", "う", "かう", "さう"}
	a, err := Build(words)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(words)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("повторная сборка дала другой результат")
	}
}

func TestBuild_SharesSuffixes(t *testing.T) {
	// Пять слов с общим окончанием "いする": минимальный автомат хранит его один раз.
	words := []string{"あいする", "かいする", "さいする", "たいする", "ないする"}
	blob, err := Build(words)
	if err != nil {
		t.Fatal(err)
	}
	f, err := New(blob)
	if err != nil {
		t.Fatal(err)
	}
	// Корень, общий узел после первого символа и три узла "いする".
	if f.nodeCount != 5 {
		t.Errorf("узлов %d, ожидалось 5", f.nodeCount)
	}
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("Нарушение порядка", func(t *testing.T) {
		b := NewBuilder()
		if err := b.Add("い"); err != nil {
			t.Fatal(err)
		}
		if err := b.Add("あ"); !errors.Is(err, ErrOutOfOrder) {
			t.Errorf("ожидалась ErrOutOfOrder, получено %v", err)
		}
	})
	t.Run("Повтор", func(t *testing.T) {
		b := NewBuilder()
		_ = b.Add("あ")
		if err := b.Add("あ"); !errors.Is(err, ErrOutOfOrder) {
			t.Errorf("ожидалась ErrOutOfOrder, получено %v", err)
		}
	})
	t.Run("Пустое слово", func(t *testing.T) {
		if err := NewBuilder().Add(""); !errors.Is(err, ErrEmptyWord) {
			t.Errorf("ожидалась ErrEmptyWord, получено %v", err)
		}
	})
	t.Run("Некорректный UTF-8", func(t *testing.T) {
		b := NewBuilder()
		if err := b.Add("a\xfe"); !errors.Is(err, ErrInvalidUTF8) {
			t.Errorf("ожидалась ErrInvalidUTF8, получено %v", err)
		}
		if b.Len() != 0 {
			t.Errorf("Len() = %d после отклоненного слова", b.Len())
		}
	})
}

func TestNew_Corrupt(t *testing.T) {
	blob, err := Build([]string{"あ", "い"})
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{name: "Неверная сигнатура", mutate: func(b []byte) []byte { b[0] = 'X'; return b }},
		{name: "Обрезанный блок", mutate: func(b []byte) []byte { return b[:len(b)-1] }},
		{name: "Ребро в несуществующий узел", mutate: func(b []byte) []byte {
			// target первого ребра
			p := len(b) - 2*edgeSize + 4
			b[p] = 0xFF
			return b
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.mutate(append([]byte(nil), blob...))
			if _, err := New(b); !errors.Is(err, ErrCorrupt) {
				t.Errorf("ожидалась ErrCorrupt, получено %v", err)
			}
		})
	}
}

func TestEmptyAutomaton(t *testing.T) {
	blob, err := Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := New(blob)
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d", f.Len())
	}
	called := false
	f.PrefixMatches([]rune("あ"), 0, func(int, int) { called = true })
	if called {
		t.Error("в пустом автомате не должно быть совпадений")
	}
}
