package buffer_test

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/steosofficial/steostokenizer/buffer"
	"github.com/steosofficial/steostokenizer/compile"
)

// onlyReader скрывает методы bytes.Buffer, чтобы проверить путь с копированием.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func TestWriteRead_RoundTrip(t *testing.T) {
	blocks := [][]byte{{}, {1}, []byte("お寿司が食べたい。"), bytes.Repeat([]byte{0xAB}, 70000)}

	var stream bytes.Buffer
	for _, b := range blocks {
		if err := buffer.Write(&stream, b); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	raw := stream.Bytes()

	testCases := []struct {
		name string
		r    io.Reader
	}{
		{name: "bytes.Buffer без копирования", r: bytes.NewBuffer(raw)},
		{name: "Обычный io.Reader", r: onlyReader{bytes.NewReader(raw)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for i, want := range blocks {
				got, err := buffer.Read(tc.r)
				if err != nil {
					t.Fatalf("блок %d: %v", i, err)
				}
				if !bytes.Equal(got, want) {
					t.Errorf("блок %d: прочитано %d байт, ожидалось %d", i, len(got), len(want))
				}
			}
		})
	}
}

func TestRead_Truncated(t *testing.T) {
	var stream bytes.Buffer
	if err := buffer.Write(&stream, []byte("寿司")); err != nil {
		t.Fatal(err)
	}
	full := stream.Bytes()

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "Пустой поток", data: nil},
		{name: "Обрезанный префикс", data: full[:2]},
		{name: "Обрезанный блок", data: full[:len(full)-1]},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, r := range []io.Reader{bytes.NewBuffer(tc.data), onlyReader{bytes.NewReader(tc.data)}} {
				if _, err := buffer.Read(r); !errors.Is(err, io.ErrUnexpectedEOF) {
					t.Errorf("ожидалась io.ErrUnexpectedEOF, получено %v", err)
				}
			}
		})
	}
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestWrite_ShortWrite(t *testing.T) {
	if err := buffer.Write(shortWriter{}, []byte("abcd")); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("ожидалась io.ErrShortWrite, получено %v", err)
	}
}

func TestViews(t *testing.T) {
	var b []byte
	for _, v := range []int16{-1, 0, 32767, -32768} {
		b = buffer.AppendInt16(b, v)
	}
	v16, err := buffer.NewInt16View(b)
	if err != nil {
		t.Fatal(err)
	}
	if v16.Len() != 4 || v16.At(0) != -1 || v16.At(2) != 32767 || v16.At(3) != -32768 {
		t.Errorf("неверные значения int16: len=%d", v16.Len())
	}

	if _, err := buffer.NewInt16View([]byte{1, 2, 3}); !errors.Is(err, buffer.ErrMisaligned) {
		t.Errorf("ожидалась ErrMisaligned, получено %v", err)
	}
	if _, err := buffer.NewInt32View([]byte{1, 2, 3, 4, 5}); !errors.Is(err, buffer.ErrMisaligned) {
		t.Errorf("ожидалась ErrMisaligned, получено %v", err)
	}

	var b32 []byte
	for _, v := range []int32{7, -7, 1 << 30} {
		b32 = buffer.AppendInt32(b32, v)
	}
	v32, _ := buffer.NewInt32View(b32)
	if s := v32.Slice(1, 3); s.Len() != 2 || s.At(0) != -7 || s.At(1) != 1<<30 {
		t.Errorf("неверный Slice")
	}
}

// compileBlock записывает компилятор и снимает префикс длины.
func compileBlock(t *testing.T, c compile.Compiler) []byte {
	t.Helper()
	var stream bytes.Buffer
	if err := c.Compile(&stream); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	b, err := buffer.Read(&stream)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return b
}

func TestTokenInfoBuffer_Layouts(t *testing.T) {
	testCases := []struct {
		name     string
		distinct int
		layout   buffer.Layout
		pos      []int
	}{
		{name: "Части речи байтами", distinct: 10, layout: buffer.PosAsBytes, pos: []int{3, 0, 255}},
		{name: "Части речи 16-битными значениями", distinct: 300, layout: buffer.PosAsShorts, pos: []int{299, 0, 40000}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := compile.NewTokenInfoBufferCompiler(3, 2, tc.distinct)
			if err := c.Add(1, 2, -300, tc.pos, []int{5, 6}); err != nil {
				t.Fatal(err)
			}
			if err := c.Add(3, 4, 1200, []int{1, 1, 1}, []int{0, 100000}); err != nil {
				t.Fatal(err)
			}
			tib, err := buffer.NewTokenInfoBuffer(compileBlock(t, c))
			if err != nil {
				t.Fatal(err)
			}

			if tib.Layout() != tc.layout {
				t.Errorf("раскладка %v, ожидалась %v", tib.Layout(), tc.layout)
			}
			if tib.EntryCount() != 2 || tib.PartOfSpeechCount() != 3 || tib.FeatureCount() != 2 || tib.TotalFeatures() != 5 {
				t.Errorf("неверные размеры: %d %d %d", tib.EntryCount(), tib.PartOfSpeechCount(), tib.FeatureCount())
			}
			if got := []int{tib.LookupTokenInfo(0, buffer.LeftID), tib.LookupTokenInfo(0, buffer.RightID), tib.LookupTokenInfo(0, buffer.WordCost)}; !reflect.DeepEqual(got, []int{1, 2, -300}) {
				t.Errorf("tokenInfo слова 0: %v", got)
			}
			for i, want := range tc.pos {
				if got := tib.LookupPartOfSpeechFeature(0, i); got != want {
					t.Errorf("часть речи %d: %d, ожидалось %d", i, got, want)
				}
			}
			if got := tib.LookupFeature(1, 4); got != 100000 {
				t.Errorf("признак 4 слова 1: %d", got)
			}
			if !tib.IsPartOfSpeechFeature(2) || tib.IsPartOfSpeechFeature(3) {
				t.Error("неверная граница частей речи")
			}

			entry := tib.LookupEntry(0)
			if !reflect.DeepEqual(entry.PartOfSpeechIDs(), tc.pos) {
				t.Errorf("PartOfSpeechIDs = %v, ожидалось %v", entry.PartOfSpeechIDs(), tc.pos)
			}
			if !reflect.DeepEqual(entry.FeatureInfos, []int32{5, 6}) {
				t.Errorf("FeatureInfos = %v", entry.FeatureInfos)
			}
		})
	}
}

func TestTokenInfoBuffer_Corrupt(t *testing.T) {
	c := compile.NewTokenInfoBufferCompiler(1, 1, 1)
	_ = c.Add(0, 0, 0, []int{0}, []int{0})
	b := compileBlock(t, c)

	if _, err := buffer.NewTokenInfoBuffer(b[:len(b)-1]); !errors.Is(err, buffer.ErrCorrupt) {
		t.Errorf("ожидалась ErrCorrupt для обрезанной таблицы, получено %v", err)
	}
	if _, err := buffer.NewTokenInfoBuffer(b[:8]); !errors.Is(err, buffer.ErrCorrupt) {
		t.Errorf("ожидалась ErrCorrupt для обрезанного заголовка, получено %v", err)
	}
}

func TestTokenInfoBuffer_PanicsOutOfRange(t *testing.T) {
	c := compile.NewTokenInfoBufferCompiler(1, 1, 1)
	_ = c.Add(0, 0, 0, []int{0}, []int{0})
	tib, err := buffer.NewTokenInfoBuffer(compileBlock(t, c))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("ожидалась паника для несуществующего word id")
		}
	}()
	tib.LookupTokenInfo(1, buffer.LeftID)
}

func TestStringValueMapBuffer(t *testing.T) {
	values := []string{"名詞", "", "一般", "a,b", strings.Repeat("長", 100)}
	m, err := buffer.NewStringValueMapBuffer(compileBlock(t, compile.NewStringValueMapBufferCompiler(values)))
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != len(values) {
		t.Fatalf("Len() = %d", m.Len())
	}
	for i, want := range values {
		if got := m.Get(i); got != want {
			t.Errorf("Get(%d) = %q, ожидалось %q", i, got, want)
		}
	}

	b := compileBlock(t, compile.NewStringValueMapBufferCompiler(values))
	if _, err := buffer.NewStringValueMapBuffer(b[:len(b)-1]); !errors.Is(err, buffer.ErrCorrupt) {
		t.Errorf("ожидалась ErrCorrupt, получено %v", err)
	}
}

func TestWordIDMap(t *testing.T) {
	c := compile.NewWordIDMapCompiler(3)
	c.AddMapping(0, 4)
	c.AddMapping(1, 0)
	c.AddMapping(1, 1)
	c.AddMapping(1, 2)
	c.AddMapping(2, 3)

	m, err := buffer.NewWordIDMap(compileBlock(t, c))
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 3 {
		t.Fatalf("Len() = %d", m.Len())
	}
	if got := m.LookUp(1); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("омографы источника 1: %v, ожидалось [0 1 2]", got)
	}
	var each []int
	m.Each(0, func(id int) { each = append(each, id) })
	if !reflect.DeepEqual(each, []int{4}) {
		t.Errorf("Each(0) = %v", each)
	}
}

func TestWordIDMap_EmptySource(t *testing.T) {
	// Источник 1 без слов: offsets = [0, 1, 1, 2].
	var b []byte
	for _, v := range []int32{3, 0, 1, 1, 2, 7, 8} {
		b = buffer.AppendInt32(b, v)
	}
	if _, err := buffer.NewWordIDMap(b); !errors.Is(err, buffer.ErrCorrupt) {
		t.Errorf("ожидалась ErrCorrupt, получено %v", err)
	}

	c := compile.NewWordIDMapCompiler(2)
	c.AddMapping(0, 0)
	if err := c.Compile(io.Discard); err == nil {
		t.Error("компилятор должен отвергать источник без слов")
	}
}
