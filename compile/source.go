package compile

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/steosofficial/steostokenizer/dict"
)

// Имена исходных файлов словаря в формате MeCab.
const (
	MatrixDefFile = "matrix.def"
	CharDefFile   = "char.def"
	UnkDefFile    = "unk.def"
)

// SourceEncoding возвращает кодировку исходных файлов по имени.
// Исходники mecab-ipadic распространяются в EUC-JP, поэтому она поддерживается
// наравне с UTF-8 и Shift_JIS.
func SourceEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "euc-jp", "eucjp":
		return japanese.EUCJP, nil
	case "shift-jis", "sjis":
		return japanese.ShiftJIS, nil
	}
	return nil, fmt.Errorf("неподдерживаемая кодировка %q", name)
}

// LoadSourceDir читает исходный словарь из каталога на диске.
func LoadSourceDir(dir string, v dict.Variant, enc string) (*DictionaryCompiler, error) {
	return LoadSources(os.DirFS(dir), ".", v, enc)
}

// LoadSources читает исходный словарь: все *.csv каталога (по алфавиту имен),
// matrix.def, char.def и unk.def.
func LoadSources(fsys fs.FS, dir string, v dict.Variant, enc string) (*DictionaryCompiler, error) {
	e, err := SourceEncoding(enc)
	if err != nil {
		return nil, err
	}
	open := func(name string) (io.ReadCloser, io.Reader, error) {
		f, err := fsys.Open(path.Join(dir, name))
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка открытия %s: %w", name, err)
		}
		return f, transform.NewReader(f, e.NewDecoder()), nil
	}

	entries, err := LoadEntries(fsys, dir, v, enc)
	if err != nil {
		return nil, err
	}
	c := &DictionaryCompiler{Variant: v, Entries: entries}

	f, r, err := open(MatrixDefFile)
	if err != nil {
		return nil, err
	}
	c.Matrix, err = ParseMatrixDef(r)
	f.Close()
	if err != nil {
		return nil, err
	}

	f, r, err = open(CharDefFile)
	if err != nil {
		return nil, err
	}
	c.Chars, err = ParseCharDef(r)
	f.Close()
	if err != nil {
		return nil, err
	}

	f, r, err = open(UnkDefFile)
	if err != nil {
		return nil, err
	}
	c.Unknown, err = ReadUnknownEntries(r, v)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", UnkDefFile, err)
	}
	return c, nil
}

// LoadEntries читает только записи известных слов: все *.csv каталога по алфавиту имен.
func LoadEntries(fsys fs.FS, dir string, v dict.Variant, enc string) ([]DictionaryEntry, error) {
	e, err := SourceEncoding(enc)
	if err != nil {
		return nil, err
	}
	names, err := fs.Glob(fsys, path.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var all []DictionaryEntry
	for _, name := range names {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия %s: %w", path.Base(name), err)
		}
		entries, err := ReadEntries(transform.NewReader(f, e.NewDecoder()), v)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		all = append(all, entries...)
	}
	return all, nil
}
