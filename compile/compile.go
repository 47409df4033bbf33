// Пакет compile превращает исходный словарь (CSV-записи, matrix.def, char.def,
// unk.def) в набор бинарных ресурсов, которые читает пакет dict.
//
// Каждый компилятор отвечает за один ресурс и реализует Compiler.
// DictionaryCompiler связывает их: назначает word id, строит трансдьюсер
// и таблицу омографов, проверяет размер матрицы и пишет все ресурсы в Sink.
// Состояние компиляторов после записи не нужно и не переиспользуется.
package compile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/steosofficial/steostokenizer/dict"
)

// Compiler записывает один ресурс словаря.
type Compiler interface {
	Compile(w io.Writer) error
}

// --- ПРИЕМНИКИ РЕСУРСОВ ---

// Sink создает ресурс по имени.
type Sink interface {
	Create(name string) (io.WriteCloser, error)
}

// DirSink пишет ресурсы файлами в каталог, создавая его при необходимости.
type DirSink struct {
	Dir string
}

func (s DirSink) Create(name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога %s: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания выходного файла %s: %w", path, err)
	}
	return f, nil
}

// MemSink собирает ресурсы в памяти. Удобен для тестов и для встраивания
// словаря без файловой системы.
type MemSink struct {
	mu    sync.Mutex
	files map[string]*bytes.Buffer
}

// NewMemSink создает пустой приемник.
func NewMemSink() *MemSink {
	return &MemSink{files: make(map[string]*bytes.Buffer)}
}

type memFile struct{ *bytes.Buffer }

func (memFile) Close() error { return nil }

func (s *MemSink) Create(name string) (io.WriteCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := new(bytes.Buffer)
	s.files[name] = b
	return memFile{b}, nil
}

// Names возвращает имена записанных ресурсов по алфавиту.
func (s *MemSink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver возвращает загрузчик поверх записанных ресурсов.
func (s *MemSink) Resolver() dict.MemResolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := make(dict.MemResolver, len(s.files))
	for name, b := range s.files {
		r[name] = b.Bytes()
	}
	return r
}

// writeResource создает ресурс и пишет в него компилятор.
func writeResource(sink Sink, name string, c Compiler) error {
	w, err := sink.Create(name)
	if err != nil {
		return err
	}
	if err := c.Compile(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("ресурс %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("ресурс %s: %w", name, err)
	}
	return nil
}

// CompilerFunc позволяет использовать функцию как Compiler.
type CompilerFunc func(w io.Writer) error

func (f CompilerFunc) Compile(w io.Writer) error { return f(w) }
