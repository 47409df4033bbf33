package dict

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// --- ЗАГРУЗЧИКИ РЕСУРСОВ ---

// Resolver открывает ресурс словаря по имени. Загрузчик закрывает полученный
// поток только в Set.Close, поэтому поток может ссылаться на память, которую
// нельзя освобождать, пока словарь используется (например, mmap).
type Resolver interface {
	Resolve(name string) (io.ReadCloser, error)
}

// memBlob - ресурс целиком в памяти. bytes.Buffer позволяет buffer.Read
// забирать блоки без копирования.
type memBlob struct {
	*bytes.Buffer
	close func() error
}

func (b memBlob) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func newMemBlob(data []byte) io.ReadCloser {
	return memBlob{Buffer: bytes.NewBuffer(data)}
}

// DirResolver читает ресурсы из каталога. Если файла нет, но есть его части
// (name_aa, name_ab, ... - результат утилиты split), они склеиваются в памяти.
type DirResolver struct {
	Dir string
}

func (r DirResolver) Resolve(name string) (io.ReadCloser, error) {
	path := filepath.Join(r.Dir, name)
	data, err := os.ReadFile(path)
	if err == nil {
		return newMemBlob(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
	}

	data, err = mergeParts(r.Dir, name+"_")
	if err != nil {
		return nil, fmt.Errorf("ресурс %s не найден в '%s': %w", name, r.Dir, err)
	}
	return newMemBlob(data), nil
}

// mergeParts склеивает файлы с заданным префиксом в порядке имен.
// split по умолчанию дает суффиксы aa, ab, ac..., их лексикографический
// порядок совпадает с порядком частей.
func mergeParts(dir, prefix string) ([]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске файлов: %w", err)
	}
	var parts []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			parts = append(parts, filepath.Join(dir, e.Name()))
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("не найдено файлов с префиксом '%s': %w", prefix, fs.ErrNotExist)
	}
	sort.Strings(parts)

	var merged bytes.Buffer
	for _, part := range parts {
		data, err := os.ReadFile(part)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия части файла %s: %w", part, err)
		}
		merged.Write(data)
	}
	return merged.Bytes(), nil
}

// MmapResolver отображает файлы ресурсов в память. Блоки словаря указывают
// прямо на отображение, поэтому оно живет до закрытия ресурса (Set.Close).
type MmapResolver struct {
	Dir string
}

func (r MmapResolver) Resolve(name string) (io.ReadCloser, error) {
	path := filepath.Join(r.Dir, name)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения атрибутов %s: %w", path, err)
	}
	if info.Size() == 0 {
		return newMemBlob(nil), nil
	}

	// Файл не копируется в ОЗУ, ОС сама подгружает нужные страницы по мере обращения.
	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("ошибка mmap.Map для %s: %w", path, err)
	}
	return memBlob{Buffer: bytes.NewBuffer(m), close: m.Unmap}, nil
}

// FSResolver читает ресурсы из любой fs.FS, в том числе из embed.FS.
type FSResolver struct {
	FS  fs.FS
	Dir string // Необязательный каталог внутри FS.
}

func (r FSResolver) Resolve(name string) (io.ReadCloser, error) {
	path := name
	if r.Dir != "" {
		path = r.Dir + "/" + name
	}
	data, err := fs.ReadFile(r.FS, path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	return newMemBlob(data), nil
}

// MemResolver отдает ресурсы из карты имя -> содержимое.
type MemResolver map[string][]byte

func (r MemResolver) Resolve(name string) (io.ReadCloser, error) {
	data, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("ресурс %s: %w", name, fs.ErrNotExist)
	}
	return newMemBlob(data), nil
}
