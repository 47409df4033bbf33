// Пакет buffer содержит единственный примитив хранения словаря - блок с
// префиксом длины - и "типизированные" представления поверх таких блоков:
// таблицу атрибутов слов, таблицу строк и таблицу омографов.
// Все представления не копируют данные, а лишь читают их по смещениям,
// поэтому блок, отображенный в память через mmap, используется как есть.
package buffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// PrefixSize - размер префикса длины блока в байтах.
const PrefixSize = 4

var (
	// ErrCorrupt - структура блока не соответствует ожидаемому формату.
	ErrCorrupt = errors.New("buffer: поврежденный блок")
	// ErrMisaligned - длина блока не кратна размеру элемента представления.
	ErrMisaligned = errors.New("buffer: длина блока не кратна размеру элемента")
)

// nexter реализуется bytes.Buffer: позволяет забрать срез без копирования.
type nexter interface {
	Len() int
	Next(n int) []byte
}

// Write записывает блок: 4 байта длины (little-endian), затем сами байты.
func Write(w io.Writer, b []byte) error {
	if len(b) > math.MaxUint32 {
		return fmt.Errorf("buffer: блок слишком велик (%d байт)", len(b))
	}
	var prefix [PrefixSize]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(b)))

	if err := writeFull(w, prefix[:]); err != nil {
		return fmt.Errorf("buffer: запись префикса длины: %w", err)
	}
	if err := writeFull(w, b); err != nil {
		return fmt.Errorf("buffer: запись блока: %w", err)
	}
	return nil
}

// Read читает один блок, записанный Write.
// Если r - это bytes.Buffer (или любой тип с методом Next), блок возвращается
// без копирования, как срез исходной памяти.
func Read(r io.Reader) ([]byte, error) {
	if nb, ok := r.(nexter); ok {
		return readNext(nb)
	}

	var prefix [PrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("buffer: чтение префикса длины: %w", unexpected(err))
	}
	n := binary.LittleEndian.Uint32(prefix[:])

	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("buffer: чтение блока из %d байт: %w", n, unexpected(err))
	}
	return b, nil
}

func readNext(nb nexter) ([]byte, error) {
	if nb.Len() < PrefixSize {
		return nil, fmt.Errorf("buffer: чтение префикса длины: %w", io.ErrUnexpectedEOF)
	}
	n := int(binary.LittleEndian.Uint32(nb.Next(PrefixSize)))
	if nb.Len() < n {
		return nil, fmt.Errorf("buffer: чтение блока из %d байт: %w", n, io.ErrUnexpectedEOF)
	}
	return nb.Next(n), nil
}

func writeFull(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return io.ErrShortWrite
	}
	return nil
}

// Пустой поток на месте префикса - это тоже обрыв данных.
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
