package buffer

import (
	"encoding/binary"
	"fmt"
)

// StringValueMapBuffer - таблица строк id -> строка.
//
// Формат блока:
//
//	int32 count
//	int32 offsets[count+1]  - смещения строк в blob, неубывающие
//	blob                    - строки UTF-8 подряд, без разделителей
type StringValueMapBuffer struct {
	offsets Int32View
	blob    []byte
}

// NewStringValueMapBuffer проверяет индекс смещений один раз при создании.
func NewStringValueMapBuffer(b []byte) (*StringValueMapBuffer, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("%w: таблица строк короче заголовка", ErrCorrupt)
	}
	count := int(int32(binary.LittleEndian.Uint32(b)))
	indexEnd := 4 + (count+1)*4
	if count < 0 || len(b) < indexEnd {
		return nil, fmt.Errorf("%w: таблица строк: недопустимое количество %d", ErrCorrupt, count)
	}
	offsets, err := NewInt32View(b[4:indexEnd])
	if err != nil {
		return nil, err
	}
	blob := b[indexEnd:]

	prev := int32(0)
	for i := 0; i < offsets.Len(); i++ {
		off := offsets.At(i)
		if off < prev || int(off) > len(blob) {
			return nil, fmt.Errorf("%w: таблица строк: смещение %d для id %d", ErrCorrupt, off, i)
		}
		prev = off
	}
	if int(prev) != len(blob) {
		return nil, fmt.Errorf("%w: таблица строк: хвост %d байт не описан индексом", ErrCorrupt, len(blob)-int(prev))
	}
	return &StringValueMapBuffer{offsets: offsets, blob: blob}, nil
}

// Len возвращает количество строк.
func (s *StringValueMapBuffer) Len() int { return s.offsets.Len() - 1 }

// Get возвращает строку по id. Единственная аллокация - сама строка.
func (s *StringValueMapBuffer) Get(id int) string {
	if id < 0 || id >= s.Len() {
		panic(fmt.Sprintf("buffer: id строки %d вне диапазона [0, %d)", id, s.Len()))
	}
	return string(s.blob[s.offsets.At(id):s.offsets.At(id+1)])
}
