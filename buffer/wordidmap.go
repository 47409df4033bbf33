package buffer

import (
	"encoding/binary"
	"fmt"
)

// WordIDMap - таблица омографов: ID источника (ранг поверхностной формы в
// трансдьюсере или номер категории неизвестных слов) -> упорядоченный список word id.
//
// Формат блока:
//
//	int32 sourceCount
//	int32 offsets[sourceCount+1] - индексы в массиве wordIds, неубывающие
//	int32 wordIds[...]
type WordIDMap struct {
	offsets Int32View
	wordIDs Int32View
}

// NewWordIDMap проверяет таблицу один раз. Источник без единого слова означает
// рассинхронизацию трансдьюсера и таблицы и приводит к ErrCorrupt.
func NewWordIDMap(b []byte) (*WordIDMap, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("%w: таблица омографов короче заголовка", ErrCorrupt)
	}
	count := int(int32(binary.LittleEndian.Uint32(b)))
	indexEnd := 4 + (count+1)*4
	if count < 0 || len(b) < indexEnd {
		return nil, fmt.Errorf("%w: таблица омографов: недопустимое количество %d", ErrCorrupt, count)
	}
	offsets, err := NewInt32View(b[4:indexEnd])
	if err != nil {
		return nil, err
	}
	wordIDs, err := NewInt32View(b[indexEnd:])
	if err != nil {
		return nil, err
	}

	if offsets.At(0) != 0 || int(offsets.At(count)) != wordIDs.Len() {
		return nil, fmt.Errorf("%w: таблица омографов: границы индекса не совпадают с данными", ErrCorrupt)
	}
	for id := 0; id < count; id++ {
		if offsets.At(id+1) <= offsets.At(id) {
			return nil, fmt.Errorf("%w: таблица омографов: у источника %d нет слов", ErrCorrupt, id)
		}
	}
	return &WordIDMap{offsets: offsets, wordIDs: wordIDs}, nil
}

// Len возвращает количество источников.
func (m *WordIDMap) Len() int { return m.offsets.Len() - 1 }

// LookUp возвращает word id, разделяющие одну поверхностную форму, в порядке компиляции.
func (m *WordIDMap) LookUp(sourceID int) []int {
	if sourceID < 0 || sourceID >= m.Len() {
		panic(fmt.Sprintf("buffer: id источника %d вне диапазона [0, %d)", sourceID, m.Len()))
	}
	from, to := int(m.offsets.At(sourceID)), int(m.offsets.At(sourceID+1))
	ids := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		ids = append(ids, int(m.wordIDs.At(i)))
	}
	return ids
}

// Each вызывает fn для каждого word id источника без выделения памяти.
func (m *WordIDMap) Each(sourceID int, fn func(wordID int)) {
	if sourceID < 0 || sourceID >= m.Len() {
		panic(fmt.Sprintf("buffer: id источника %d вне диапазона [0, %d)", sourceID, m.Len()))
	}
	for i := int(m.offsets.At(sourceID)); i < int(m.offsets.At(sourceID+1)); i++ {
		fn(int(m.wordIDs.At(i)))
	}
}
