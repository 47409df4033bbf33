package buffer

import (
	"encoding/binary"
	"fmt"
)

// --- ТАБЛИЦА АТРИБУТОВ СЛОВ ---

// Индексы полей в начале записи tokenInfo.
const (
	LeftID          = 0 // ID левого класса соединения.
	RightID         = 1 // ID правого класса соединения.
	WordCost        = 2 // Стоимость слова.
	TokenInfoOffset = 3 // С этого индекса в tokenInfo начинаются ID частей речи (раскладка PosAsShorts).
)

// TokenInfoHeaderSize - размер заголовка таблицы атрибутов в байтах.
const TokenInfoHeaderSize = 16

// Layout - способ хранения ID частей речи в записи. Определяется компилятором
// и фиксируется при загрузке по заголовку.
type Layout uint8

const (
	// PosAsBytes - ID частей речи хранятся отдельным массивом байт (их не больше 256).
	PosAsBytes Layout = iota
	// PosAsShorts - ID частей речи дописаны в tokenInfo как 16-битные значения.
	PosAsShorts
)

func (l Layout) String() string {
	if l == PosAsShorts {
		return "pos-as-shorts"
	}
	return "pos-as-bytes"
}

// BufferEntry - полностью декодированная запись одного слова.
type BufferEntry struct {
	TokenInfos   []int16 // leftId, rightId, wordCost и, для PosAsShorts, ID частей речи.
	PosInfos     []byte  // ID частей речи (PosAsBytes).
	FeatureInfos []int32 // ID прочих признаков.
}

// TokenInfoBuffer - таблица атрибутов слов с записями фиксированного размера.
//
// Формат блока:
//
//	int32 entryCount, int32 tokenInfoSize, int32 posInfoSize, int32 featureInfoSize
//	entryCount записей: int16*tokenInfoSize | uint8*posInfoSize | int32*featureInfoSize
type TokenInfoBuffer struct {
	records []byte

	entryCount      int
	tokenInfoSize   int
	posInfoSize     int
	featureInfoSize int
	entrySize       int
	layout          Layout
}

// NewTokenInfoBuffer разбирает заголовок и проверяет, что размер блока
// точно соответствует количеству записей.
func NewTokenInfoBuffer(b []byte) (*TokenInfoBuffer, error) {
	if len(b) < TokenInfoHeaderSize {
		return nil, fmt.Errorf("%w: таблица атрибутов короче заголовка", ErrCorrupt)
	}
	t := &TokenInfoBuffer{
		entryCount:      int(int32(binary.LittleEndian.Uint32(b[0:]))),
		tokenInfoSize:   int(int32(binary.LittleEndian.Uint32(b[4:]))),
		posInfoSize:     int(int32(binary.LittleEndian.Uint32(b[8:]))),
		featureInfoSize: int(int32(binary.LittleEndian.Uint32(b[12:]))),
	}
	if t.entryCount < 0 || t.tokenInfoSize < TokenInfoOffset || t.posInfoSize < 0 || t.featureInfoSize < 0 {
		return nil, fmt.Errorf("%w: недопустимый заголовок таблицы атрибутов", ErrCorrupt)
	}
	t.entrySize = t.tokenInfoSize*2 + t.posInfoSize + t.featureInfoSize*4
	if want := TokenInfoHeaderSize + t.entryCount*t.entrySize; len(b) != want {
		return nil, fmt.Errorf("%w: таблица атрибутов %d байт, ожидалось %d", ErrCorrupt, len(b), want)
	}
	t.records = b[TokenInfoHeaderSize:]

	t.layout = PosAsBytes
	if t.posInfoSize == 0 && t.tokenInfoSize > TokenInfoOffset {
		t.layout = PosAsShorts
	}
	return t, nil
}

// EntryCount возвращает количество слов.
func (t *TokenInfoBuffer) EntryCount() int { return t.entryCount }

// Layout возвращает раскладку частей речи.
func (t *TokenInfoBuffer) Layout() Layout { return t.layout }

// PartOfSpeechCount - количество признаков "часть речи" в каждой записи.
func (t *TokenInfoBuffer) PartOfSpeechCount() int {
	if t.layout == PosAsShorts {
		return t.tokenInfoSize - TokenInfoOffset
	}
	return t.posInfoSize
}

// FeatureCount - количество прочих признаков в каждой записи.
func (t *TokenInfoBuffer) FeatureCount() int { return t.featureInfoSize }

// TotalFeatures - общее число признаков слова (части речи + прочие).
func (t *TokenInfoBuffer) TotalFeatures() int {
	return t.PartOfSpeechCount() + t.featureInfoSize
}

func (t *TokenInfoBuffer) position(wordID int) int {
	if wordID < 0 || wordID >= t.entryCount {
		panic(fmt.Sprintf("buffer: word id %d вне диапазона [0, %d)", wordID, t.entryCount))
	}
	return wordID * t.entrySize
}

// LookupTokenInfo возвращает одно поле tokenInfo (LeftID, RightID, WordCost)
// прямым обращением по смещению, без декодирования записи.
func (t *TokenInfoBuffer) LookupTokenInfo(wordID, field int) int {
	if field < 0 || field >= t.tokenInfoSize {
		panic(fmt.Sprintf("buffer: поле tokenInfo %d вне диапазона [0, %d)", field, t.tokenInfoSize))
	}
	p := t.position(wordID) + field*2
	return int(int16(binary.LittleEndian.Uint16(t.records[p:])))
}

// IsPartOfSpeechFeature сообщает, относится ли признак с индексом field к частям речи.
func (t *TokenInfoBuffer) IsPartOfSpeechFeature(field int) bool {
	return field >= 0 && field < t.PartOfSpeechCount()
}

// LookupPartOfSpeechFeature возвращает ID части речи с индексом field.
func (t *TokenInfoBuffer) LookupPartOfSpeechFeature(wordID, field int) int {
	if !t.IsPartOfSpeechFeature(field) {
		panic(fmt.Sprintf("buffer: признак %d не является частью речи", field))
	}
	p := t.position(wordID)
	if t.layout == PosAsShorts {
		p += (TokenInfoOffset + field) * 2
		return int(binary.LittleEndian.Uint16(t.records[p:]))
	}
	return int(t.records[p+t.tokenInfoSize*2+field])
}

// LookupFeature возвращает ID прочего признака. Индекс field сквозной:
// признаки частей речи идут первыми, поэтому прочие начинаются с PartOfSpeechCount().
func (t *TokenInfoBuffer) LookupFeature(wordID, field int) int {
	i := field - t.PartOfSpeechCount()
	if i < 0 || i >= t.featureInfoSize {
		panic(fmt.Sprintf("buffer: признак %d вне диапазона [%d, %d)", field, t.PartOfSpeechCount(), t.TotalFeatures()))
	}
	p := t.position(wordID) + t.tokenInfoSize*2 + t.posInfoSize + i*4
	return int(int32(binary.LittleEndian.Uint32(t.records[p:])))
}

// LookupEntry полностью декодирует запись слова.
func (t *TokenInfoBuffer) LookupEntry(wordID int) BufferEntry {
	p := t.position(wordID)
	entry := BufferEntry{
		TokenInfos:   make([]int16, t.tokenInfoSize),
		PosInfos:     make([]byte, t.posInfoSize),
		FeatureInfos: make([]int32, t.featureInfoSize),
	}
	for i := range entry.TokenInfos {
		entry.TokenInfos[i] = int16(binary.LittleEndian.Uint16(t.records[p:]))
		p += 2
	}
	p += copy(entry.PosInfos, t.records[p:p+t.posInfoSize])
	for i := range entry.FeatureInfos {
		entry.FeatureInfos[i] = int32(binary.LittleEndian.Uint32(t.records[p:]))
		p += 4
	}
	return entry
}

// PartOfSpeechIDs возвращает ID частей речи декодированной записи
// независимо от раскладки.
func (e BufferEntry) PartOfSpeechIDs() []int {
	if len(e.PosInfos) == 0 && len(e.TokenInfos) > TokenInfoOffset {
		ids := make([]int, 0, len(e.TokenInfos)-TokenInfoOffset)
		for _, v := range e.TokenInfos[TokenInfoOffset:] {
			ids = append(ids, int(uint16(v)))
		}
		return ids
	}
	ids := make([]int, len(e.PosInfos))
	for i, v := range e.PosInfos {
		ids[i] = int(v)
	}
	return ids
}
