package compile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/steosofficial/steostokenizer/buffer"
)

// --- ТАБЛИЦА АТРИБУТОВ ---

// MaxBytePartOfSpeech - при большем количестве различных частей речи они не
// помещаются в байт и хранятся как 16-битные значения.
const MaxBytePartOfSpeech = 256

type tokenInfoRecord struct {
	leftID, rightID, wordCost int
	pos, features             []int
}

// TokenInfoBufferCompiler пишет таблицу атрибутов слов (buffer.TokenInfoBuffer).
type TokenInfoBufferCompiler struct {
	layout     buffer.Layout
	posCount   int
	otherCount int
	records    []tokenInfoRecord
}

// NewTokenInfoBufferCompiler создает компилятор. distinctPartOfSpeech - сколько
// различных значений частей речи выдал интернер, от этого зависит раскладка.
func NewTokenInfoBufferCompiler(posCount, otherCount, distinctPartOfSpeech int) *TokenInfoBufferCompiler {
	layout := buffer.PosAsBytes
	if distinctPartOfSpeech > MaxBytePartOfSpeech {
		layout = buffer.PosAsShorts
	}
	return &TokenInfoBufferCompiler{layout: layout, posCount: posCount, otherCount: otherCount}
}

// Layout - выбранная раскладка частей речи.
func (c *TokenInfoBufferCompiler) Layout() buffer.Layout { return c.layout }

// Add добавляет запись; word id - порядковый номер вызова.
func (c *TokenInfoBufferCompiler) Add(leftID, rightID, wordCost int, pos, features []int) error {
	if len(pos) != c.posCount || len(features) != c.otherCount {
		return fmt.Errorf("запись %d: %d частей речи и %d признаков, ожидалось %d и %d",
			len(c.records), len(pos), len(features), c.posCount, c.otherCount)
	}
	c.records = append(c.records, tokenInfoRecord{leftID, rightID, wordCost, pos, features})
	return nil
}

func (c *TokenInfoBufferCompiler) Compile(w io.Writer) error {
	tokenInfoSize, posInfoSize := buffer.TokenInfoOffset, c.posCount
	if c.layout == buffer.PosAsShorts {
		tokenInfoSize, posInfoSize = buffer.TokenInfoOffset+c.posCount, 0
	}
	entrySize := tokenInfoSize*2 + posInfoSize + c.otherCount*4

	out := make([]byte, 0, buffer.TokenInfoHeaderSize+len(c.records)*entrySize)
	out = buffer.AppendInt32(out, int32(len(c.records)))
	out = buffer.AppendInt32(out, int32(tokenInfoSize))
	out = buffer.AppendInt32(out, int32(posInfoSize))
	out = buffer.AppendInt32(out, int32(c.otherCount))

	for i, r := range c.records {
		out = buffer.AppendInt16(out, int16(r.leftID))
		out = buffer.AppendInt16(out, int16(r.rightID))
		out = buffer.AppendInt16(out, int16(r.wordCost))
		for _, p := range r.pos {
			if c.layout == buffer.PosAsShorts {
				if p > math.MaxUint16 {
					return fmt.Errorf("запись %d: ID части речи %d не помещается в 16 бит", i, p)
				}
				out = binary.LittleEndian.AppendUint16(out, uint16(p))
				continue
			}
			if p >= MaxBytePartOfSpeech {
				return fmt.Errorf("запись %d: ID части речи %d не помещается в байт", i, p)
			}
		}
		if c.layout == buffer.PosAsBytes {
			for _, p := range r.pos {
				out = append(out, byte(p))
			}
		}
		for _, f := range r.features {
			out = buffer.AppendInt32(out, int32(f))
		}
	}
	return buffer.Write(w, out)
}

// --- ТАБЛИЦА СТРОК ---

// StringValueMapBufferCompiler пишет таблицу строк id -> строка.
type StringValueMapBufferCompiler struct {
	values []string
}

// NewStringValueMapBufferCompiler принимает строки, индекс среза - id.
func NewStringValueMapBufferCompiler(values []string) *StringValueMapBufferCompiler {
	return &StringValueMapBufferCompiler{values: values}
}

func (c *StringValueMapBufferCompiler) Compile(w io.Writer) error {
	size := 4 + (len(c.values)+1)*4
	for _, v := range c.values {
		size += len(v)
	}
	out := make([]byte, 0, size)
	out = buffer.AppendInt32(out, int32(len(c.values)))
	offset := 0
	out = buffer.AppendInt32(out, 0)
	for _, v := range c.values {
		offset += len(v)
		out = buffer.AppendInt32(out, int32(offset))
	}
	for _, v := range c.values {
		out = append(out, v...)
	}
	return buffer.Write(w, out)
}

// --- ТАБЛИЦА ОМОГРАФОВ ---

// WordIDMapCompiler пишет таблицу источник -> word id. Word id одного
// источника сохраняют порядок добавления.
type WordIDMapCompiler struct {
	targets [][]int
}

// NewWordIDMapCompiler создает таблицу на sourceCount источников.
func NewWordIDMapCompiler(sourceCount int) *WordIDMapCompiler {
	return &WordIDMapCompiler{targets: make([][]int, sourceCount)}
}

// AddMapping привязывает word id к источнику.
func (c *WordIDMapCompiler) AddMapping(sourceID, wordID int) {
	c.targets[sourceID] = append(c.targets[sourceID], wordID)
}

func (c *WordIDMapCompiler) Compile(w io.Writer) error {
	total := 0
	for src, ids := range c.targets {
		if len(ids) == 0 {
			return fmt.Errorf("у источника %d нет слов", src)
		}
		total += len(ids)
	}
	out := make([]byte, 0, 4+(len(c.targets)+1)*4+total*4)
	out = buffer.AppendInt32(out, int32(len(c.targets)))
	offset := 0
	out = buffer.AppendInt32(out, 0)
	for _, ids := range c.targets {
		offset += len(ids)
		out = buffer.AppendInt32(out, int32(offset))
	}
	for _, ids := range c.targets {
		for _, id := range ids {
			out = buffer.AppendInt32(out, int32(id))
		}
	}
	return buffer.Write(w, out)
}
