package buffer

import (
	"encoding/binary"
	"fmt"
)

// Int16View - представление блока байт как массива int16 (little-endian).
// Длина проверяется один раз при создании, обращения по индексу не проверяются
// дополнительно - выход за границы приводит к панике, как и у обычного среза.
type Int16View struct {
	b []byte
}

// NewInt16View создает представление поверх b без копирования.
func NewInt16View(b []byte) (Int16View, error) {
	if len(b)%2 != 0 {
		return Int16View{}, fmt.Errorf("%w: %d байт для int16", ErrMisaligned, len(b))
	}
	return Int16View{b: b}, nil
}

// Len возвращает количество элементов.
func (v Int16View) Len() int { return len(v.b) / 2 }

// At возвращает i-й элемент.
func (v Int16View) At(i int) int16 {
	return int16(binary.LittleEndian.Uint16(v.b[i*2:]))
}

// Int32View - представление блока байт как массива int32 (little-endian).
type Int32View struct {
	b []byte
}

// NewInt32View создает представление поверх b без копирования.
func NewInt32View(b []byte) (Int32View, error) {
	if len(b)%4 != 0 {
		return Int32View{}, fmt.Errorf("%w: %d байт для int32", ErrMisaligned, len(b))
	}
	return Int32View{b: b}, nil
}

// Len возвращает количество элементов.
func (v Int32View) Len() int { return len(v.b) / 4 }

// At возвращает i-й элемент.
func (v Int32View) At(i int) int32 {
	return int32(binary.LittleEndian.Uint32(v.b[i*4:]))
}

// Slice возвращает под-представление [from, to).
func (v Int32View) Slice(from, to int) Int32View {
	return Int32View{b: v.b[from*4 : to*4]}
}

// AppendInt16 и AppendInt32 - парные к представлениям функции записи,
// которыми пользуются компиляторы.
func AppendInt16(dst []byte, v int16) []byte {
	return binary.LittleEndian.AppendUint16(dst, uint16(v))
}

// AppendInt32 дописывает v в dst в формате представления Int32View.
func AppendInt32(dst []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(v))
}
