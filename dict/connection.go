package dict

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/steosofficial/steostokenizer/buffer"
)

// ConnectionCosts - квадратная матрица стоимостей соединения правого класса
// предыдущего слова (forward) с левым классом следующего (backward).
//
// Формат ресурса: int32 size (little-endian, без префикса), затем блок
// buffer.Write из size*size значений int16 в порядке backward + forward*size.
type ConnectionCosts struct {
	size  int
	costs buffer.Int16View
}

// ReadConnectionCosts читает матрицу из ресурса.
func ReadConnectionCosts(r io.Reader) (*ConnectionCosts, error) {
	var raw [4]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, fmt.Errorf("чтение размера матрицы: %w", err)
	}
	size := int(int32(binary.LittleEndian.Uint32(raw[:])))

	b, err := buffer.Read(r)
	if err != nil {
		return nil, fmt.Errorf("чтение матрицы: %w", err)
	}
	return NewConnectionCosts(size, b)
}

// NewConnectionCosts создает матрицу поверх блока значений int16.
func NewConnectionCosts(size int, b []byte) (*ConnectionCosts, error) {
	costs, err := buffer.NewInt16View(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDictionary, err)
	}
	if size < 0 || costs.Len() != size*size {
		return nil, fmt.Errorf("%w: матрица %d значений при размере %d", ErrCorruptDictionary, costs.Len(), size)
	}
	return &ConnectionCosts{size: size, costs: costs}, nil
}

// Size - размер стороны матрицы.
func (c *ConnectionCosts) Size() int { return c.size }

// Cost возвращает стоимость перехода от слова с правым классом forwardID
// к слову с левым классом backwardID.
func (c *ConnectionCosts) Cost(forwardID, backwardID int) int {
	if uint(forwardID) >= uint(c.size) || uint(backwardID) >= uint(c.size) {
		panic(fmt.Sprintf("dict: классы соединения (%d, %d) вне матрицы %d", forwardID, backwardID, c.size))
	}
	return int(c.costs.At(backwardID + forwardID*c.size))
}
