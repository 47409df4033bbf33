package compile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/steosofficial/steostokenizer/buffer"
	"github.com/steosofficial/steostokenizer/dict"
)

// ConnectionCostsCompiler собирает матрицу стоимостей соединения.
type ConnectionCostsCompiler struct {
	size  int
	costs []int16
}

// NewConnectionCostsCompiler создает матрицу size x size из нулей.
func NewConnectionCostsCompiler(size int) *ConnectionCostsCompiler {
	return &ConnectionCostsCompiler{size: size, costs: make([]int16, size*size)}
}

// ParseMatrixDef читает matrix.def: первая строка "forwardSize backwardSize",
// далее строки "forwardId backwardId cost". Матрица обязана быть квадратной.
func ParseMatrixDef(r io.Reader) (*ConnectionCostsCompiler, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var c *ConnectionCostsCompiler
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		nums := make([]int, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("matrix.def, строка %d: %w", line, err)
			}
			nums[i] = n
		}

		if c == nil {
			if len(nums) != 2 {
				return nil, fmt.Errorf("matrix.def, строка %d: ожидался заголовок из 2 чисел", line)
			}
			if nums[0] != nums[1] || nums[0] < 0 {
				return nil, fmt.Errorf("matrix.def: матрица %dx%d должна быть квадратной", nums[0], nums[1])
			}
			c = NewConnectionCostsCompiler(nums[0])
			continue
		}
		if len(nums) != 3 {
			return nil, fmt.Errorf("matrix.def, строка %d: ожидалось 3 числа, получено %d", line, len(nums))
		}
		if err := c.Set(nums[0], nums[1], nums[2]); err != nil {
			return nil, fmt.Errorf("matrix.def, строка %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("matrix.def: %w", err)
	}
	if c == nil {
		return nil, errors.New("matrix.def: пустой файл")
	}
	return c, nil
}

// Size - размер стороны матрицы.
func (c *ConnectionCostsCompiler) Size() int { return c.size }

// Set задает стоимость перехода forwardID -> backwardID.
func (c *ConnectionCostsCompiler) Set(forwardID, backwardID, cost int) error {
	if forwardID < 0 || forwardID >= c.size || backwardID < 0 || backwardID >= c.size {
		return fmt.Errorf("классы (%d, %d) вне матрицы %d", forwardID, backwardID, c.size)
	}
	if cost < math.MinInt16 || cost > math.MaxInt16 {
		return fmt.Errorf("стоимость %d не помещается в int16", cost)
	}
	c.costs[backwardID+forwardID*c.size] = int16(cost)
	return nil
}

// Compile пишет ресурс в формате dict.ReadConnectionCosts.
func (c *ConnectionCostsCompiler) Compile(w io.Writer) error {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], uint32(c.size))
	if _, err := w.Write(raw[:]); err != nil {
		return fmt.Errorf("запись размера матрицы: %w", err)
	}
	out := make([]byte, 0, len(c.costs)*2)
	for _, v := range c.costs {
		out = buffer.AppendInt16(out, v)
	}
	return buffer.Write(w, out)
}

// Costs возвращает скомпилированную матрицу без записи на диск.
func (c *ConnectionCostsCompiler) Costs() (*dict.ConnectionCosts, error) {
	out := make([]byte, 0, len(c.costs)*2)
	for _, v := range c.costs {
		out = buffer.AppendInt16(out, v)
	}
	return dict.NewConnectionCosts(c.size, out)
}
