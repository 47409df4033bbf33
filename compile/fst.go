package compile

import (
	"io"
	"sort"

	"github.com/steosofficial/steostokenizer/buffer"
	"github.com/steosofficial/steostokenizer/fst"
)

// FSTCompiler строит трансдьюсер поверхностных форм. Повторы убираются,
// формы сортируются, поэтому одинаковые множества дают одинаковые байты
// независимо от порядка входа.
type FSTCompiler struct {
	surfaces []string
	ranks    map[string]int
}

// NewFSTCompiler принимает поверхности в любом порядке, с повторами.
func NewFSTCompiler(surfaces []string) *FSTCompiler {
	unique := make(map[string]struct{}, len(surfaces))
	for _, s := range surfaces {
		unique[s] = struct{}{}
	}
	sorted := make([]string, 0, len(unique))
	for s := range unique {
		sorted = append(sorted, s)
	}
	sort.Strings(sorted)

	ranks := make(map[string]int, len(sorted))
	for i, s := range sorted {
		ranks[s] = i
	}
	return &FSTCompiler{surfaces: sorted, ranks: ranks}
}

// Surfaces возвращает отсортированные уникальные поверхности; индекс - ранг.
func (c *FSTCompiler) Surfaces() []string { return c.surfaces }

// Rank возвращает ранг поверхности - тот же, что вернет fst.FST.Lookup.
func (c *FSTCompiler) Rank(surface string) (int, bool) {
	r, ok := c.ranks[surface]
	return r, ok
}

// Bytes строит плоское представление трансдьюсера.
func (c *FSTCompiler) Bytes() ([]byte, error) {
	return fst.Build(c.surfaces)
}

func (c *FSTCompiler) Compile(w io.Writer) error {
	b, err := c.Bytes()
	if err != nil {
		return err
	}
	return buffer.Write(w, b)
}
