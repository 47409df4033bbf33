package viterbi

import (
	"math"
	"unicode"

	"github.com/steosofficial/steostokenizer/dict"
)

// Штрафы режима Search за длинные слова.
const (
	KanjiPenaltyLength = 2    // Слова только из кандзи длиннее этого штрафуются...
	KanjiPenalty       = 3000 // ...на столько за каждый лишний символ.
	OtherPenaltyLength = 7
	OtherPenalty       = 1700
)

// Searcher ищет путь минимальной стоимости. Неизменяем и безопасен для
// конкурентного использования.
type Searcher struct {
	costs *dict.ConnectionCosts
	mode  Mode
}

// NewSearcher создает поиск над матрицей стоимостей.
func NewSearcher(costs *dict.ConnectionCosts, mode Mode) *Searcher {
	return &Searcher{costs: costs, mode: mode}
}

// Search находит лучший путь и возвращает его узлы без BOS и EOS.
// При равной стоимости выигрывает предшественник, добавленный в решетку раньше.
func (s *Searcher) Search(l *Lattice) []*Node {
	l.Close()
	l.bos.reached = true
	l.bos.pathCost = 0

	for pos := 0; pos <= l.Len(); pos++ {
		preds := l.EndingAt(pos)
		for _, v := range l.StartingAt(pos) {
			s.relax(v, preds)
		}
	}

	eos := l.EOS()
	if !eos.reached {
		return nil
	}
	var path []*Node
	for n := eos.prev; n != nil && n.Type != BOS; n = n.prev {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	if s.mode == Extended {
		path = splitUnknown(path)
	}
	return path
}

func (s *Searcher) relax(v *Node, preds []*Node) {
	best, bestCost := (*Node)(nil), math.MaxInt
	for _, u := range preds {
		if !u.reached {
			continue
		}
		cost := u.pathCost + s.costs.Cost(u.RightID, v.LeftID)
		if cost < bestCost {
			best, bestCost = u, cost
		}
	}
	if best == nil {
		return
	}
	v.prev = best
	v.pathCost = bestCost + v.WordCost + s.penalty(v)
	v.reached = true
}

// penalty - штраф режима Search за длину слова. Пользовательские
// и служебные узлы не штрафуются.
func (s *Searcher) penalty(n *Node) int {
	if s.mode == Normal || (n.Type != Known && n.Type != Unknown) {
		return 0
	}
	if n.Length <= KanjiPenaltyLength {
		return 0
	}
	if isKanjiOnly(n.Surface) {
		return (n.Length - KanjiPenaltyLength) * KanjiPenalty
	}
	if n.Length > OtherPenaltyLength {
		return (n.Length - OtherPenaltyLength) * OtherPenalty
	}
	return 0
}

func isKanjiOnly(s string) bool {
	for _, r := range s {
		if !unicode.Is(unicode.Han, r) {
			return false
		}
	}
	return true
}

// splitUnknown делит неизвестные слова пути на узлы из одного символа
// с тем же word id.
func splitUnknown(path []*Node) []*Node {
	out := make([]*Node, 0, len(path))
	for _, n := range path {
		if n.Type != Unknown || n.Length == 1 {
			out = append(out, n)
			continue
		}
		for i, r := range []rune(n.Surface) {
			c := *n
			c.Surface = string(r)
			c.Start = n.Start + i
			c.Length = 1
			out = append(out, &c)
		}
	}
	return out
}
