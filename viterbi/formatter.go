package viterbi

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/steosofficial/steostokenizer/dict"
)

// Formatter выводит решетку в формате Graphviz dot. Ребра лучшего пути
// выделяются цветом.
type Formatter struct {
	Costs *dict.ConnectionCosts
	// Feature - индекс признака, выводимого под поверхностью узла (обычно часть речи).
	Feature int
}

// Format пишет решетку и путь (результат Searcher.Search) в w.
func (f Formatter) Format(w io.Writer, l *Lattice, path []*Node) error {
	bw := bufio.NewWriter(w)

	onPath := make(map[[2]int]bool, len(path)+1)
	prev := l.BOS()
	for _, n := range path {
		onPath[[2]int{prev.index, n.index}] = true
		prev = n
	}
	if l.EOS() != nil {
		onPath[[2]int{prev.index, l.EOS().index}] = true
	}

	fmt.Fprintln(bw, "digraph viterbi {")
	fmt.Fprintln(bw, `graph [ fontsize=30 labelloc="t" label="" splines=true overlap=false rankdir="LR" ];`)
	fmt.Fprintln(bw, `edge [ fontname="Helvetica" fontcolor="red" color="#606060" ];`)
	fmt.Fprintln(bw, `node [ style="filled" fillcolor="#e8e8f0" shape="Mrecord" fontname="Helvetica" ];`)

	for _, n := range l.nodes {
		fmt.Fprintf(bw, "  n%d [label=%q];\n", n.index, f.label(n))
	}
	for pos := 0; pos <= l.Len(); pos++ {
		for _, v := range l.StartingAt(pos) {
			for _, u := range l.EndingAt(pos) {
				cost := v.WordCost
				if f.Costs != nil {
					cost += f.Costs.Cost(u.RightID, v.LeftID)
				}
				attrs := fmt.Sprintf("label=\"%d\"", cost)
				if onPath[[2]int{u.index, v.index}] {
					attrs += ` color="#40e050" fontcolor="#40a050" penwidth=3`
				}
				fmt.Fprintf(bw, "  n%d -> n%d [%s];\n", u.index, v.index, attrs)
			}
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func (f Formatter) label(n *Node) string {
	if n.Type == BOS || n.Type == EOS {
		return n.Type.String()
	}
	var sb strings.Builder
	sb.WriteString(n.Surface)
	if n.Dict != nil {
		sb.WriteString("\n")
		sb.WriteString(n.Dict.Feature(n.WordID, f.Feature))
	}
	fmt.Fprintf(&sb, "\n%s %d", n.Type, n.WordCost)
	return sb.String()
}
