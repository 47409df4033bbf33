package viterbi_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/steosofficial/steostokenizer/dict"
	"github.com/steosofficial/steostokenizer/internal/testdict"
	"github.com/steosofficial/steostokenizer/viterbi"
)

func loadSet(t *testing.T) *dict.Set {
	t.Helper()
	set, err := testdict.Load()
	if err != nil {
		t.Fatalf("Не удалось загрузить тестовый словарь: %v", err)
	}
	t.Cleanup(func() { _ = set.Close() })
	return set
}

func loadUser(t *testing.T) *dict.UserDictionary {
	t.Helper()
	user, err := testdict.UserDictionary()
	if err != nil {
		t.Fatalf("Не удалось прочитать пользовательский словарь: %v", err)
	}
	return user
}

// analyze строит решетку и возвращает лучший путь.
func analyze(t *testing.T, set *dict.Set, user *dict.UserDictionary, mode viterbi.Mode, text string) []*viterbi.Node {
	t.Helper()
	l := viterbi.NewBuilder(set, user, mode).Build([]rune(text))
	path := viterbi.NewSearcher(set.Costs, mode).Search(l)
	if path == nil {
		t.Fatalf("EOS недостижим для %q:\n%s", text, l.Dump())
	}
	return path
}

func surfaces(path []*viterbi.Node) []string {
	out := make([]string, len(path))
	for i, n := range path {
		out[i] = n.Surface
	}
	return out
}

func TestSearch(t *testing.T) {
	set := loadSet(t)

	testCases := []struct {
		name string
		mode viterbi.Mode
		text string
		want []string
	}{
		{name: "Простое предложение", mode: viterbi.Normal, text: "お寿司が食べたい。", want: []string{"お寿司", "が", "食べ", "たい", "。"}},
		{name: "Составное слово в обычном режиме", mode: viterbi.Normal, text: "東京都", want: []string{"東京都"}},
		{name: "Составное слово в режиме поиска", mode: viterbi.Search, text: "東京都", want: []string{"東京", "都"}},
		{name: "Неизвестное слово латиницей", mode: viterbi.Normal, text: "XYZ", want: []string{"XYZ"}},
		{name: "Неизвестное слово в режиме поиска", mode: viterbi.Search, text: "XYZ", want: []string{"XYZ"}},
		{name: "Расширенный режим делит неизвестные слова", mode: viterbi.Extended, text: "XYZ", want: []string{"X", "Y", "Z"}},
		{name: "Неизвестные кандзи", mode: viterbi.Normal, text: "関西", want: []string{"関西"}},
		{name: "Известное и неизвестное слово", mode: viterbi.Normal, text: "東京都XYZ", want: []string{"東京都", "XYZ"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := surfaces(analyze(t, set, nil, tc.mode, tc.text)); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("%q: %v, ожидалось %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestSearch_PathCost(t *testing.T) {
	set := loadSet(t)
	l := viterbi.NewBuilder(set, nil, viterbi.Normal).Build([]rune("お寿司が食べたい。"))
	viterbi.NewSearcher(set.Costs, viterbi.Normal).Search(l)
	if got := l.EOS().PathCost(); got != 3000 {
		t.Errorf("стоимость пути %d, ожидалось 3000", got)
	}
}

func TestSearch_HomographTie(t *testing.T) {
	set := loadSet(t)

	// 紙 и 神 имеют одинаковую стоимость: выигрывает слово с меньшим word id.
	path := analyze(t, set, nil, viterbi.Normal, "かみ")
	if len(path) != 1 || path[0].WordID != 16 || path[0].Type != viterbi.Known {
		t.Fatalf("путь %v", path)
	}
	if got := path[0].Dict.Feature(path[0].WordID, dict.IPADIC.BaseFormFeature); got != "紙" {
		t.Errorf("базовая форма %q, ожидалось 紙", got)
	}
}

func TestSearch_Extended(t *testing.T) {
	set := loadSet(t)

	path := analyze(t, set, nil, viterbi.Extended, "東京都XYZ")
	if got := surfaces(path); !reflect.DeepEqual(got, []string{"東京", "都", "X", "Y", "Z"}) {
		t.Fatalf("путь %v", got)
	}
	for i, n := range path[2:] {
		if n.Type != viterbi.Unknown || n.Length != 1 || n.Start != 3+i || n.WordID != path[2].WordID {
			t.Errorf("узел %v: ожидался неизвестный символ в позиции %d", n, 3+i)
		}
	}
}

func TestSearch_Coverage(t *testing.T) {
	set := loadSet(t)
	texts := []string{
		"お寿司が食べたい。",
		"東京都に行きたい、京都は？",
		"ＸＹＺ 123 abc",
		"カタカナとひらがなと漢字",
		"〇一二三",
		"😀東京",
		"寿",
	}
	for _, mode := range []viterbi.Mode{viterbi.Normal, viterbi.Search, viterbi.Extended} {
		for _, text := range texts {
			t.Run(mode.String()+"/"+text, func(t *testing.T) {
				path := analyze(t, set, nil, mode, text)
				if got := strings.Join(surfaces(path), ""); got != text {
					t.Errorf("сегменты не покрывают текст: %q", got)
				}
				pos := 0
				for _, n := range path {
					if n.Start != pos {
						t.Errorf("узел %v начинается в %d, ожидалось %d", n, n.Start, pos)
					}
					pos = n.End()
				}
			})
		}
	}
}

func TestSearch_UserDictionary(t *testing.T) {
	set := loadSet(t)
	user := loadUser(t)

	path := analyze(t, set, user, viterbi.Normal, "関西国際空港に行きたい")
	if got := surfaces(path); !reflect.DeepEqual(got, []string{"関西", "国際", "空港", "に", "行き", "たい"}) {
		t.Fatalf("путь %v", got)
	}
	for _, n := range path[:3] {
		if n.Type != viterbi.User {
			t.Errorf("узел %v: ожидался пользовательский", n)
		}
	}
	if got := path[0].Dict.Feature(path[0].WordID, dict.IPADIC.PartOfSpeechFeature); got != "カスタム名詞" {
		t.Errorf("часть речи %q", got)
	}
	if got := path[0].Dict.Feature(path[0].WordID, dict.IPADIC.ReadingFeature); got != "カンサイ" {
		t.Errorf("чтение %q", got)
	}
	if path[3].Type != viterbi.Known {
		t.Errorf("に: тип %v", path[3].Type)
	}
}

func TestSearch_InsertedRepair(t *testing.T) {
	set := loadSet(t)
	user, err := dict.NewUserDictionary([]dict.UserEntry{{
		Surface:      "司が",
		Segments:     []string{"司が"},
		Readings:     []string{"シガ"},
		PartOfSpeech: "カスタム",
	}}, dict.IPADIC)
	if err != nil {
		t.Fatal(err)
	}

	path := analyze(t, set, user, viterbi.Normal, "お寿司が食べたい。")
	want := []struct {
		surface string
		typ     viterbi.NodeType
	}{
		{"お", viterbi.Known},
		{"寿", viterbi.Inserted},
		{"司が", viterbi.User},
		{"食べ", viterbi.Known},
		{"たい", viterbi.Known},
		{"。", viterbi.Known},
	}
	if len(path) != len(want) {
		t.Fatalf("путь %v", path)
	}
	for i, w := range want {
		if path[i].Surface != w.surface || path[i].Type != w.typ {
			t.Errorf("узел %d: %v, ожидалось %s %v", i, path[i], w.surface, w.typ)
		}
	}
	if got := path[1].Dict.AllFeatures(path[1].WordID); got != "*,*,*,*,*,*,*,*,*" {
		t.Errorf("признаки вставленного узла %q", got)
	}
}

func TestBuild_NodeOrder(t *testing.T) {
	set := loadSet(t)
	l := viterbi.NewBuilder(set, nil, viterbi.Normal).Build([]rune("東京都"))

	var got []string
	for _, n := range l.StartingAt(0) {
		got = append(got, n.Surface)
	}
	// Словарные совпадения по возрастанию длины; неизвестных слов нет,
	// потому что KANJI не вызывается при наличии совпадений.
	if !reflect.DeepEqual(got, []string{"東京", "東京都"}) {
		t.Errorf("узлы в позиции 0: %v", got)
	}
	if l.Reachable(1) {
		t.Error("позиция 1 не должна быть достижима")
	}
	if l.EOS() == nil || l.EOS().Start != 3 {
		t.Error("решетка не закрыта узлом EOS")
	}
}

func TestBuild_UnknownGroups(t *testing.T) {
	set := loadSet(t)

	// KATAKANA: invoke, group и length 2. Для серии из трех символов
	// строятся слова длиной 3 (группа), 1 и 2.
	l := viterbi.NewBuilder(set, nil, viterbi.Normal).Build([]rune("カタカ"))
	var lengths []int
	for _, n := range l.StartingAt(0) {
		lengths = append(lengths, n.Length)
	}
	if !reflect.DeepEqual(lengths, []int{3, 1, 2}) {
		t.Errorf("длины неизвестных слов: %v", lengths)
	}
	// Внутри группы в обычном режиме неизвестные слова не строятся.
	if n := len(l.StartingAt(1)); n != 0 {
		t.Errorf("в позиции 1 %d узлов", n)
	}

	l = viterbi.NewBuilder(set, nil, viterbi.Search).Build([]rune("カタカ"))
	if n := len(l.StartingAt(1)); n == 0 {
		t.Error("в режиме поиска внутри группы должны строиться неизвестные слова")
	}
}

func TestSearch_Unreachable(t *testing.T) {
	set := loadSet(t)
	l := viterbi.NewLattice([]rune("あい"))
	if path := viterbi.NewSearcher(set.Costs, viterbi.Normal).Search(l); path != nil {
		t.Errorf("ожидался nil для решетки без пути, получено %v", path)
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range []viterbi.Mode{viterbi.Normal, viterbi.Search, viterbi.Extended} {
		got, err := viterbi.ParseMode(strings.ToUpper(mode.String()))
		if err != nil || got != mode {
			t.Errorf("ParseMode(%q) = %v, %v", mode.String(), got, err)
		}
	}
	if _, err := viterbi.ParseMode("fast"); err == nil {
		t.Error("ожидалась ошибка для неизвестного режима")
	}
}

func TestFormatter(t *testing.T) {
	set := loadSet(t)
	l := viterbi.NewBuilder(set, nil, viterbi.Normal).Build([]rune("東京都"))
	path := viterbi.NewSearcher(set.Costs, viterbi.Normal).Search(l)

	var out bytes.Buffer
	f := viterbi.Formatter{Costs: set.Costs, Feature: dict.IPADIC.PartOfSpeechFeature}
	if err := f.Format(&out, l, path); err != nil {
		t.Fatal(err)
	}
	dot := out.String()
	for _, want := range []string{"digraph viterbi {", "東京都", "名詞", "penwidth=3", "BOS", "EOS"} {
		if !strings.Contains(dot, want) {
			t.Errorf("в выводе нет %q:\n%s", want, dot)
		}
	}
	// Ровно два ребра лучшего пути: BOS -> 東京都 -> EOS.
	if n := strings.Count(dot, "penwidth=3"); n != 2 {
		t.Errorf("выделено %d ребер, ожидалось 2", n)
	}
}
