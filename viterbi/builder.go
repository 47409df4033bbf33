package viterbi

import (
	"fmt"
	"strings"

	"github.com/steosofficial/steostokenizer/dict"
)

// Mode - режим разбора.
type Mode uint8

const (
	// Normal - обычная сегментация.
	Normal Mode = iota
	// Search - длинные слова штрафуются, чтобы составные слова делились на части.
	Search
	// Extended - как Search, но неизвестные слова дополнительно делятся посимвольно.
	Extended
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Search:
		return "search"
	case Extended:
		return "extended"
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode разбирает имя режима.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return Normal, nil
	case "search":
		return Search, nil
	case "extended":
		return Extended, nil
	}
	return Normal, fmt.Errorf("неизвестный режим %q", s)
}

// Builder строит решетку. Неизменяем и безопасен для конкурентного использования.
type Builder struct {
	set  *dict.Set
	user *dict.UserDictionary
	mode Mode
}

// NewBuilder создает построитель; user может быть nil.
func NewBuilder(set *dict.Set, user *dict.UserDictionary, mode Mode) *Builder {
	return &Builder{set: set, user: user, mode: mode}
}

// Build строит решетку над текстом. В каждой достижимой позиции узлы
// добавляются в фиксированном порядке: сегменты пользовательского словаря,
// словарные совпадения по возрастанию длины (омографы - в порядке word id),
// затем неизвестные слова. Этот порядок определяет разрешение равенств при поиске.
func (b *Builder) Build(text []rune) *Lattice {
	l := NewLattice(text)

	var userAt [][]dict.UserMatch
	if b.user != nil {
		for _, m := range b.user.FindMatches(text) {
			if userAt == nil {
				userAt = make([][]dict.UserMatch, len(text))
			}
			userAt[m.Start] = append(userAt[m.Start], m)
		}
	}

	lastReachable := 0
	unknownEnd := 0 // Конец последней группы неизвестного слова.
	for pos := 0; pos < len(text); pos++ {
		if userAt != nil && len(userAt[pos]) > 0 {
			if !l.Reachable(pos) {
				// Пользовательское слово начинается там, куда не ведет ни один узел:
				// перекрываем промежуток вставленным узлом.
				l.Add(&Node{
					WordID:  0,
					Surface: string(text[lastReachable:pos]),
					Start:   lastReachable,
					Length:  pos - lastReachable,
					Type:    Inserted,
					Dict:    b.set.Inserted,
				})
			}
			for _, m := range userAt[pos] {
				l.Add(&Node{
					WordID:  m.WordID,
					Surface: string(text[m.Start : m.Start+m.Length]),
					Start:   m.Start,
					Length:  m.Length,
					Type:    User,
					Dict:    b.user,
				})
			}
		}

		if !l.Reachable(pos) {
			continue
		}
		lastReachable = pos

		found := b.addKnown(l, pos)
		if b.mode != Normal || unknownEnd <= pos {
			if end := b.addUnknown(l, pos, found); end > unknownEnd {
				unknownEnd = end
			}
		}
	}
	l.Close()
	return l
}

// addKnown добавляет словарные слова, начинающиеся в pos.
func (b *Builder) addKnown(l *Lattice, pos int) bool {
	found := false
	text := l.Text()
	b.set.FST.PrefixMatches(text, pos, func(length, rank int) {
		found = true
		surface := string(text[pos : pos+length])
		b.set.Known.EachWordID(rank, func(wordID int) {
			l.Add(&Node{
				WordID:  wordID,
				Surface: surface,
				Start:   pos,
				Length:  length,
				Type:    Known,
				Dict:    b.set.Known,
			})
		})
	})
	return found
}

// addUnknown добавляет неизвестные слова для каждого класса первого символа.
// Класс обрабатывается, если у него установлен invoke или в позиции нет
// словарных слов. Для класса с group добавляется слово на всю серию символов
// класса, для length > 0 - слова длиной 1..length в пределах серии. Если класс
// не дал ни одного слова, добавляется слово из одного символа.
// Возвращает конец самой длинной группы (0, если групп не было).
func (b *Builder) addUnknown(l *Lattice, pos int, found bool) int {
	text := l.Text()
	chars := b.set.Unknown.CharacterDefinitions()
	groupEnd := 0

	for _, class := range chars.Lookup(text[pos]) {
		def := chars.Class(class)
		if !def.Invoke && found {
			continue
		}

		run := 1
		for pos+run < len(text) && chars.HasClass(text[pos+run], class) {
			run++
		}

		produced := false
		if def.Group {
			b.addUnknownWord(l, pos, run, class)
			groupEnd = max(groupEnd, pos+run)
			produced = true
		}
		for n := 1; n <= def.Length && n <= run; n++ {
			if def.Group && n == run {
				continue
			}
			b.addUnknownWord(l, pos, n, class)
			produced = true
		}
		if !produced {
			b.addUnknownWord(l, pos, 1, class)
		}
	}
	return groupEnd
}

func (b *Builder) addUnknownWord(l *Lattice, pos, length, class int) {
	surface := string(l.Text()[pos : pos+length])
	b.set.Unknown.EachWordID(class, func(wordID int) {
		l.Add(&Node{
			WordID:  wordID,
			Surface: surface,
			Start:   pos,
			Length:  length,
			Type:    Unknown,
			Dict:    b.set.Unknown,
		})
	})
}
