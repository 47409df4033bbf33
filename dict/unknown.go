package dict

import "fmt"

// UnknownDictionary - словарь неизвестных слов. Устроен так же, как словарь
// известных слов, но источником в таблице омографов служит номер класса
// символов, а не ранг поверхностной формы.
type UnknownDictionary struct {
	*TokenInfoDictionary
	chars *CharacterDefinitions
}

// NewUnknownDictionary связывает таблицы неизвестных слов с классами символов.
// Каждый класс обязан иметь хотя бы одну запись: компилятор подставляет записи
// DEFAULT классам, для которых unk.def ничего не задает.
func NewUnknownDictionary(entries *TokenInfoDictionary, chars *CharacterDefinitions) (*UnknownDictionary, error) {
	if entries.SourceCount() != chars.ClassCount() {
		return nil, fmt.Errorf("%w: %d классов символов, а в таблице неизвестных слов %d",
			ErrCorruptDictionary, chars.ClassCount(), entries.SourceCount())
	}
	return &UnknownDictionary{TokenInfoDictionary: entries, chars: chars}, nil
}

// CharacterDefinitions возвращает классы символов.
func (u *UnknownDictionary) CharacterDefinitions() *CharacterDefinitions { return u.chars }

// LookupWordIDs возвращает записи неизвестных слов класса символов.
func (u *UnknownDictionary) LookupWordIDs(class int) []int {
	return u.TokenInfoDictionary.LookupWordIDs(class)
}
