package compile

import (
	"fmt"

	"github.com/steosofficial/steostokenizer/dict"
)

// DictionaryCompiler компилирует полный словарь одного варианта.
type DictionaryCompiler struct {
	Variant dict.Variant
	// Entries - записи известных слов. Word id - индекс в срезе, поэтому записи
	// с одинаковой поверхностью сохраняют порядок среза в таблице омографов.
	Entries []DictionaryEntry
	Matrix  *ConnectionCostsCompiler
	Chars   *CharacterDefinitionsCompiler
	// Unknown - записи unk.def; поле Surface содержит имя класса символов.
	Unknown []DictionaryEntry
}

// Compile проверяет исходные данные и пишет все ресурсы в sink.
// Размер матрицы обязан быть равен max(leftId, rightId)+1 по всем записям,
// известным и неизвестным; иначе - ошибка dict.ErrCorruptDictionary.
func (c *DictionaryCompiler) Compile(sink Sink) error {
	if c.Matrix == nil || c.Chars == nil {
		return fmt.Errorf("компилятор словаря: не заданы матрица или классы символов")
	}
	if err := c.validateMatrix(); err != nil {
		return err
	}

	// Известные слова: трансдьюсер поверхностей и таблица омографов по рангам.
	surfaces := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		if e.Surface == "" {
			return fmt.Errorf("запись %d: пустая поверхностная форма", i)
		}
		surfaces[i] = e.Surface
	}
	fstc := NewFSTCompiler(surfaces)
	targets := NewWordIDMapCompiler(len(fstc.Surfaces()))
	for wordID, e := range c.Entries {
		rank, _ := fstc.Rank(e.Surface)
		targets.AddMapping(rank, wordID)
	}
	if err := c.writeTokenInfo(sink, dict.KnownFiles, c.Entries, targets); err != nil {
		return err
	}
	if err := writeResource(sink, dict.ConnectionCostsFile, c.Matrix); err != nil {
		return err
	}
	if err := writeResource(sink, dict.FSTFile, fstc); err != nil {
		return err
	}
	if err := writeResource(sink, dict.CharacterDefinitionsFile, c.Chars); err != nil {
		return err
	}

	unknownTargets, err := c.unknownTargets()
	if err != nil {
		return err
	}
	return c.writeTokenInfo(sink, dict.UnknownFiles, c.Unknown, unknownTargets)
}

func (c *DictionaryCompiler) validateMatrix() error {
	maxID := -1
	for _, entries := range [][]DictionaryEntry{c.Entries, c.Unknown} {
		for _, e := range entries {
			maxID = max(maxID, e.LeftID, e.RightID)
		}
	}
	if maxID+1 != c.Matrix.Size() {
		return fmt.Errorf("%w: наибольший класс соединения %d, а размер матрицы %d",
			dict.ErrCorruptDictionary, maxID, c.Matrix.Size())
	}
	return nil
}

// unknownTargets привязывает записи unk.def к классам символов. Класс без
// собственных записей получает записи DEFAULT.
func (c *DictionaryCompiler) unknownTargets() (*WordIDMapCompiler, error) {
	byClass := make([][]int, c.Chars.ClassCount())
	for wordID, e := range c.Unknown {
		class, ok := c.Chars.ClassID(e.Surface)
		if !ok {
			return nil, fmt.Errorf("unk.def: неизвестный класс символов %s", e.Surface)
		}
		byClass[class] = append(byClass[class], wordID)
	}
	def, ok := c.Chars.ClassID(dict.DefaultClass)
	if !ok || len(byClass[def]) == 0 {
		return nil, fmt.Errorf("unk.def: нет записей для класса %s", dict.DefaultClass)
	}

	targets := NewWordIDMapCompiler(len(byClass))
	for class, ids := range byClass {
		if len(ids) == 0 {
			ids = byClass[def]
		}
		for _, id := range ids {
			targets.AddMapping(class, id)
		}
	}
	return targets, nil
}

// writeTokenInfo интернирует признаки и пишет четыре ресурса таблицы слов.
// Части речи и прочие признаки интернируются раздельно: число различных
// частей речи определяет раскладку записи.
func (c *DictionaryCompiler) writeTokenInfo(sink Sink, files dict.TokenInfoFiles, entries []DictionaryEntry, targets *WordIDMapCompiler) error {
	posMap, otherMap := NewFeatureInfoMap(), NewFeatureInfoMap()
	posIDs := make([][]int, len(entries))
	otherIDs := make([][]int, len(entries))
	for i, e := range entries {
		if len(e.Features) != c.Variant.TotalFeatures {
			return fmt.Errorf("запись %q: %d признаков, вариант %s ожидает %d",
				e.Surface, len(e.Features), c.Variant.Name, c.Variant.TotalFeatures)
		}
		posIDs[i] = posMap.MapFeatures(e.PartOfSpeech(c.Variant))
		otherIDs[i] = otherMap.MapFeatures(e.OtherFeatures(c.Variant))
	}

	tic := NewTokenInfoBufferCompiler(c.Variant.PartOfSpeechFeatures,
		c.Variant.TotalFeatures-c.Variant.PartOfSpeechFeatures, posMap.EntryCount())
	for i, e := range entries {
		if err := tic.Add(e.LeftID, e.RightID, e.WordCost, posIDs[i], otherIDs[i]); err != nil {
			return err
		}
	}

	for _, r := range []struct {
		name string
		c    Compiler
	}{
		{files.Dictionary, tic},
		{files.Features, NewStringValueMapBufferCompiler(otherMap.Invert())},
		{files.PartOfSpeech, NewStringValueMapBufferCompiler(posMap.Invert())},
		{files.TargetMap, targets},
	} {
		if err := writeResource(sink, r.name, r.c); err != nil {
			return err
		}
	}
	return nil
}
