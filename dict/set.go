package dict

import (
	"errors"
	"fmt"
	"io"

	"github.com/steosofficial/steostokenizer/buffer"
	"github.com/steosofficial/steostokenizer/fst"
)

// Set - полностью загруженный и проверенный словарь одного варианта.
// Неизменяем после Load и безопасен для конкурентного чтения.
type Set struct {
	Variant  Variant
	Known    *TokenInfoDictionary
	FST      *fst.FST
	Costs    *ConnectionCosts
	Unknown  *UnknownDictionary
	Inserted *InsertedDictionary

	closers []io.Closer
}

// Load читает все ресурсы словаря через resolver и проверяет их согласованность:
// трансдьюсер и таблица омографов описывают одно множество поверхностей,
// все классы соединения помещаются в матрицу, число признаков совпадает с вариантом.
// Любое расхождение - ErrCorruptDictionary.
func Load(resolver Resolver, v Variant) (_ *Set, err error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	set := &Set{Variant: v}
	defer func() {
		if err != nil {
			_ = set.Close()
		}
	}()

	open := func(name string) (io.Reader, error) {
		rc, err := resolver.Resolve(name)
		if err != nil {
			return nil, err
		}
		set.closers = append(set.closers, rc)
		return rc, nil
	}
	block := func(name string) ([]byte, error) {
		r, err := open(name)
		if err != nil {
			return nil, err
		}
		b, err := buffer.Read(r)
		if err != nil {
			return nil, fmt.Errorf("ресурс %s: %w", name, err)
		}
		return b, nil
	}
	tokenInfo := func(files TokenInfoFiles) (*TokenInfoDictionary, error) {
		var blobs [4][]byte
		var err error
		for i, name := range []string{files.Dictionary, files.Features, files.PartOfSpeech, files.TargetMap} {
			if blobs[i], err = block(name); err != nil {
				return nil, err
			}
		}
		d, err := NewTokenInfoDictionary(blobs[0], blobs[1], blobs[2], blobs[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptDictionary, err)
		}
		return d, nil
	}

	if set.Known, err = tokenInfo(KnownFiles); err != nil {
		return nil, err
	}

	fstBlock, err := block(FSTFile)
	if err != nil {
		return nil, err
	}
	if set.FST, err = fst.New(fstBlock); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDictionary, err)
	}

	r, err := open(ConnectionCostsFile)
	if err != nil {
		return nil, err
	}
	if set.Costs, err = ReadConnectionCosts(r); err != nil {
		return nil, fmt.Errorf("ресурс %s: %w", ConnectionCostsFile, err)
	}

	r, err = open(CharacterDefinitionsFile)
	if err != nil {
		return nil, err
	}
	chars, err := ReadCharacterDefinitions(r)
	if err != nil {
		return nil, fmt.Errorf("ресурс %s: %w", CharacterDefinitionsFile, err)
	}

	unknownEntries, err := tokenInfo(UnknownFiles)
	if err != nil {
		return nil, err
	}
	if set.Unknown, err = NewUnknownDictionary(unknownEntries, chars); err != nil {
		return nil, err
	}
	set.Inserted = NewInsertedDictionary(v.TotalFeatures)

	if err := set.validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Set) validate() error {
	if s.FST.Len() != s.Known.SourceCount() {
		return fmt.Errorf("%w: %d поверхностей в трансдьюсере, %d в таблице омографов",
			ErrCorruptDictionary, s.FST.Len(), s.Known.SourceCount())
	}
	for _, d := range []*TokenInfoDictionary{s.Known, s.Unknown.TokenInfoDictionary} {
		if err := d.validateTargets(); err != nil {
			return err
		}
		if d.EntryCount() > 0 && d.TotalFeatures() != s.Variant.TotalFeatures {
			return fmt.Errorf("%w: %d признаков в записи, вариант %s ожидает %d",
				ErrCorruptDictionary, d.TotalFeatures(), s.Variant.Name, s.Variant.TotalFeatures)
		}
	}

	lo, hi := s.Known.connectionBounds()
	ulo, uhi := s.Unknown.connectionBounds()
	lo, hi = min(lo, ulo), max(hi, uhi)
	if lo < 0 || hi+1 != s.Costs.Size() {
		return fmt.Errorf("%w: классы соединения [%d, %d] не соответствуют матрице %dx%d",
			ErrCorruptDictionary, lo, hi, s.Costs.Size(), s.Costs.Size())
	}
	return s.Variant.validateUserIDs(s.Costs.Size())
}

// CheckUser проверяет, что пользовательский словарь совместим с матрицей
// стоимостей: его классы соединения должны в ней присутствовать.
func (s *Set) CheckUser(d *UserDictionary) error {
	return d.variant.validateUserIDs(s.Costs.Size())
}

// Close освобождает ресурсы (в том числе отображения mmap). После Close
// словарь использовать нельзя.
func (s *Set) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
