// Пакет tokenizer - фасад морфологического анализатора японского текста.
// Он связывает загруженный словарь, построение решетки и поиск лучшего пути
// и отдает результат в виде токенов с признаками.
package tokenizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/steosofficial/steostokenizer/dict"
	"github.com/steosofficial/steostokenizer/viterbi"
)

// --- СТРУКТУРЫ ДАННЫХ ---

// Tokenizer разбирает текст. После создания неизменяем, все методы безопасны
// для конкурентного использования: решетка строится заново на каждый вызов,
// кэш синхронизирован.
type Tokenizer struct {
	set      *dict.Set
	user     *dict.UserDictionary
	mode     viterbi.Mode
	builder  *viterbi.Builder
	searcher *viterbi.Searcher

	normalize bool
	split     bool
	workers   int
	cacheSize int
	cache     *lru.Cache[string, []Token]

	// ownsSet - словарь загружен через Load и закрывается вместе с токенизатором.
	ownsSet bool
}

// Option настраивает токенизатор.
type Option func(*Tokenizer)

// WithMode задает режим разбора (по умолчанию viterbi.Normal).
func WithMode(mode viterbi.Mode) Option {
	return func(t *Tokenizer) { t.mode = mode }
}

// WithUserDictionary подключает пользовательский словарь.
func WithUserDictionary(user *dict.UserDictionary) Option {
	return func(t *Tokenizer) { t.user = user }
}

// WithNormalization включает NFKC-нормализацию входного текста. Позиции
// токенов тогда относятся к нормализованному тексту.
func WithNormalization() Option {
	return func(t *Tokenizer) { t.normalize = true }
}

// WithSentenceSplit включает разбор по частям, оканчивающимся на 。 или 、.
// Решетка строится для каждой части отдельно, что ограничивает ее размер.
func WithSentenceSplit() Option {
	return func(t *Tokenizer) { t.split = true }
}

// WithCache включает LRU-кэш результатов на size текстов.
func WithCache(size int) Option {
	return func(t *Tokenizer) { t.cacheSize = size }
}

// WithWorkers задает число воркеров TokenizeList.
func WithWorkers(n int) Option {
	return func(t *Tokenizer) { t.workers = n }
}

// --- СОЗДАНИЕ ---

// New создает токенизатор над загруженным словарем. Словарь не закрывается
// вместе с токенизатором: им владеет вызывающий.
func New(set *dict.Set, opts ...Option) (*Tokenizer, error) {
	if set == nil {
		return nil, fmt.Errorf("словарь не загружен")
	}
	t := &Tokenizer{set: set, mode: viterbi.Normal, workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(t)
	}
	if t.workers < 1 {
		return nil, fmt.Errorf("некорректное число воркеров: %d", t.workers)
	}
	if t.user != nil {
		if err := set.CheckUser(t.user); err != nil {
			return nil, fmt.Errorf("пользовательский словарь несовместим со словарем: %w", err)
		}
	}
	if t.cacheSize > 0 {
		cache, err := lru.New[string, []Token](t.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания кэша: %w", err)
		}
		t.cache = cache
	}
	t.builder = viterbi.NewBuilder(set, t.user, t.mode)
	t.searcher = viterbi.NewSearcher(set.Costs, t.mode)
	return t, nil
}

// Load загружает словарь по конфигурации и создает токенизатор. Опции
// применяются после опций из конфигурации.
func Load(cfg Config, opts ...Option) (*Tokenizer, error) {
	v, err := cfg.Variant()
	if err != nil {
		return nil, err
	}
	resolver, err := cfg.resolver()
	if err != nil {
		return nil, err
	}
	cfgOpts, err := cfg.options(v)
	if err != nil {
		return nil, err
	}
	set, err := dict.Load(resolver, v)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки словаря из '%s': %w", cfg.DictPath, err)
	}
	t, err := New(set, append(cfgOpts, opts...)...)
	if err != nil {
		_ = set.Close()
		return nil, err
	}
	t.ownsSet = true
	return t, nil
}

// LoadDefault загружает словарь IPADIC.
// Путь берется из переменной окружения STEOSTOKENIZER_DICT_PATH, если она задана.
// Иначе словарь ищется в каталоге ipadic рядом с исходниками пакета; там
// файлы могут лежать частями (name_aa, name_ab...), они склеиваются в памяти.
func LoadDefault(opts ...Option) (*Tokenizer, error) {
	cfg := DefaultConfig()
	if cfg.DictPath == "" {
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			return nil, fmt.Errorf("не удалось определить путь к пакету")
		}
		cfg.DictPath = filepath.Join(filepath.Dir(filename), "ipadic")
		cfg.Resolver = ResolverDir
	}
	if _, err := os.Stat(cfg.DictPath); err != nil {
		return nil, fmt.Errorf("каталог словаря недоступен: %w", err)
	}
	return Load(cfg, opts...)
}

// Close освобождает словарь, если он был загружен токенизатором.
func (t *Tokenizer) Close() error {
	if t.ownsSet {
		return t.set.Close()
	}
	return nil
}

// Dictionary - словарь токенизатора.
func (t *Tokenizer) Dictionary() *dict.Set { return t.set }

// Mode - режим разбора.
func (t *Tokenizer) Mode() viterbi.Mode { return t.mode }

// --- РАЗБОР ---

// Tokenize разбивает текст на токены. Пустой текст дает пустой результат.
func (t *Tokenizer) Tokenize(text string) []Token {
	if t.normalize {
		text = norm.NFKC.String(text)
	}
	if text == "" {
		return []Token{}
	}
	if t.cache != nil {
		if cached, ok := t.cache.Get(text); ok {
			return append([]Token(nil), cached...)
		}
	}

	var tokens []Token
	if t.split {
		position, offset := 0, 0
		for _, part := range splitSentences(text) {
			tokens = t.appendTokens(tokens, part, position, offset)
			position += len([]rune(part))
			offset += len(part)
		}
	} else {
		tokens = t.appendTokens(nil, text, 0, 0)
	}

	if t.cache != nil {
		t.cache.Add(text, append([]Token(nil), tokens...))
	}
	return tokens
}

// appendTokens разбирает один фрагмент и добавляет токены со сдвигом позиций.
// Поверхность токена вырезается из исходной строки: некорректный байт UTF-8
// в решетке становится U+FFFD, но в токене остается как есть.
func (t *Tokenizer) appendTokens(tokens []Token, text string, position, offset int) []Token {
	runes := []rune(text)
	byteAt := make([]int, 0, len(runes)+1)
	for i := range text {
		byteAt = append(byteAt, i)
	}
	byteAt = append(byteAt, len(text))

	l := t.builder.Build(runes)
	path := t.searcher.Search(l)
	for _, n := range path {
		start, end := byteAt[n.Start], byteAt[n.End()]
		tokens = append(tokens, Token{
			WordID:   n.WordID,
			Surface:  text[start:end],
			Position: position + n.Start,
			Offset:   offset + start,
			Type:     n.Type,
			dict:     n.Dict,
			variant:  t.set.Variant,
		})
	}
	return tokens
}

// splitSentences делит текст после каждого 。 и 、. Разделитель остается
// в конце своей части.
func splitSentences(text string) []string {
	var parts []string
	for text != "" {
		i := strings.IndexAny(text, "。、")
		if i < 0 {
			parts = append(parts, text)
			break
		}
		end := i + len("。") // Оба разделителя занимают 3 байта в UTF-8.
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}

// Wakati возвращает только поверхности токенов.
func (t *Tokenizer) Wakati(text string) []string {
	tokens := t.Tokenize(text)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Surface
	}
	return out
}

// DebugLattice строит решетку для всего текста и пишет ее в формате Graphviz dot.
func (t *Tokenizer) DebugLattice(w io.Writer, text string) error {
	if t.normalize {
		text = norm.NFKC.String(text)
	}
	l := t.builder.Build([]rune(text))
	path := t.searcher.Search(l)
	f := viterbi.Formatter{Costs: t.set.Costs, Feature: t.set.Variant.PartOfSpeechFeature}
	if err := f.Format(w, l, path); err != nil {
		return fmt.Errorf("ошибка вывода решетки: %w", err)
	}
	return nil
}
