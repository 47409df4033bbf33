package tokenizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/steosofficial/steostokenizer/dict"
	"github.com/steosofficial/steostokenizer/viterbi"
)

// --- ПЕРЕМЕННЫЕ ОКРУЖЕНИЯ ---

// EnvDictPath - имя переменной окружения для переопределения пути к словарю.
const EnvDictPath = "STEOSTOKENIZER_DICT_PATH"

// --- КОНФИГУРАЦИЯ ---

// Variant - раскладка признаков словаря (см. dict.Variant).
type Variant = dict.Variant

var (
	IPADIC   = dict.IPADIC
	JUMANDIC = dict.JUMANDIC
)

// Способы чтения файлов словаря.
const (
	ResolverDir  = "dir"  // Файлы читаются в память, части name_aa... склеиваются.
	ResolverMmap = "mmap" // Файлы отображаются в память без копирования.
)

// Config описывает токенизатор в YAML-файле:
//
//	dict_path: ./ipadic
//	resolver: mmap
//	variant: ipadic
//	mode: search
//	user_dictionary: ./user.csv
//	cache_size: 4096
type Config struct {
	DictPath string `yaml:"dict_path"`
	Resolver string `yaml:"resolver"`

	// VariantName - встроенный вариант (ipadic, jumandic). Если задан
	// CustomVariant, имя игнорируется.
	VariantName   string   `yaml:"variant"`
	CustomVariant *Variant `yaml:"custom_variant"`

	Mode           string `yaml:"mode"`
	UserDictionary string `yaml:"user_dictionary"`
	Normalize      bool   `yaml:"normalize"`       // NFKC-нормализация входа.
	SplitSentences bool   `yaml:"split_sentences"` // Разбор по предложениям (。、).
	CacheSize      int    `yaml:"cache_size"`      // 0 - без кэша.
	Workers        int    `yaml:"workers"`         // 0 - по числу CPU.
}

// DefaultConfig - словарь IPADIC из EnvDictPath, обычный режим.
func DefaultConfig() Config {
	return Config{
		DictPath:    os.Getenv(EnvDictPath),
		Resolver:    ResolverMmap,
		VariantName: IPADIC.Name,
		Mode:        viterbi.Normal.String(),
	}
}

// LoadConfig читает YAML-файл поверх DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}
	return cfg, nil
}

// Variant возвращает раскладку признаков из конфигурации.
func (c Config) Variant() (Variant, error) {
	if c.CustomVariant != nil {
		if err := c.CustomVariant.Validate(); err != nil {
			return Variant{}, fmt.Errorf("ошибка в custom_variant: %w", err)
		}
		return *c.CustomVariant, nil
	}
	name := c.VariantName
	if name == "" {
		name = IPADIC.Name
	}
	v, ok := dict.VariantByName(name)
	if !ok {
		return Variant{}, fmt.Errorf("неизвестный вариант словаря '%s'", name)
	}
	return v, nil
}

// resolver выбирает способ чтения файлов словаря.
func (c Config) resolver() (dict.Resolver, error) {
	if c.DictPath == "" {
		return nil, fmt.Errorf("не задан путь к словарю (dict_path или %s)", EnvDictPath)
	}
	switch c.Resolver {
	case "", ResolverMmap:
		return dict.MmapResolver{Dir: c.DictPath}, nil
	case ResolverDir:
		return dict.DirResolver{Dir: c.DictPath}, nil
	}
	return nil, fmt.Errorf("неизвестный способ чтения словаря '%s'", c.Resolver)
}

// options переводит конфигурацию в опции токенизатора.
func (c Config) options(v Variant) ([]Option, error) {
	var opts []Option
	if c.Mode != "" {
		mode, err := viterbi.ParseMode(c.Mode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithMode(mode))
	}
	if c.UserDictionary != "" {
		f, err := os.Open(c.UserDictionary)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия пользовательского словаря: %w", err)
		}
		defer f.Close()
		user, err := dict.ReadUserDictionary(f, v)
		if err != nil {
			return nil, fmt.Errorf("пользовательский словарь %s: %w", c.UserDictionary, err)
		}
		opts = append(opts, WithUserDictionary(user))
	}
	if c.Normalize {
		opts = append(opts, WithNormalization())
	}
	if c.SplitSentences {
		opts = append(opts, WithSentenceSplit())
	}
	if c.CacheSize > 0 {
		opts = append(opts, WithCache(c.CacheSize))
	}
	if c.Workers > 0 {
		opts = append(opts, WithWorkers(c.Workers))
	}
	return opts, nil
}
