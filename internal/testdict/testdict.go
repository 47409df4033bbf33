// Пакет testdict - маленький словарь в формате IPADIC для тестов. Исходники
// встроены в бинарник и компилируются в память, поэтому тестам не нужны
// собранные файлы словаря.
//
// Классы соединения: 0 - BOS/EOS, 1 - 名詞, 2 - 助詞, 3 - 動詞, 4 - 助動詞,
// 5 - 記号 (и пользовательские слова), 6 - 接頭詞.
package testdict

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/steosofficial/steostokenizer/compile"
	"github.com/steosofficial/steostokenizer/dict"
)

//go:embed testdata
var files embed.FS

// Dir - каталог исходников внутри Sources().
const Dir = "testdata"

// Sources возвращает встроенные исходники.
func Sources() fs.FS { return files }

// Compiler читает встроенные исходники.
func Compiler() (*compile.DictionaryCompiler, error) {
	return compile.LoadSources(files, Dir, dict.IPADIC, "utf-8")
}

// Compile компилирует словарь в память.
func Compile() (*compile.MemSink, error) {
	c, err := Compiler()
	if err != nil {
		return nil, err
	}
	sink := compile.NewMemSink()
	if err := c.Compile(sink); err != nil {
		return nil, err
	}
	return sink, nil
}

var (
	once    sync.Once
	shared  *compile.MemSink
	initErr error
)

// Resolver возвращает ресурсы словаря, скомпилированного один раз на процесс.
func Resolver() (dict.MemResolver, error) {
	once.Do(func() { shared, initErr = Compile() })
	if initErr != nil {
		return nil, fmt.Errorf("не удалось скомпилировать тестовый словарь: %w", initErr)
	}
	return shared.Resolver(), nil
}

// Load загружает тестовый словарь. Закрывает его вызывающий.
func Load() (*dict.Set, error) {
	resolver, err := Resolver()
	if err != nil {
		return nil, err
	}
	return dict.Load(resolver, dict.IPADIC)
}

// UserDictionary загружает встроенный пользовательский словарь.
func UserDictionary() (*dict.UserDictionary, error) {
	f, err := files.Open(Dir + "/userdict.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dict.ReadUserDictionary(f, dict.IPADIC)
}
