// steostokendict компилирует исходный словарь MeCab (CSV-лексикон, matrix.def,
// char.def, unk.def) в ресурсы токенизатора.
//
//	steostokendict -src ./mecab-ipadic -out ./ipadic -encoding euc-jp
//	steostokendict -src ./lexicon -out ./ipadic -kagome-ipa
//
// С флагом -kagome-ipa матрица, классы символов и неизвестные слова берутся
// из словаря IPADIC пакета kagome-dict, из каталога читаются только *.csv.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/steosofficial/steostokenizer/compile"
	"github.com/steosofficial/steostokenizer/dict"
	"github.com/steosofficial/steostokenizer/kagomedef"
)

func run(args []string) error {
	fs := flag.NewFlagSet("steostokendict", flag.ContinueOnError)
	src := fs.String("src", "", "Каталог исходного словаря")
	out := fs.String("out", "", "Каталог для скомпилированных ресурсов")
	variantName := fs.String("variant", dict.IPADIC.Name, "Вариант словаря: ipadic или jumandic")
	encoding := fs.String("encoding", "utf-8", "Кодировка исходников: utf-8, euc-jp или shift-jis")
	kagomeIPA := fs.Bool("kagome-ipa", false, "Взять matrix/char/unk из kagome-dict IPADIC")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *src == "" || *out == "" {
		return fmt.Errorf("флаги -src и -out обязательны")
	}
	v, ok := dict.VariantByName(*variantName)
	if !ok {
		return fmt.Errorf("неизвестный вариант словаря '%s'", *variantName)
	}

	start := time.Now()
	var c *compile.DictionaryCompiler
	if *kagomeIPA {
		if v.Name != dict.IPADIC.Name {
			return fmt.Errorf("таблицы kagome-dict IPADIC несовместимы с вариантом %s", v.Name)
		}
		entries, err := compile.LoadEntries(os.DirFS(*src), ".", v, *encoding)
		if err != nil {
			return err
		}
		log.Printf("Прочитано %d записей, загрузка таблиц kagome-dict IPADIC...", len(entries))
		sources, err := kagomedef.IPA()
		if err != nil {
			return err
		}
		c = sources.Compiler(entries, v)
	} else {
		var err error
		if c, err = compile.LoadSourceDir(*src, v, *encoding); err != nil {
			return err
		}
		log.Printf("Прочитано %d записей и %d неизвестных слов", len(c.Entries), len(c.Unknown))
	}

	if err := c.Compile(compile.DirSink{Dir: *out}); err != nil {
		return fmt.Errorf("ошибка компиляции: %w", err)
	}
	log.Printf("Словарь записан в %s за %v", *out, time.Since(start).Round(time.Millisecond))
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("steostokendict: %v", err)
	}
}
