// steostokenize разбирает японский текст из аргументов или построчно из stdin.
//
//	steostokenize -dict ./ipadic お寿司が食べたい。
//	echo 東京都に行きたい | steostokenize -dict ./ipadic -mode search -format json
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/k0kubun/pp/v3"
	"github.com/tidwall/pretty"

	"github.com/steosofficial/steostokenizer/tokenizer"
)

// Форматы вывода.
const (
	formatTable  = "table"
	formatJSON   = "json"
	formatWakati = "wakati"
)

type options struct {
	cfg    tokenizer.Config
	format string
	dot    bool
	debug  bool
	color  bool
	texts  []string
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("steostokenize", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML-конфигурация токенизатора")
	dictPath := fs.String("dict", "", "Каталог скомпилированного словаря (по умолчанию "+tokenizer.EnvDictPath+")")
	resolver := fs.String("resolver", "", "Способ чтения словаря: dir или mmap")
	variant := fs.String("variant", "", "Вариант словаря: ipadic или jumandic")
	mode := fs.String("mode", "", "Режим разбора: normal, search или extended")
	user := fs.String("user", "", "Пользовательский словарь (CSV)")
	normalize := fs.Bool("normalize", false, "NFKC-нормализация входа")
	split := fs.Bool("split", false, "Разбор по предложениям")
	format := fs.String("format", formatTable, "Формат вывода: table, json или wakati")
	dot := fs.Bool("dot", false, "Вывести решетку в формате Graphviz dot")
	debug := fs.Bool("debug", false, "Отладочный вывод токенов")
	noColor := fs.Bool("no-color", false, "Без цвета")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := tokenizer.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = tokenizer.LoadConfig(*configPath); err != nil {
			return nil, err
		}
	}
	if *dictPath != "" {
		cfg.DictPath = *dictPath
	}
	if *resolver != "" {
		cfg.Resolver = *resolver
	}
	if *variant != "" {
		cfg.VariantName = *variant
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *user != "" {
		cfg.UserDictionary = *user
	}
	cfg.Normalize = cfg.Normalize || *normalize
	cfg.SplitSentences = cfg.SplitSentences || *split

	switch *format {
	case formatTable, formatJSON, formatWakati:
	default:
		return nil, fmt.Errorf("неизвестный формат вывода '%s'", *format)
	}
	return &options{
		cfg:    cfg,
		format: *format,
		dot:    *dot,
		debug:  *debug,
		color:  !*noColor,
		texts:  fs.Args(),
	}, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	tk, err := tokenizer.Load(opts.cfg)
	if err != nil {
		return err
	}
	defer tk.Close()

	w := bufio.NewWriter(stdout)
	defer w.Flush()

	process := func(text string) error {
		if opts.dot {
			return tk.DebugLattice(w, text)
		}
		tokens := tk.Tokenize(text)
		if opts.debug {
			parsed := make([]*tokenizer.Parsed, len(tokens))
			for i, t := range tokens {
				parsed[i] = t.Parsed()
			}
			printer := pp.New()
			printer.SetOutput(w)
			printer.SetColoringEnabled(opts.color)
			_, err := printer.Println(parsed)
			return err
		}
		return printTokens(w, tokens, opts.format, opts.color)
	}

	if len(opts.texts) > 0 {
		return process(strings.Join(opts.texts, " "))
	}
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := process(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// printTokens выводит токены одного текста.
func printTokens(w io.Writer, tokens []tokenizer.Token, format string, colored bool) error {
	switch format {
	case formatWakati:
		surfaces := make([]string, len(tokens))
		for i, t := range tokens {
			surfaces[i] = t.Surface
		}
		_, err := fmt.Fprintln(w, strings.Join(surfaces, " "))
		return err

	case formatJSON:
		parsed := make([]*tokenizer.Parsed, len(tokens))
		for i, t := range tokens {
			parsed[i] = t.Parsed()
		}
		data, err := json.Marshal(parsed)
		if err != nil {
			return err
		}
		data = pretty.Pretty(data)
		if colored {
			data = pretty.Color(data, nil)
		}
		_, err = w.Write(data)
		return err
	}

	for _, t := range tokens {
		surface := t.Surface
		if colored {
			surface = categoryColor(t.Category()).Sprint(surface)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", surface, t.AllFeatures(), t.Type); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "EOS")
	return err
}

func categoryColor(c tokenizer.Category) color.Color {
	switch c {
	case tokenizer.Content:
		return color.Green
	case tokenizer.Function:
		return color.Cyan
	case tokenizer.Symbol:
		return color.Gray
	}
	return color.Yellow
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("steostokenize: %v", err)
	}
}
