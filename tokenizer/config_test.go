package tokenizer_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/steosofficial/steostokenizer/compile"
	"github.com/steosofficial/steostokenizer/internal/testdict"
	"github.com/steosofficial/steostokenizer/tokenizer"
	"github.com/steosofficial/steostokenizer/viterbi"
)

// compiledDir компилирует тестовый словарь в каталог.
func compiledDir(t *testing.T) string {
	t.Helper()
	c, err := testdict.Compiler()
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "ipadic")
	if err := c.Compile(compile.DirSink{Dir: dir}); err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(tokenizer.EnvDictPath, "/из/окружения")

	path := writeFile(t, "config.yaml", `
resolver: dir
mode: search
normalize: true
cache_size: 100
workers: 2
`)
	cfg, err := tokenizer.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := tokenizer.Config{
		DictPath:    "/из/окружения",
		Resolver:    tokenizer.ResolverDir,
		VariantName: "ipadic",
		Mode:        "search",
		Normalize:   true,
		CacheSize:   100,
		Workers:     2,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("конфигурация %+v\nожидалось %+v", cfg, want)
	}

	if _, err := tokenizer.LoadConfig(filepath.Join(t.TempDir(), "нет.yaml")); err == nil {
		t.Error("ожидалась ошибка для отсутствующего файла")
	}
	if _, err := tokenizer.LoadConfig(writeFile(t, "bad.yaml", "mode: [")); err == nil {
		t.Error("ожидалась ошибка разбора YAML")
	}
}

func TestConfig_Variant(t *testing.T) {
	variant := func(edit func(v *tokenizer.Variant)) *tokenizer.Variant {
		v := tokenizer.JUMANDIC
		v.Name = "mine"
		edit(&v)
		return &v
	}
	testCases := []struct {
		name    string
		cfg     tokenizer.Config
		want    string
		wantErr bool
	}{
		{name: "По умолчанию IPADIC", cfg: tokenizer.Config{}, want: "ipadic"},
		{name: "JUMANDIC по имени", cfg: tokenizer.Config{VariantName: "jumandic"}, want: "jumandic"},
		{name: "Неизвестное имя", cfg: tokenizer.Config{VariantName: "unidic"}, wantErr: true},
		{name: "Собственный вариант", cfg: tokenizer.Config{VariantName: "unidic", CustomVariant: variant(func(*tokenizer.Variant) {})}, want: "mine"},
		{name: "Пустой собственный вариант", cfg: tokenizer.Config{CustomVariant: &tokenizer.Variant{Name: "mine"}}, wantErr: true},
		{name: "Часть речи за пределами признаков", cfg: tokenizer.Config{CustomVariant: variant(func(v *tokenizer.Variant) { v.PartOfSpeechFeature = 12 })}, wantErr: true},
		{name: "Чтение за пределами признаков", cfg: tokenizer.Config{CustomVariant: variant(func(v *tokenizer.Variant) { v.ReadingFeature = 7 })}, wantErr: true},
		{name: "Отрицательный класс пользовательских записей", cfg: tokenizer.Config{CustomVariant: variant(func(v *tokenizer.Variant) { v.UserLeftID = -1 })}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tc.cfg.Variant()
			if tc.wantErr {
				if err == nil {
					t.Error("ожидалась ошибка")
				}
				return
			}
			if err != nil || v.Name != tc.want {
				t.Errorf("вариант %q, ошибка %v", v.Name, err)
			}
		})
	}
}

func TestLoadConfig_CustomVariant(t *testing.T) {
	cfg, err := tokenizer.LoadConfig(writeFile(t, "config.yaml", `
dict_path: /dict
custom_variant:
  name: custom
  total_features: 9
  part_of_speech_features: 6
  base_form_feature: 6
  reading_feature: 7
  pronunciation_feature: 8
  conjugation_type_feature: 4
  conjugation_form_feature: 5
  user_left_id: 5
  user_right_id: 5
`))
	if err != nil {
		t.Fatal(err)
	}
	v, err := cfg.Variant()
	if err != nil {
		t.Fatal(err)
	}
	want := tokenizer.IPADIC
	want.Name = "custom"
	if v != want {
		t.Errorf("вариант %+v\nожидалось %+v", v, want)
	}
}

func TestLoad(t *testing.T) {
	dir := compiledDir(t)
	userDict := writeFile(t, "user.csv", "関西国際空港,関西 国際 空港,カンサイ コクサイ クウコウ,カスタム名詞\n")

	for _, resolver := range []string{tokenizer.ResolverDir, tokenizer.ResolverMmap} {
		t.Run(resolver, func(t *testing.T) {
			tk, err := tokenizer.Load(tokenizer.Config{
				DictPath:       dir,
				Resolver:       resolver,
				Mode:           "search",
				UserDictionary: userDict,
				SplitSentences: true,
				CacheSize:      8,
			})
			if err != nil {
				t.Fatal(err)
			}
			defer tk.Close()

			if tk.Mode() != viterbi.Search {
				t.Errorf("режим %v", tk.Mode())
			}
			if got := tk.Wakati("東京都、関西国際空港"); !reflect.DeepEqual(got, []string{"東京", "都", "、", "関西", "国際", "空港"}) {
				t.Errorf("токены %v", got)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := compiledDir(t)
	farUser := tokenizer.IPADIC
	farUser.UserLeftID = 1 << 20
	testCases := []struct {
		name string
		cfg  tokenizer.Config
	}{
		{name: "Нет пути", cfg: tokenizer.Config{}},
		{name: "Неизвестный способ чтения", cfg: tokenizer.Config{DictPath: dir, Resolver: "http"}},
		{name: "Неизвестный режим", cfg: tokenizer.Config{DictPath: dir, Mode: "fast"}},
		{name: "Несуществующий каталог", cfg: tokenizer.Config{DictPath: filepath.Join(dir, "нет")}},
		{name: "Нет пользовательского словаря", cfg: tokenizer.Config{DictPath: dir, UserDictionary: filepath.Join(dir, "нет.csv")}},
		{name: "Вариант не совпадает со словарем", cfg: tokenizer.Config{DictPath: dir, VariantName: "jumandic"}},
		{name: "Класс пользовательских записей вне матрицы", cfg: tokenizer.Config{DictPath: dir, CustomVariant: &farUser}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tk, err := tokenizer.Load(tc.cfg); err == nil {
				tk.Close()
				t.Error("ожидалась ошибка")
			}
		})
	}
}

func TestLoadDefault(t *testing.T) {
	t.Setenv(tokenizer.EnvDictPath, compiledDir(t))

	tk, err := tokenizer.LoadDefault(tokenizer.WithMode(viterbi.Search))
	if err != nil {
		t.Fatal(err)
	}
	defer tk.Close()
	if got := tk.Wakati("東京都"); !reflect.DeepEqual(got, []string{"東京", "都"}) {
		t.Errorf("токены %v", got)
	}

	t.Setenv(tokenizer.EnvDictPath, filepath.Join(t.TempDir(), "нет"))
	if _, err := tokenizer.LoadDefault(); err == nil {
		t.Error("ожидалась ошибка для отсутствующего каталога")
	}
}
