package main

// #include <stdlib.h>
import "C"

import (
	"encoding/json"
	"log"
	"unsafe"

	"github.com/steosofficial/steostokenizer/tokenizer"
)

var tk *tokenizer.Tokenizer

// CreateTokenizer загружает токенизатор. Пустой путь - словарь по умолчанию
// (STEOSTOKENIZER_DICT_PATH), иначе YAML-конфигурация. Возвращает 0 при успехе.
//
//export CreateTokenizer
func CreateTokenizer(configPath *C.char) C.int {
	var err error
	var t *tokenizer.Tokenizer
	if path := C.GoString(configPath); path == "" {
		t, err = tokenizer.LoadDefault()
	} else {
		var cfg tokenizer.Config
		if cfg, err = tokenizer.LoadConfig(path); err == nil {
			t, err = tokenizer.Load(cfg)
		}
	}
	if err != nil {
		log.Printf("Не удалось загрузить токенизатор: %v", err)
		return -1
	}
	ReleaseTokenizer()
	tk = t
	return 0
}

// Tokenize возвращает JSON-массив разборов токенов текста.
//
//export Tokenize
func Tokenize(text *C.char) *C.char {
	if tk == nil {
		return nil
	}
	tokens := tk.Tokenize(C.GoString(text))
	parsed := make([]*tokenizer.Parsed, len(tokens))
	for i, t := range tokens {
		parsed[i] = t.Parsed()
	}
	return marshal(parsed)
}

// TokenizeList принимает JSON-массив строк и возвращает массив результатов.
//
//export TokenizeList
func TokenizeList(textsJSON *C.char) *C.char {
	if tk == nil {
		return nil
	}
	var texts []string
	if err := json.Unmarshal([]byte(C.GoString(textsJSON)), &texts); err != nil {
		log.Printf("Некорректный список текстов: %v", err)
		return nil
	}
	return marshal(tk.ParseList(texts))
}

// Wakati возвращает JSON-массив поверхностей.
//
//export Wakati
func Wakati(text *C.char) *C.char {
	if tk == nil {
		return nil
	}
	return marshal(tk.Wakati(C.GoString(text)))
}

func marshal(v any) *C.char {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Ошибка сериализации результата: %v", err)
		return nil
	}
	return C.CString(string(data))
}

//export FreeString
func FreeString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

//export ReleaseTokenizer
func ReleaseTokenizer() {
	if tk != nil {
		if err := tk.Close(); err != nil {
			log.Printf("Ошибка освобождения словаря: %v", err)
		}
		tk = nil
	}
}

func main() {}
