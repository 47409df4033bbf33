package dict

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Escape экранирует значение признака для строки через запятую:
// значение с запятой или кавычкой берется в кавычки, кавычки внутри удваиваются.
func Escape(s string) string {
	if strings.Contains(s, `"`) {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	if strings.Contains(s, ",") {
		return `"` + s + `"`
	}
	return s
}

// JoinFeatures экранирует и объединяет признаки через запятую.
func JoinFeatures(features []string) string {
	escaped := make([]string, len(features))
	for i, f := range features {
		escaped[i] = Escape(f)
	}
	return strings.Join(escaped, ",")
}

// ParseLine разбирает строку словаря с учетом экранирования, обратную JoinFeatures.
func ParseLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("dict: разбор строки %q: %w", line, err)
	}
	return fields, nil
}
