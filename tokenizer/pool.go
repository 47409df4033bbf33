package tokenizer

import (
	"sync"
)

// chunkSize - размер одного "пакета" текстов для воркера.
const chunkSize = 256

// chunk - пакет текстов и позиция его начала во входном срезе.
type chunk struct {
	start int
	texts []string
}

// chunkResult - результаты разбора пакета.
type chunkResult struct {
	start  int
	tokens [][]Token
}

// TokenizeList разбирает срез текстов в конкурентном режиме, используя пул
// воркеров. Результат i соответствует texts[i].
func (t *Tokenizer) TokenizeList(texts []string) [][]Token {
	out := make([][]Token, len(texts))
	if len(texts) == 0 {
		return out
	}
	numWorkers := min(t.workers, (len(texts)+chunkSize-1)/chunkSize)

	// Канал для отправки пакетов в воркеры.
	chunksCh := make(chan chunk, numWorkers)
	// Канал для сбора результатов от воркеров.
	resultCh := make(chan chunkResult, numWorkers)

	var wg sync.WaitGroup

	// Запускаем воркеры
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for c := range chunksCh {
				tokens := make([][]Token, len(c.texts))
				for j, text := range c.texts {
					tokens[j] = t.Tokenize(text)
				}
				resultCh <- chunkResult{start: c.start, tokens: tokens}
			}
		}()
	}

	// Диспетчер нарезает texts на пакеты.
	go func() {
		for i := 0; i < len(texts); i += chunkSize {
			end := min(i+chunkSize, len(texts))
			chunksCh <- chunk{start: i, texts: texts[i:end]}
		}
		close(chunksCh)
	}()

	// Сборщик дождется всех воркеров и закроет канал результатов.
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Каждый пакет знает свою позицию, поэтому порядок входа сохраняется без сортировки.
	for r := range resultCh {
		copy(out[r.start:], r.tokens)
	}
	return out
}

// ParseList разбирает срез текстов и возвращает структурированные результаты.
func (t *Tokenizer) ParseList(texts []string) [][]*Parsed {
	lists := t.TokenizeList(texts)
	out := make([][]*Parsed, len(lists))
	for i, tokens := range lists {
		parsed := make([]*Parsed, len(tokens))
		for j, tok := range tokens {
			parsed[j] = tok.Parsed()
		}
		out[i] = parsed
	}
	return out
}
