package compile

// FeatureInfoMap назначает строковым признакам плотные ID в порядке первого
// появления: первый новый признак получает 0, следующий 1 и так далее.
// Повторная встреча признака возвращает уже выданный ID.
type FeatureInfoMap struct {
	ids    map[string]int
	values []string
}

// NewFeatureInfoMap создает пустую карту.
func NewFeatureInfoMap() *FeatureInfoMap {
	return &FeatureInfoMap{ids: make(map[string]int)}
}

// MapFeatures возвращает ID признаков, назначая новые при необходимости.
func (m *FeatureInfoMap) MapFeatures(features []string) []int {
	ids := make([]int, len(features))
	for i, f := range features {
		id, ok := m.ids[f]
		if !ok {
			id = len(m.values)
			m.ids[f] = id
			m.values = append(m.values, f)
		}
		ids[i] = id
	}
	return ids
}

// Invert возвращает обратное отображение: индекс среза - ID признака.
func (m *FeatureInfoMap) Invert() []string {
	return append([]string(nil), m.values...)
}

// EntryCount - количество различных признаков.
func (m *FeatureInfoMap) EntryCount() int { return len(m.values) }
