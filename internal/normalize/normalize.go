package normalize

/*
Пакет normalize — единственная точка толерантности к схеме ответов агентов.

Агенты возвращают слабо типизированные payload'ы: одно и то же поле может
прийти строкой, JSON-массивом, JSON-массивом сериализованным в строку или
строкой с запятыми. Здесь всё это приводится к единому виду (строка или
упорядоченный список строк), чтобы остальной код работал только с
предсказуемыми структурами. Ошибок пакет не возвращает принципиально:
декодирование best-effort, деградация всегда тихая.
*/

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Result — сырой payload агента, как он пришел из шлюза.
type Result map[string]any

// Strings приводит значение поля к упорядоченному списку строк.
// Порядок попыток: разбор как JSON (массив — поэлементно, любое другое
// валидное значение — целиком), затем split по запятой, затем одноэлементный
// список. Пустое или отсутствующее значение — пустой список.
// Операция идемпотентна: повторная нормализация уже нормализованного
// значения дает тот же список.
func Strings(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []any:
		return stringifyAll(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return []string{}
		}
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			// Валидный JSON, но не массив (объект, число, строка) —
			// это одно значение целиком, запятые внутри не разделители
			if arr, ok := parsed.([]any); ok {
				return stringifyAll(arr)
			}
			return []string{s}
		}
		if strings.Contains(s, ",") {
			parts := strings.Split(s, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				out = append(out, strings.TrimSpace(p))
			}
			return out
		}
		return []string{s}
	default:
		return []string{Stringify(val)}
	}
}

// Stringify превращает произвольное значение поля в строку для показа и аудита.
// Числа печатаются без хвостовых нулей, вложенные объекты — компактным JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON-числа всегда прилетают как float64
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// Text возвращает первое непустое поле из упорядоченного списка кандидатов.
// Если ни одно не заполнено — пустая строка.
func Text(r Result, keys ...string) string {
	if r == nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := r[key]; ok {
			if s := strings.TrimSpace(Stringify(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// Decision работает как Text, но пустой результат заменяет литералом "N/A".
// Именно это значение уходит в аудит, когда агент не вернул поле решения —
// отсутствие решения не является ошибкой.
func Decision(r Result, keys ...string) string {
	if s := Text(r, keys...); s != "" {
		return s
	}
	return "N/A"
}

// Number достает числовое значение поля best-effort. Нечисловое значение — 0.
func Number(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, _ := val.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringifyAll(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, Stringify(item))
	}
	return out
}
