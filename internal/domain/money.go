package domain

import "strings"

// FormatRupiah приводит сумму к виду "Rp 5.000.000.000" (локаль id-ID).
// На вход принимает строку, из которой берутся только цифры; если цифр нет,
// возвращает исходную строку как есть — форматирование здесь best-effort.
func FormatRupiah(amount string) string {
	digits := make([]byte, 0, len(amount))
	for i := 0; i < len(amount); i++ {
		if amount[i] >= '0' && amount[i] <= '9' {
			digits = append(digits, amount[i])
		}
	}
	if len(digits) == 0 {
		if amount == "" {
			return "Rp 0"
		}
		return amount
	}

	// Убираем ведущие нули, но оставляем хотя бы один разряд
	trimmed := strings.TrimLeft(string(digits), "0")
	if trimmed == "" {
		trimmed = "0"
	}

	var b strings.Builder
	b.WriteString("Rp ")
	for i, c := range trimmed {
		if i > 0 && (len(trimmed)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return b.String()
}
