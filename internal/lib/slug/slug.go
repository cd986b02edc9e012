// Package slug преобразует произвольный пользовательский текст в идентификатор сервиса.
package slug

import "strings"

// Make приводит текст к нижнему регистру, заменяет все последовательности
// символов кроме латинских букв и цифр на дефис и обрезает дефисы по краям.
// Пустой ввод даёт пустой slug.
func Make(input string) string {
	var b strings.Builder
	lastDash := true // подавляет ведущий дефис
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ServiceID синтезирует идентификатор для сервиса, отсутствующего в каталоге.
func ServiceID(name string) string {
	s := Make(name)
	if s == "" {
		return "custom"
	}
	return "custom-" + s
}
