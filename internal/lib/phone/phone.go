// Package phone нормализует телефонные номера перед отправкой в WhatsApp.
//
// Нормализация — эвристика, а не валидация: для коротких номеров без
// однозначного префикса результат может быть неверным. Гарантируется
// только соответствие описанным правилам.
package phone

import "strings"

// Normalize приводит номер к цифровому виду с кодом страны.
//
// Правила применяются по порядку:
//  1. из номера удаляются все символы, кроме цифр;
//  2. если номер уже начинается с одного из известных кодов стран,
//     он возвращается как есть;
//  3. номер из ровно 8 цифр дополняется кодом страны по умолчанию;
//  4. номер длиннее 10 цифр считается уже содержащим код страны;
//  5. иначе код страны по умолчанию добавляется в начало.
func Normalize(raw, defaultCountryCode string, knownPrefixes []string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	for _, prefix := range knownPrefixes {
		if prefix != "" && strings.HasPrefix(digits, prefix) {
			return digits
		}
	}
	if len(digits) == 8 {
		return defaultCountryCode + digits
	}
	if len(digits) > 10 {
		return digits
	}
	return defaultCountryCode + digits
}
