package valueobject

import "strings"

const (
	nigeriaCountryCode  = "234"
	domesticPhoneLength = 11
)

// PhoneNormalizer приводит номер из KYC-ответа к виду, пригодному для SMS.
type PhoneNormalizer interface {
	Normalize(phone string) string
}

// PhoneNormalizerFunc позволяет использовать функцию как PhoneNormalizer.
type PhoneNormalizerFunc func(string) string

func (f PhoneNormalizerFunc) Normalize(phone string) string {
	return f(phone)
}

// NigerianPhoneNormalizer заменяет ведущий 0 на 234 только у 11-значных номеров.
// Остальные номера, в том числе уже канонические, возвращаются без изменений.
var NigerianPhoneNormalizer PhoneNormalizer = PhoneNormalizerFunc(CanonicalizeNigerianPhone)

func CanonicalizeNigerianPhone(phone string) string {
	if len(phone) != domesticPhoneLength || !strings.HasPrefix(phone, "0") {
		return phone
	}
	return nigeriaCountryCode + phone[1:]
}
