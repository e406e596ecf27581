package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinPersonNameLength   = 2
	MaxPersonNameLength   = 100
	MaxTrackLength        = 100
	MaxPreferenceLength   = 255
	MaxExternalLinkLength = 500
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	personNameRegex  = regexp.MustCompile(`^[\p{L}\s\-'.]+$`)
	// Допускает международный префикс и 10–11 цифр номера.
	phoneRegex = regexp.MustCompile(`^([+0-9]{1,3})*([0-9]{10,11})$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("email is invalid")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("email is invalid")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("email is invalid")
	}

	if !emailLocalRegex.MatchString(localPart) || !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("email is invalid")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidatePersonName проверяет имя или фамилию.
func ValidatePersonName(fieldName, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if err := ValidateLength(fieldName, name, MinPersonNameLength, MaxPersonNameLength); err != nil {
		return err
	}
	if !personNameRegex.MatchString(name) {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidatePhoneNumber проверяет номер телефона.
func ValidatePhoneNumber(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("phone_number is required")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone_number is invalid")
	}
	return nil
}

// ValidateExternalLink проверяет внешнюю ссылку.
func ValidateExternalLink(fieldName, link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}

	if err := ValidateLength(fieldName, link, 0, MaxExternalLinkLength); err != nil {
		return err
	}

	parsedURL, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("%s must be a valid URL", fieldName)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s must start with http:// or https://", fieldName)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s must contain a host", fieldName)
	}
	return nil
}
