package dto

// MessageKind — закрытый перечень успешных ответов API.
type MessageKind int

const (
	MessageVerificationStarted MessageKind = iota
	MessageVerificationCompleted
	MessageTokenResent
	MessageLearnerCreated
)

var messages = map[MessageKind]func() string{
	MessageVerificationStarted: func() string {
		return "NIN verification process successfully started and OTP sent"
	},
	MessageVerificationCompleted: func() string {
		return "Nin verification successfully completed"
	},
	MessageTokenResent: func() string {
		return "NIN verification token successfully resent"
	},
	MessageLearnerCreated: func() string {
		return "Learner profile successfully created"
	},
}

// Message возвращает текст ответа для kind. Для неизвестного kind вернёт пустую строку.
func Message(kind MessageKind) string {
	if build, ok := messages[kind]; ok {
		return build()
	}
	return ""
}
