package valueobject

// VerificationState — производное состояние процесса верификации NIN.
type VerificationState string

const (
	VerificationStateAbsent   VerificationState = "ABSENT"
	VerificationStatePending  VerificationState = "PENDING"
	VerificationStateVerified VerificationState = "VERIFIED"
	VerificationStateLinked   VerificationState = "LINKED"
)

func (s VerificationState) IsValid() bool {
	switch s {
	case VerificationStateAbsent, VerificationStatePending, VerificationStateVerified, VerificationStateLinked:
		return true
	}
	return false
}

// CanTransitionTo разрешает только движение вперёд по цепочке состояний.
func (s VerificationState) CanTransitionTo(next VerificationState) bool {
	transitions := map[VerificationState][]VerificationState{
		VerificationStateAbsent:   {VerificationStatePending},
		VerificationStatePending:  {VerificationStateVerified},
		VerificationStateVerified: {VerificationStateLinked},
		VerificationStateLinked:   {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == next {
			return true
		}
	}
	return false
}
