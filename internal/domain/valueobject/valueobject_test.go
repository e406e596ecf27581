package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
)

func TestCanonicalizeNigerianPhone(t *testing.T) {
	cases := map[string]string{
		"08031234567":   "2348031234567",
		"2348031234567": "2348031234567",
		"8031234567":    "8031234567",
		"18031234567":   "18031234567",
		"":              "",
	}

	for in, want := range cases {
		assert.Equal(t, want, NigerianPhoneNormalizer.Normalize(in), in)
	}
}

func TestNewNIN(t *testing.T) {
	nin, err := NewNIN("12345678901")
	require.NoError(t, err)
	assert.Equal(t, "*******8901", nin.Masked())

	for _, bad := range []string{"", "1234567890", "123456789012", "1234567890a", " 2345678901"} {
		_, err := NewNIN(bad)
		assert.True(t, apperror.IsValidation(err), bad)
	}
}

func TestValidateToken(t *testing.T) {
	assert.NoError(t, ValidateToken("00042"))
	assert.Error(t, ValidateToken("4242"))
	assert.Error(t, ValidateToken("424242"))
	assert.Error(t, ValidateToken("42a42"))
}

func TestVerificationState_OnlyForward(t *testing.T) {
	assert.True(t, VerificationStateAbsent.CanTransitionTo(VerificationStatePending))
	assert.True(t, VerificationStatePending.CanTransitionTo(VerificationStateVerified))
	assert.True(t, VerificationStateVerified.CanTransitionTo(VerificationStateLinked))

	assert.False(t, VerificationStateVerified.CanTransitionTo(VerificationStatePending))
	assert.False(t, VerificationStatePending.CanTransitionTo(VerificationStateLinked))
	assert.False(t, VerificationStateLinked.CanTransitionTo(VerificationStateVerified))
}

func TestLearnerEnums(t *testing.T) {
	_, err := NewAccountType("STUDENT")
	assert.NoError(t, err)
	_, err = NewAccountType("student")
	assert.Error(t, err)

	_, err = NewWorkType("REMOTE")
	assert.NoError(t, err)
	_, err = NewGender("OTHER")
	assert.Error(t, err)

	assert.NoError(t, ValidateState("Lagos"))
	assert.Error(t, ValidateState("Texas"))
	assert.True(t, UserRoleSchoolAdmin.CanUseDashboard())
	assert.False(t, UserRoleLearner.CanUseDashboard())
}
