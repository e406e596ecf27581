package valueobject

import "github.com/ignatzorin/fme-backend/internal/pkg/apperror"

type UserRole string

const (
	UserRoleAdmin       UserRole = "ADMIN"
	UserRoleSchoolAdmin UserRole = "SCHOOL_ADMIN"
	UserRoleLearner     UserRole = "LEARNER"
	UserRoleMentor      UserRole = "MENTOR"
	UserRoleFacilitator UserRole = "FACILITATOR"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleSchoolAdmin, UserRoleLearner, UserRoleMentor, UserRoleFacilitator:
		return true
	}
	return false
}

// CanUseDashboard сообщает, есть ли у роли доступ к административной панели.
func (r UserRole) CanUseDashboard() bool {
	return r == UserRoleAdmin || r == UserRoleSchoolAdmin
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

type AccountType string

const (
	AccountTypeStudent      AccountType = "STUDENT"
	AccountTypeProfessional AccountType = "PROFESSIONAL"
)

func NewAccountType(v string) (AccountType, error) {
	switch t := AccountType(v); t {
	case AccountTypeStudent, AccountTypeProfessional:
		return t, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, "account_type must be STUDENT or PROFESSIONAL")
}

type WorkType string

const (
	WorkTypeAll    WorkType = "ALL"
	WorkTypeOnsite WorkType = "ONSITE"
	WorkTypeRemote WorkType = "REMOTE"
)

func NewWorkType(v string) (WorkType, error) {
	switch t := WorkType(v); t {
	case WorkTypeAll, WorkTypeOnsite, WorkTypeRemote:
		return t, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, "work_type must be ALL, ONSITE or REMOTE")
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func NewGender(v string) (Gender, error) {
	switch g := Gender(v); g {
	case GenderMale, GenderFemale:
		return g, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, "gender must be MALE or FEMALE")
}

var nigerianStates = map[string]struct{}{
	"Abia": {}, "Adamawa": {}, "Akwa Ibom": {}, "Anambra": {}, "Bauchi": {}, "Bayelsa": {},
	"Benue": {}, "Borno": {}, "Cross River": {}, "Delta": {}, "Ebonyi": {}, "Edo": {},
	"Ekiti": {}, "Enugu": {}, "FCT": {}, "Gombe": {}, "Imo": {}, "Jigawa": {},
	"Kaduna": {}, "Kano": {}, "Katsina": {}, "Kebbi": {}, "Kogi": {}, "Kwara": {},
	"Lagos": {}, "Nasarawa": {}, "Niger": {}, "Ogun": {}, "Ondo": {}, "Osun": {},
	"Oyo": {}, "Plateau": {}, "Rivers": {}, "Sokoto": {}, "Taraba": {}, "Yobe": {},
	"Zamfara": {},
}

// ValidateState проверяет, что штат входит в список штатов Нигерии.
func ValidateState(state string) error {
	if _, ok := nigerianStates[state]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "state must be a Nigerian state")
	}
	return nil
}
