package learner_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/domain/repository"
	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fme-backend/internal/service"
	"github.com/ignatzorin/fme-backend/internal/storage"
	"github.com/ignatzorin/fme-backend/internal/usecase/learner"
	"github.com/ignatzorin/fme-backend/internal/usecase/verification"
)

// mockVerificationRepository хранит записи в памяти.
type mockVerificationRepository struct {
	records map[uuid.UUID]*entity.NinVerification
}

func (m *mockVerificationRepository) Create(ctx context.Context, v *entity.NinVerification) error {
	m.records[v.ID] = v
	return nil
}

func (m *mockVerificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.NinVerification, error) {
	if v, ok := m.records[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, apperror.ErrVerificationNotFound
}

func (m *mockVerificationRepository) FindByNIN(ctx context.Context, nin valueobject.NIN) (*entity.NinVerification, error) {
	for _, v := range m.records {
		if v.NIN == nin {
			return m.FindByID(ctx, v.ID)
		}
	}
	return nil, apperror.ErrVerificationNotFound
}

func (m *mockVerificationRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	m.records[id].IsVerified = true
	return nil
}

func (m *mockVerificationRepository) LinkAccount(ctx context.Context, id, userID uuid.UUID) error {
	v, ok := m.records[id]
	if !ok {
		return apperror.ErrVerificationNotFound
	}
	return v.LinkAccount(userID)
}

// txVerificationRepository откладывает привязку до коммита.
type txVerificationRepository struct {
	*mockVerificationRepository
	pendingLinks map[uuid.UUID]uuid.UUID
}

func (t *txVerificationRepository) LinkAccount(ctx context.Context, id, userID uuid.UUID) error {
	v, err := t.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := v.LinkAccount(userID); err != nil {
		return err
	}
	t.pendingLinks[id] = userID
	return nil
}

type mockLearnerRepository struct {
	users       map[uuid.UUID]*entity.User
	profiles    map[uuid.UUID]*entity.LearnerProfile
	sessions    map[uuid.UUID]*entity.Session
	takenEmails map[string]bool
}

func newMockLearnerRepository() *mockLearnerRepository {
	return &mockLearnerRepository{
		users:       make(map[uuid.UUID]*entity.User),
		profiles:    make(map[uuid.UUID]*entity.LearnerProfile),
		sessions:    make(map[uuid.UUID]*entity.Session),
		takenEmails: make(map[string]bool),
	}
}

func (m *mockLearnerRepository) CreateUser(ctx context.Context, user *entity.User) error {
	if m.takenEmails[user.Email] {
		return apperror.New(apperror.ErrCodeConflict, "email already registered")
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockLearnerRepository) CreateProfile(ctx context.Context, p *entity.LearnerProfile) error {
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockLearnerRepository) CreateSession(ctx context.Context, s *entity.Session) error {
	m.sessions[s.ID] = s
	return nil
}

type fakeTx struct {
	verifications *txVerificationRepository
	learners      *mockLearnerRepository
}

func (t *fakeTx) Verifications() repository.VerificationRepository { return t.verifications }
func (t *fakeTx) Learners() repository.LearnerRepository           { return t.learners }

// fakeUnitOfWork применяет изменения только при успешном fn.
type fakeUnitOfWork struct {
	verifications *mockVerificationRepository
	learners      *mockLearnerRepository
	commitErr       error
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(tx repository.OnboardingTx) error) error {
	tx := &fakeTx{
		verifications: &txVerificationRepository{mockVerificationRepository: u.verifications, pendingLinks: map[uuid.UUID]uuid.UUID{}},
		learners:      newMockLearnerRepository(),
	}
	tx.learners.takenEmails = u.learners.takenEmails

	if err := fn(tx); err != nil {
		return err
	}
	if u.commitErr != nil {
		return u.commitErr
	}

	for id, user := range tx.learners.users {
		u.learners.users[id] = user
	}
	for id, p := range tx.learners.profiles {
		u.learners.profiles[id] = p
	}
	for id, s := range tx.learners.sessions {
		u.learners.sessions[id] = s
	}
	for id, userID := range tx.verifications.pendingLinks {
		userID := userID
		u.verifications.records[id].UserID = &userID
	}
	return nil
}

type memoryFileStore struct {
	files   map[string]string
	deleted []string
	saveErr error
}

func (s *memoryFileStore) Save(ctx context.Context, folder, name string, r io.Reader) (string, int64, error) {
	if s.saveErr != nil {
		return "", 0, s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	rel := folder + "/" + name
	s.files[rel] = string(data)
	return rel, int64(len(data)), nil
}

func (s *memoryFileStore) URL(rel string) string {
	return "https://cdn.example.com/media/" + rel
}

func (s *memoryFileStore) Delete(ctx context.Context, rel string) error {
	delete(s.files, rel)
	s.deleted = append(s.deleted, rel)
	return nil
}

type recordedEvents struct {
	names []string
}

func (r *recordedEvents) Publish(event string, data any) {
	r.names = append(r.names, event)
}

type fixture struct {
	verifications *mockVerificationRepository
	learners      *mockLearnerRepository
	uow           *fakeUnitOfWork
	files         *memoryFileStore
	events        *recordedEvents
	uc            *learner.CreateLearnerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		verifications: &mockVerificationRepository{records: make(map[uuid.UUID]*entity.NinVerification)},
		learners:      newMockLearnerRepository(),
		files:         &memoryFileStore{files: make(map[string]string)},
		events:        &recordedEvents{},
	}
	f.uow = &fakeUnitOfWork{verifications: f.verifications, learners: f.learners}
	link := verification.NewLinkAccountUseCase(f.verifications)
	tokens := service.NewTokenManager("access", "refresh", time.Minute, time.Hour)
	f.uc = learner.NewCreateLearnerUseCase(f.uow, link, f.files, tokens)
	f.uc.SetEvents(f.events)
	return f
}

func (f *fixture) addRecord(t *testing.T, verified bool) *entity.NinVerification {
	t.Helper()
	record, err := entity.NewNinVerification("12345678901", entity.IdentityDetail{"first_name": "Ada"}, "2348031234567", "12345")
	require.NoError(t, err)
	if verified {
		record.MarkVerified()
	}
	require.NoError(t, f.verifications.Create(context.Background(), record))
	return record
}

func validInput(id uuid.UUID) learner.CreateLearnerInput {
	return learner.CreateLearnerInput{
		VerificationID:       id,
		FirstName:            "Ada",
		LastName:             "Obi",
		Email:                "Ada.Obi@Example.com",
		PhoneNumber:          "08031234567",
		AccountType:          "student",
		LearningTrack:        "Software Engineering",
		SkillCluster:         "Backend",
		WorkType:             "REMOTE",
		IndustrialPreference: "Fintech",
		PortfolioLink:        "https://github.com/adaobi",
		State:                "Lagos",
		Gender:               "FEMALE",
		UserAgent:            "test-agent",
		IPAddress:            "127.0.0.1",
	}
}

func TestCreateLearner_Success(t *testing.T) {
	f := newFixture(t)
	record := f.addRecord(t, true)

	in := validInput(record.ID)
	in.Resume = &learner.Resume{Name: "cv.pdf", Content: strings.NewReader("%PDF-1.4")}

	res, err := f.uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "ada.obi@example.com", res.User.Email)
	assert.Equal(t, valueobject.UserRoleLearner, res.User.Role)
	assert.Equal(t, valueobject.UserStatusActive, res.User.Status)
	assert.Equal(t, valueobject.AccountTypeStudent, res.Profile.AccountType)
	require.NotNil(t, res.Profile.ResumeURL)
	assert.Equal(t, "https://cdn.example.com/media/resume/cv.pdf", *res.Profile.ResumeURL)
	assert.NotEmpty(t, res.Tokens.AccessToken)

	stored := f.verifications.records[record.ID]
	require.NotNil(t, stored.UserID)
	assert.Equal(t, res.User.ID, *stored.UserID)
	assert.Len(t, f.learners.users, 1)
	assert.Len(t, f.learners.sessions, 1)
	assert.Equal(t, []string{learner.EventLearnerCreated}, f.events.names)
}

func TestCreateLearner_RequiresVerifiedRecord(t *testing.T) {
	f := newFixture(t)
	record := f.addRecord(t, false)

	_, err := f.uc.Execute(context.Background(), validInput(record.ID))

	assert.Equal(t, apperror.ErrCodeBadRequest, apperror.CodeOf(err))
	assert.Empty(t, f.learners.users)
	assert.Nil(t, f.verifications.records[record.ID].UserID)
}

func TestCreateLearner_UnknownRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), validInput(uuid.New()))

	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateLearner_SecondAttemptIsDuplicate(t *testing.T) {
	f := newFixture(t)
	record := f.addRecord(t, true)

	_, err := f.uc.Execute(context.Background(), validInput(record.ID))
	require.NoError(t, err)

	in := validInput(record.ID)
	in.Email = "other@example.com"
	_, err = f.uc.Execute(context.Background(), in)

	assert.Equal(t, apperror.ErrCodeDuplicateAccount, apperror.CodeOf(err))
	assert.Len(t, f.learners.users, 1)
}

func TestCreateLearner_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	record := f.addRecord(t, true)

	cases := map[string]func(in *learner.CreateLearnerInput){
		"email":        func(in *learner.CreateLearnerInput) { in.Email = "not-an-email" },
		"phone":        func(in *learner.CreateLearnerInput) { in.PhoneNumber = "123" },
		"account type": func(in *learner.CreateLearnerInput) { in.AccountType = "RETIRED" },
		"work type":    func(in *learner.CreateLearnerInput) { in.WorkType = "HYBRID" },
		"gender":       func(in *learner.CreateLearnerInput) { in.Gender = "X" },
		"state":        func(in *learner.CreateLearnerInput) { in.State = "London" },
		"portfolio":    func(in *learner.CreateLearnerInput) { in.PortfolioLink = "ftp://x" },
		"first name":   func(in *learner.CreateLearnerInput) { in.FirstName = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput(record.ID)
			mutate(&in)
			_, err := f.uc.Execute(context.Background(), in)
			assert.True(t, apperror.IsValidation(err), "ожидалась ошибка валидации, получили %v", err)
		})
	}
	assert.Nil(t, f.verifications.records[record.ID].UserID)
}

func TestCreateLearner_RollbackKeepsRecordUnlinked(t *testing.T) {
	f := newFixture(t)
	record := f.addRecord(t, true)
	f.learners.takenEmails["ada.obi@example.com"] = true

	in := validInput(record.ID)
	in.Resume = &learner.Resume{Name: "cv.pdf", Content: strings.NewReader("%PDF-1.4")}
	_, err := f.uc.Execute(context.Background(), in)

	assert.True(t, apperror.IsConflict(err))
	assert.Nil(t, f.verifications.records[record.ID].UserID)
	assert.Empty(t, f.learners.users)
	assert.Equal(t, []string{"resume/cv.pdf"}, f.files.deleted)
	assert.Empty(t, f.events.names)
}

func TestCreateLearner_CommitFailure(t *testing.T) {
	f := newFixture(t)
	record := f.addRecord(t, true)
	f.uow.commitErr = errors.New("commit failed")

	_, err := f.uc.Execute(context.Background(), validInput(record.ID))

	assert.Error(t, err)
	assert.Nil(t, f.verifications.records[record.ID].UserID)
	assert.Empty(t, f.learners.users)
}

func TestCreateLearner_ResumeStoreFailure(t *testing.T) {
	f := newFixture(t)
	record := f.addRecord(t, true)
	f.files.saveErr = errors.New("disk full")

	in := validInput(record.ID)
	in.Resume = &learner.Resume{Name: "cv.pdf", Content: strings.NewReader("%PDF")}
	_, err := f.uc.Execute(context.Background(), in)

	assert.Error(t, err)
	assert.Empty(t, f.learners.users)
}

func TestCreateLearner_ResumeTooLarge(t *testing.T) {
	f := newFixture(t)
	record := f.addRecord(t, true)
	f.files.saveErr = storage.ErrTooLarge

	in := validInput(record.ID)
	in.Resume = &learner.Resume{Name: "cv.pdf", Content: strings.NewReader("%PDF")}
	_, err := f.uc.Execute(context.Background(), in)

	assert.True(t, apperror.IsValidation(err))
}
