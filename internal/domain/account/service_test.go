package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Arzion032/binhi-fms-backend/internal/auth"
)

type fakeAccountRepo struct {
	users    map[string]*User
	profiles map[string]*Profile
	verified map[string]bool
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		users:    map[string]*User{},
		profiles: map[string]*Profile{},
		verified: map[string]bool{},
	}
}

func (f *fakeAccountRepo) ListUsers(ctx context.Context, filter ListFilter) ([]User, error) {
	var out []User
	for _, u := range f.users {
		switch filter.State {
		case "approved":
			if !u.IsApproved {
				continue
			}
		case "pending":
			if u.IsApproved || u.IsRejected {
				continue
			}
		case "rejected":
			if !u.IsRejected {
				continue
			}
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeAccountRepo) GetUserByID(ctx context.Context, userID string) (*User, error) {
	if u, ok := f.users[userID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeAccountRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeAccountRepo) CountUsersByUsername(ctx context.Context, username, excludeID string) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Username == username && u.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccountRepo) CountUsersByEmail(ctx context.Context, email, excludeID string) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccountRepo) CreateUser(ctx context.Context, user *User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeAccountRepo) UpdateUser(ctx context.Context, user *User) error {
	if _, ok := f.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeAccountRepo) DeleteUser(ctx context.Context, userID string) (bool, error) {
	if _, ok := f.users[userID]; !ok {
		return false, nil
	}
	delete(f.users, userID)
	return true, nil
}

func (f *fakeAccountRepo) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, ErrProfileNotFound
}

func (f *fakeAccountRepo) CreateProfile(ctx context.Context, profile *Profile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeAccountRepo) UpdateProfile(ctx context.Context, profile *Profile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return ErrProfileNotFound
	}
	copied := *profile
	f.profiles[profile.UserID] = &copied
	return nil
}

func (f *fakeAccountRepo) IsEmailVerified(ctx context.Context, email string) (bool, error) {
	return f.verified[email], nil
}

func (f *fakeAccountRepo) MarkEmailVerified(ctx context.Context, email string) error {
	f.verified[email] = true
	return nil
}

type memVerificationStore struct {
	codes map[string]string
}

func newMemVerificationStore() *memVerificationStore {
	return &memVerificationStore{codes: map[string]string{}}
}

func (m *memVerificationStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	m.codes[email] = code
	return nil
}

func (m *memVerificationStore) Get(ctx context.Context, email string) (string, bool, error) {
	code, ok := m.codes[email]
	return code, ok, nil
}

func (m *memVerificationStore) Delete(ctx context.Context, email string) error {
	delete(m.codes, email)
	return nil
}

type recordingMailer struct {
	to      []string
	subject []string
	body    []string
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return nil
}

func newTestAccountService() (*Service, *fakeAccountRepo, *memVerificationStore, *recordingMailer) {
	repo := newFakeAccountRepo()
	store := newMemVerificationStore()
	mailer := &recordingMailer{}
	return NewService(repo, store, mailer), repo, store, mailer
}

func validCreateInput() CreateUserInput {
	return CreateUserInput{
		Username:  "juandc",
		Email:     "juan@example.com",
		Password:  "s3cret-pass",
		ContactNo: "09171234567",
		Role:      RoleMember,
	}
}

func TestCreateMemberAutoApproved(t *testing.T) {
	svc, _, _, _ := newTestAccountService()

	user, err := svc.CreateMember(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	if !user.IsApproved || !user.IsActive || user.IsRejected {
		t.Errorf("admin-created member should be approved and active: %+v", user)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password must be hashed")
	}
	if err := auth.ComparePassword(user.PasswordHash, "s3cret-pass"); err != nil {
		t.Errorf("hash does not match password: %v", err)
	}
}

func TestCreateMemberValidation(t *testing.T) {
	svc, _, _, _ := newTestAccountService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateUserInput)
		want   error
	}{
		{"bad role", func(in *CreateUserInput) { in.Role = "overlord" }, ErrInvalidRole},
		{"short password", func(in *CreateUserInput) { in.Password = "short" }, nil},
		{"bad email", func(in *CreateUserInput) { in.Email = "not-an-email" }, nil},
		{"empty username", func(in *CreateUserInput) { in.Username = "  " }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			_, err := svc.CreateMember(ctx, input)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateMemberUniqueness(t *testing.T) {
	svc, _, _, _ := newTestAccountService()
	ctx := context.Background()

	if _, err := svc.CreateMember(ctx, validCreateInput()); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	dup := validCreateInput()
	dup.Email = "other@example.com"
	if _, err := svc.CreateMember(ctx, dup); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	dup = validCreateInput()
	dup.Username = "other"
	if _, err := svc.CreateMember(ctx, dup); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignupRequiresVerifiedEmail(t *testing.T) {
	svc, repo, _, _ := newTestAccountService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, validCreateInput()); !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}

	repo.verified["juan@example.com"] = true
	user, err := svc.Signup(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.IsApproved || user.IsActive {
		t.Errorf("self-service signup must start pending: %+v", user)
	}
}

func TestAuthenticateUniformError(t *testing.T) {
	svc, _, _, _ := newTestAccountService()
	ctx := context.Background()

	if _, err := svc.CreateMember(ctx, validCreateInput()); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "juan@example.com", "wrong-pass"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@example.com", "whatever"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown email must look identical: got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "JUAN@example.com ", "s3cret-pass"); err != nil {
		t.Errorf("email should be normalized: %v", err)
	}
}

func TestApproveAndRejectMember(t *testing.T) {
	svc, repo, _, _ := newTestAccountService()
	ctx := context.Background()

	repo.verified["juan@example.com"] = true
	user, err := svc.Signup(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	approved, err := svc.ApproveMember(ctx, user.ID)
	if err != nil {
		t.Fatalf("ApproveMember: %v", err)
	}
	if !approved.IsApproved || !approved.IsActive || approved.IsRejected {
		t.Errorf("approve flags wrong: %+v", approved)
	}

	rejected, err := svc.RejectMember(ctx, user.ID)
	if err != nil {
		t.Fatalf("RejectMember: %v", err)
	}
	if rejected.IsApproved || rejected.IsActive || !rejected.IsRejected {
		t.Errorf("reject flags wrong: %+v", rejected)
	}
}

func TestUpdateMemberPartial(t *testing.T) {
	svc, _, _, _ := newTestAccountService()
	ctx := context.Background()

	user, err := svc.CreateMember(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	got, err := svc.UpdateMember(ctx, UpdateUserInput{
		UserID:    user.ID,
		ContactNo: OptionalString{Set: true, Value: "09998887777"},
	})
	if err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	if got.ContactNo != "09998887777" {
		t.Errorf("contact not patched: %q", got.ContactNo)
	}
	if got.Username != "juandc" || got.Email != "juan@example.com" {
		t.Errorf("untouched fields changed: %+v", got)
	}

	if _, err := svc.UpdateMember(ctx, UpdateUserInput{
		UserID: user.ID,
		Role:   OptionalString{Set: true, Value: "overlord"},
	}); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestEmailVerificationFlow(t *testing.T) {
	svc, repo, store, mailer := newTestAccountService()
	ctx := context.Background()
	email := "juan@example.com"

	if err := svc.RequestVerification(ctx, email); err != nil {
		t.Fatalf("RequestVerification: %v", err)
	}
	if len(mailer.to) != 1 || mailer.to[0] != email {
		t.Fatalf("mailer calls = %v", mailer.to)
	}
	code := store.codes[email]
	if code == "" {
		t.Fatal("no code stored")
	}

	if err := svc.VerifyEmail(ctx, email, "wrong-code"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("wrong code: got %v", err)
	}
	if err := svc.VerifyEmail(ctx, email, code); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if !repo.verified[email] {
		t.Error("email not marked verified")
	}
	if _, ok := store.codes[email]; ok {
		t.Error("consumed code must be deleted")
	}

	// a second request for an already verified email is refused
	if err := svc.RequestVerification(ctx, email); !errors.Is(err, ErrEmailVerified) {
		t.Errorf("expected ErrEmailVerified, got %v", err)
	}
}

func TestProfileLifecycle(t *testing.T) {
	svc, _, _, _ := newTestAccountService()
	ctx := context.Background()

	user, err := svc.CreateMember(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	if _, err := svc.CreateProfile(ctx, UpsertProfileInput{UserID: user.ID, FullName: "Juan Dela Cruz"}); err == nil {
		t.Error("profile without address must be rejected")
	}

	profile, err := svc.CreateProfile(ctx, UpsertProfileInput{
		UserID:   user.ID,
		FullName: "Juan Dela Cruz",
		Address:  "Purok 2, Bgy. Bulihan",
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	if _, err := svc.CreateProfile(ctx, UpsertProfileInput{
		UserID: user.ID, FullName: "Juan", Address: "elsewhere",
	}); !errors.Is(err, ErrProfileExists) {
		t.Errorf("expected ErrProfileExists, got %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, UpsertProfileInput{UserID: user.ID, Address: "New Address"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Address != "New Address" || updated.FullName != profile.FullName {
		t.Errorf("patch wrong: %+v", updated)
	}

	combined, err := svc.GetUserWithProfile(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserWithProfile: %v", err)
	}
	if combined.Profile == nil || combined.Profile.Address != "New Address" {
		t.Errorf("combined view wrong: %+v", combined.Profile)
	}
}

func TestListMembersByState(t *testing.T) {
	svc, repo, _, _ := newTestAccountService()
	ctx := context.Background()

	if _, err := svc.CreateMember(ctx, validCreateInput()); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	repo.verified["pending@example.com"] = true
	pendingInput := validCreateInput()
	pendingInput.Username = "pending"
	pendingInput.Email = "pending@example.com"
	if _, err := svc.Signup(ctx, pendingInput); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	approved, err := svc.ListMembers(ctx, "approved")
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	pending, err := svc.ListMembers(ctx, "pending")
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(approved) != 1 || len(pending) != 1 {
		t.Errorf("approved=%d pending=%d, want 1/1", len(approved), len(pending))
	}
}
