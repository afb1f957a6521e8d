package association

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeAssociationRepo struct {
	associations map[string]*Association
	farmers      map[string]*Farmer
}

func newFakeAssociationRepo() *fakeAssociationRepo {
	return &fakeAssociationRepo{
		associations: map[string]*Association{},
		farmers:      map[string]*Farmer{},
	}
}

func (f *fakeAssociationRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeAssociationRepo) ListAssociations(ctx context.Context) ([]Association, error) {
	var out []Association
	for _, a := range f.associations {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAssociationRepo) GetAssociationByID(ctx context.Context, id string) (*Association, error) {
	if a, ok := f.associations[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, ErrAssociationNotFound
}

func (f *fakeAssociationRepo) GetAssociationForUpdate(ctx context.Context, id string) (*Association, error) {
	return f.GetAssociationByID(ctx, id)
}

func (f *fakeAssociationRepo) CountAssociationsByName(ctx context.Context, name, excludeID string) (int64, error) {
	var count int64
	for _, a := range f.associations {
		if a.Name == name && a.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAssociationRepo) CreateAssociation(ctx context.Context, a *Association) error {
	f.associations[a.ID] = a
	return nil
}

func (f *fakeAssociationRepo) UpdateAssociation(ctx context.Context, a *Association) error {
	if _, ok := f.associations[a.ID]; !ok {
		return ErrAssociationNotFound
	}
	copied := *a
	f.associations[a.ID] = &copied
	return nil
}

func (f *fakeAssociationRepo) DeleteAssociation(ctx context.Context, id string) (bool, error) {
	if _, ok := f.associations[id]; !ok {
		return false, nil
	}
	delete(f.associations, id)
	return true, nil
}

func (f *fakeAssociationRepo) ListFarmers(ctx context.Context, associationID string) ([]Farmer, error) {
	var out []Farmer
	for _, fa := range f.farmers {
		if associationID == "" || fa.AssociationID == associationID {
			out = append(out, *fa)
		}
	}
	return out, nil
}

func (f *fakeAssociationRepo) GetFarmerByCode(ctx context.Context, code string) (*Farmer, error) {
	if fa, ok := f.farmers[code]; ok {
		copied := *fa
		return &copied, nil
	}
	return nil, ErrFarmerNotFound
}

func (f *fakeAssociationRepo) CreateFarmer(ctx context.Context, farmer *Farmer) error {
	f.farmers[farmer.Code] = farmer
	return nil
}

func (f *fakeAssociationRepo) UpdateFarmer(ctx context.Context, farmer *Farmer) error {
	if _, ok := f.farmers[farmer.Code]; !ok {
		return ErrFarmerNotFound
	}
	copied := *farmer
	f.farmers[farmer.Code] = &copied
	return nil
}

func (f *fakeAssociationRepo) DeleteFarmer(ctx context.Context, code string) (bool, error) {
	if _, ok := f.farmers[code]; !ok {
		return false, nil
	}
	delete(f.farmers, code)
	return true, nil
}

func seedAssociation(repo *fakeAssociationRepo, name string) *Association {
	a := &Association{ID: uuid.NewString(), Name: name, IsActive: true}
	repo.associations[a.ID] = a
	return a
}

func validFarmerInput(associationID string) CreateFarmerInput {
	return CreateFarmerInput{
		FullName:      "Juan Dela Cruz",
		AssociationID: associationID,
		Birthday:      time.Date(1980, 5, 14, 0, 0, 0, 0, time.UTC),
		Gender:        GenderMale,
		CivilStatus:   CivilMarried,
		Address:       "Purok 2, Bgy. Bulihan",
		ContactNumber: "09171234567",
	}
}

func TestCodePrefix(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Bulihan Growers Cooperative", "BGC"},
		{"Bulihan Growers Cooperative Incorporated", "BGC"},
		{"Samahan", "S"},
		{"san isidro farmers", "SIF"},
	}
	for _, tc := range cases {
		if got := CodePrefix(tc.name); got != tc.want {
			t.Errorf("CodePrefix(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCreateFarmerGeneratesSequentialCodes(t *testing.T) {
	repo := newFakeAssociationRepo()
	svc := NewService(repo)
	a := seedAssociation(repo, "Bulihan Growers Cooperative")

	first, err := svc.CreateFarmer(context.Background(), validFarmerInput(a.ID))
	if err != nil {
		t.Fatalf("CreateFarmer: %v", err)
	}
	if first.Code != "BGC-001" {
		t.Errorf("first code = %q, want BGC-001", first.Code)
	}

	second, err := svc.CreateFarmer(context.Background(), validFarmerInput(a.ID))
	if err != nil {
		t.Fatalf("CreateFarmer: %v", err)
	}
	if second.Code != "BGC-002" {
		t.Errorf("second code = %q, want BGC-002", second.Code)
	}
}

func TestCreateFarmerCodesSurviveDeletes(t *testing.T) {
	repo := newFakeAssociationRepo()
	svc := NewService(repo)
	a := seedAssociation(repo, "Bulihan Growers Cooperative")

	first, err := svc.CreateFarmer(context.Background(), validFarmerInput(a.ID))
	if err != nil {
		t.Fatalf("CreateFarmer: %v", err)
	}
	if err := svc.DeleteFarmer(context.Background(), first.Code); err != nil {
		t.Fatalf("DeleteFarmer: %v", err)
	}

	// the counter never rewinds; deleted numbers are not reissued
	second, err := svc.CreateFarmer(context.Background(), validFarmerInput(a.ID))
	if err != nil {
		t.Fatalf("CreateFarmer: %v", err)
	}
	if second.Code != "BGC-002" {
		t.Errorf("code after delete = %q, want BGC-002", second.Code)
	}
}

func TestCreateFarmerValidation(t *testing.T) {
	repo := newFakeAssociationRepo()
	svc := NewService(repo)
	a := seedAssociation(repo, "Samahan")

	cases := []struct {
		name   string
		mutate func(*CreateFarmerInput)
	}{
		{"empty name", func(in *CreateFarmerInput) { in.FullName = " " }},
		{"bad association id", func(in *CreateFarmerInput) { in.AssociationID = "not-a-uuid" }},
		{"future birthday", func(in *CreateFarmerInput) { in.Birthday = time.Now().AddDate(1, 0, 0) }},
		{"bad gender", func(in *CreateFarmerInput) { in.Gender = "unknown" }},
		{"bad civil status", func(in *CreateFarmerInput) { in.CivilStatus = "complicated" }},
		{"empty address", func(in *CreateFarmerInput) { in.Address = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validFarmerInput(a.ID)
			tc.mutate(&input)
			if _, err := svc.CreateFarmer(context.Background(), input); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateFarmerUnknownAssociation(t *testing.T) {
	svc := NewService(newFakeAssociationRepo())
	input := validFarmerInput(uuid.NewString())
	if _, err := svc.CreateFarmer(context.Background(), input); !errors.Is(err, ErrAssociationNotFound) {
		t.Fatalf("expected ErrAssociationNotFound, got %v", err)
	}
}

func TestCreateAssociationRejectsDuplicateName(t *testing.T) {
	repo := newFakeAssociationRepo()
	svc := NewService(repo)
	seedAssociation(repo, "Samahan")

	if _, err := svc.CreateAssociation(context.Background(), CreateAssociationInput{Name: "Samahan"}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

func TestUpdateAssociationPartial(t *testing.T) {
	repo := newFakeAssociationRepo()
	svc := NewService(repo)
	a := seedAssociation(repo, "Samahan")

	got, err := svc.UpdateAssociation(context.Background(), UpdateAssociationInput{
		ID:       a.ID,
		Barangay: OptionalString{Set: true, Value: "San Isidro"},
		IsActive: OptionalBool{Set: true, Value: false},
	})
	if err != nil {
		t.Fatalf("UpdateAssociation: %v", err)
	}
	if got.Name != "Samahan" {
		t.Errorf("untouched name changed to %q", got.Name)
	}
	if got.Barangay != "San Isidro" || got.IsActive {
		t.Errorf("patch not applied: %+v", got)
	}
}

func TestFarmerAge(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	f := Farmer{Birthday: time.Date(1980, 9, 1, 0, 0, 0, 0, time.UTC)}
	if got := f.Age(now); got != 45 {
		t.Errorf("Age before birthday = %d, want 45", got)
	}
	f.Birthday = time.Date(1980, 8, 28, 0, 0, 0, 0, time.UTC)
	if got := f.Age(now); got != 46 {
		t.Errorf("Age on birthday = %d, want 46", got)
	}
}

func TestDeleteAssociationNotFound(t *testing.T) {
	svc := NewService(newFakeAssociationRepo())
	if err := svc.DeleteAssociation(context.Background(), uuid.NewString()); !errors.Is(err, ErrAssociationNotFound) {
		t.Fatalf("expected ErrAssociationNotFound, got %v", err)
	}
}
