package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/rules"
	pgrepo "github.com/mr0kk/hackYeah2025-guidy/internal/repo/postgres"
)

type profileStoreStub struct {
	upsertCalls int
	lastRecord  pgrepo.ProfileRecord
	candidates  []pgrepo.ProfileRecord
	getErr      error
}

func (s *profileStoreStub) Upsert(_ context.Context, rec pgrepo.ProfileRecord, now time.Time) (pgrepo.ProfileRecord, error) {
	s.upsertCalls++
	rec.ID = 1
	rec.UpdatedAt = now
	s.lastRecord = rec
	return rec, nil
}

func (s *profileStoreStub) GetByUserID(context.Context, int64) (pgrepo.ProfileRecord, error) {
	if s.getErr != nil {
		return pgrepo.ProfileRecord{}, s.getErr
	}
	return s.lastRecord, nil
}

func (s *profileStoreStub) ListGuideCandidates(context.Context, int64, int) ([]pgrepo.ProfileRecord, error) {
	return s.candidates, nil
}

func TestUpsertNormalizesGuideProfile(t *testing.T) {
	store := &profileStoreStub{}
	svc := NewService(store)

	profile, err := svc.Upsert(context.Background(), 7, UpsertInput{
		Name:       "  Marta  ",
		Age:        29,
		Location:   "Gdansk",
		Type:       "GUIDE",
		HourlyRate: 30,
		Languages:  []string{"pl", "en"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if profile.Name != "Marta" {
		t.Fatalf("expected trimmed name, got %q", profile.Name)
	}
	if profile.Type != enums.ProfileTypeGuide {
		t.Fatalf("unexpected type: %s", profile.Type)
	}
	if store.lastRecord.Type != "guide" {
		t.Fatalf("expected lowercased stored type, got %q", store.lastRecord.Type)
	}
}

func TestUpsertRejectsUnknownType(t *testing.T) {
	svc := NewService(&profileStoreStub{})

	if _, err := svc.Upsert(context.Background(), 7, UpsertInput{
		Name: "Marta",
		Age:  29,
		Type: "explorer",
	}); err != ErrUnsupportedType {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestUpsertDefaultsGuideRate(t *testing.T) {
	store := &profileStoreStub{}
	svc := NewService(store)

	if _, err := svc.Upsert(context.Background(), 7, UpsertInput{
		Name: "Marta",
		Age:  29,
		Type: "guide",
	}); err != nil {
		t.Fatalf("guide without rate should get the default: %v", err)
	}
	if store.lastRecord.HourlyRate != rules.DefaultHourlyRate {
		t.Fatalf("expected default hourly rate %d, got %d", rules.DefaultHourlyRate, store.lastRecord.HourlyRate)
	}

	if _, err := svc.Upsert(context.Background(), 7, UpsertInput{
		Name:       "Marta",
		Age:        29,
		Type:       "guide",
		HourlyRate: -5,
	}); err != ErrValidation {
		t.Fatalf("expected ErrValidation for negative rate, got %v", err)
	}

	if _, err := svc.Upsert(context.Background(), 7, UpsertInput{
		Name: "Marta",
		Age:  29,
		Type: "tourist",
	}); err != nil {
		t.Fatalf("tourist without rate should pass: %v", err)
	}
}

func TestGetMapsMissingProfile(t *testing.T) {
	svc := NewService(&profileStoreStub{getErr: pgrepo.ErrProfileNotFound})

	if _, err := svc.Get(context.Background(), 7); err != ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestCandidates(t *testing.T) {
	store := &profileStoreStub{
		candidates: []pgrepo.ProfileRecord{
			{UserID: 10, Name: "Jan", Type: "guide", HourlyRate: 25},
			{UserID: 11, Name: "Ola", Type: "both", HourlyRate: 40},
		},
	}
	svc := NewService(store)

	items, err := svc.Candidates(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two candidates, got %d", len(items))
	}
	if items[1].Type != enums.ProfileTypeBoth {
		t.Fatalf("unexpected type mapping: %s", items[1].Type)
	}
}
