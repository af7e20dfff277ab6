package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestBenefitLifecycle(t *testing.T) {
	svc := NewService(NewInMemory())
	ctx := context.Background()

	created, err := svc.CreateBenefit(ctx, BenefitInput{
		Titulo:    "2x1 en cines",
		Descuento: 50,
		Activo:    true,
	})
	if err != nil {
		t.Fatalf("CreateBenefit: %v", err)
	}
	if created.ID == "" || created.UID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected both id flavors assigned: %+v", created)
	}

	// Both reference flavors address the same entity.
	byLogical, err := svc.GetBenefit(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetBenefit by logical id: %v", err)
	}
	byNative, err := svc.GetBenefit(ctx, created.UID.String())
	if err != nil {
		t.Fatalf("GetBenefit by native id: %v", err)
	}
	if byLogical.ID != byNative.ID {
		t.Fatalf("flavors disagree: %s vs %s", byLogical.ID, byNative.ID)
	}

	nuevo := "2x1 en cines y teatro"
	updated, err := svc.UpdateBenefit(ctx, created.UID.String(), BenefitUpdate{Titulo: &nuevo})
	if err != nil {
		t.Fatalf("UpdateBenefit: %v", err)
	}
	if updated.Titulo != nuevo {
		t.Fatalf("titulo not updated: %s", updated.Titulo)
	}
	if updated.Descuento != 50 {
		t.Fatalf("partial update touched descuento: %d", updated.Descuento)
	}

	if err := svc.DeleteBenefit(ctx, created.ID); err != nil {
		t.Fatalf("DeleteBenefit: %v", err)
	}
	if _, err := svc.GetBenefit(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestBenefitValidation(t *testing.T) {
	svc := NewService(NewInMemory())
	ctx := context.Background()

	if _, err := svc.CreateBenefit(ctx, BenefitInput{Titulo: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty titulo, got %v", err)
	}
	if _, err := svc.CreateBenefit(ctx, BenefitInput{Titulo: "x", Descuento: 120}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for descuento > 100, got %v", err)
	}
}

func TestWalletLifecycle(t *testing.T) {
	svc := NewService(NewInMemory())
	ctx := context.Background()

	w, err := svc.CreateWallet(ctx, WalletInput{UserID: "01J9USER000000000000000000", Saldo: 100, Activa: true})
	if err != nil {
		t.Fatalf("CreateWallet: %v", err)
	}

	saldo := int64(250)
	updated, err := svc.UpdateWallet(ctx, w.ID, WalletUpdate{Saldo: &saldo})
	if err != nil {
		t.Fatalf("UpdateWallet: %v", err)
	}
	if updated.Saldo != 250 {
		t.Fatalf("saldo not updated: %d", updated.Saldo)
	}

	negativo := int64(-1)
	if _, err := svc.UpdateWallet(ctx, w.ID, WalletUpdate{Saldo: &negativo}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative saldo, got %v", err)
	}
}

func TestReferenceEntities(t *testing.T) {
	svc := NewService(NewInMemory())
	ctx := context.Background()

	localidad, err := svc.CreateReference(ctx, TypeLocalidades, ReferenceInput{Nombre: "Buenos Aires"})
	if err != nil {
		t.Fatalf("CreateReference localidad: %v", err)
	}
	ciudad, err := svc.CreateReference(ctx, TypeCiudades, ReferenceInput{Nombre: "La Plata", ParentID: localidad.ID})
	if err != nil {
		t.Fatalf("CreateReference ciudad: %v", err)
	}
	if ciudad.ParentID != localidad.ID {
		t.Fatalf("parent link lost: %+v", ciudad)
	}

	// Reference types are isolated id spaces.
	if _, err := svc.GetReference(ctx, TypeCategorias, ciudad.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across types, got %v", err)
	}

	if _, err := svc.CreateReference(ctx, "gimnasios", ReferenceInput{Nombre: "x"}); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}

	list, err := svc.ListReferences(ctx, TypeCiudades, 10, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected list: %v err=%v", list, err)
	}
}
