package assets

import (
	"context"
	"database/sql"
	"testing"

	"github.com/fieldserve/fieldassist/internal/db"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return NewStore(d)
}

func TestStore_AddGetList(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	a := &Asset{
		UserID:       "tech-7",
		Name:         "Cooling tower pump P-101",
		Family:       "Centrifugal Pump",
		Manufacturer: "Grundfos",
		ModelNumber:  "CR32",
	}
	if err := store.Add(ctx, a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.ID == "" {
		t.Fatal("Add must assign an id")
	}

	got, err := store.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Name != a.Name || got.Manufacturer != "Grundfos" {
		t.Errorf("Get: got %+v", got)
	}

	missing, err := store.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Get missing: got (%v, %v)", missing, err)
	}
}

func TestStore_ListByUserFamilyFilter(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	seed := []Asset{
		{UserID: "tech-7", Name: "Boiler feed pump P-204", Family: "Centrifugal Pump"},
		{UserID: "tech-7", Name: "Cooling tower pump P-101", Family: "Centrifugal Pump"},
		{UserID: "tech-7", Name: "Line 2 drive", Family: "Variable Frequency Drive"},
		{UserID: "tech-9", Name: "Another pump", Family: "Centrifugal Pump"},
	}
	for i := range seed {
		if err := store.Add(ctx, &seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	pumps, err := store.ListByUser(ctx, "tech-7", "Centrifugal Pump")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(pumps) != 2 {
		t.Fatalf("pumps: got %d, want 2", len(pumps))
	}
	// Sorted by name.
	if pumps[0].Name != "Boiler feed pump P-204" {
		t.Errorf("order: got %q first", pumps[0].Name)
	}

	all, err := store.ListByUser(ctx, "tech-7", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("all: got %d, want 3", len(all))
	}
}

func TestStore_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	a := &Asset{UserID: "tech-7", Name: "Compressor", Family: "Air Compressor"}
	if err := store.Add(ctx, a); err != nil {
		t.Fatal(err)
	}

	a.Location = "Building 4"
	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := store.Get(ctx, a.ID)
	if got.Location != "Building 4" {
		t.Errorf("location: got %q", got.Location)
	}

	if err := store.Remove(ctx, a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, a.ID); err != sql.ErrNoRows {
		t.Errorf("second Remove: got %v, want sql.ErrNoRows", err)
	}
}
