package enums

import "testing"

func TestParseCatalogSortDefaultsToNewest(t *testing.T) {
	got, err := ParseCatalogSort("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != CatalogSortNewest {
		t.Fatalf("expected newest, got %s", got)
	}
}

func TestParseCatalogSortKnownAndUnknown(t *testing.T) {
	got, err := ParseCatalogSort("PRICE-LOW")
	if err != nil || got != CatalogSortPriceLow {
		t.Fatalf("expected price-low, got %s err=%v", got, err)
	}
	if _, err := ParseCatalogSort("cheapest"); err == nil {
		t.Fatalf("expected error for unknown sort")
	}
}

func TestParseCatalogSource(t *testing.T) {
	got, err := ParseCatalogSource("Professional")
	if err != nil || got != CatalogSourceProfessional {
		t.Fatalf("expected professional, got %s err=%v", got, err)
	}
	if CatalogSource("vendor").IsValid() {
		t.Fatalf("vendor is not a catalog source")
	}
}

func TestPaymentStatusIsPaid(t *testing.T) {
	status, err := ParsePaymentStatus("PAID")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.IsPaid() {
		t.Fatalf("paid status should grant access")
	}
	if PaymentStatusRefunded.IsPaid() {
		t.Fatalf("refunded status should not grant access")
	}
}
