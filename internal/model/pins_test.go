package model

import "testing"

func TestCategoryTable(t *testing.T) {
	if len(MainCategories) != len(SubTypesByCategory) {
		t.Fatalf("MainCategories and SubTypesByCategory disagree: %d vs %d",
			len(MainCategories), len(SubTypesByCategory))
	}
	for _, cat := range MainCategories {
		if !IsMainCategory(cat) {
			t.Errorf("category %q missing from table", cat)
		}
		for _, sub := range SubTypesByCategory[cat] {
			if !IsSubType(sub) {
				t.Errorf("subtype %q not in global set", sub)
			}
		}
	}
	if IsMainCategory("Fire") {
		t.Error("subtype accepted as main category")
	}
	if IsSubType("Hazard") {
		t.Error("main category accepted as subtype")
	}
}

func TestGeoPointOrder(t *testing.T) {
	p := NewGeoPoint(33.36, 35.34)
	if p.Type != "Point" {
		t.Errorf("type = %q; want Point", p.Type)
	}
	if p.Longitude() != 33.36 || p.Latitude() != 35.34 {
		t.Errorf("coordinate order swapped: %v", p.Coordinates)
	}
	if p.Coordinates[0] != 33.36 || p.Coordinates[1] != 35.34 {
		t.Errorf("coordinates not stored as [lng, lat]: %v", p.Coordinates)
	}
}
