package service

import (
	"context"
	"strings"
	"testing"

	"github.com/matforge/catalog/internal/catalog/repository"
	"github.com/matforge/catalog/internal/catalog/testutil"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

func setupEnrichmentTest(t *testing.T) *EnrichmentService {
	t.Helper()
	gw := testutil.NewFakeGateway()
	t.Cleanup(gw.Close)

	gw.Seed("noun", map[string]interface{}{"id": "n1", "name": "Valve", "active": true})
	gw.Seed("noun", map[string]interface{}{"id": "n2", "name": "Pump", "active": true})
	gw.Seed("class", map[string]interface{}{"id": "c1", "noun_id": "n1", "name": "Ball", "active": true})
	gw.Seed("class", map[string]interface{}{"id": "c2", "noun_id": "n1", "name": "Gate", "active": true})
	gw.Seed("class", map[string]interface{}{"id": "c3", "noun_id": "n2", "name": "Centrifugal", "active": true})
	gw.Seed("material", map[string]interface{}{
		"id": "m1", "material_number": 1001, "description": "Ball Valve",
		"noun_id": "n1", "class_id": "c1",
	})
	gw.Seed("class_attribute", map[string]interface{}{
		"id": "a1", "noun_id": "n1", "class_id": "c1",
		"attributes": []string{"Size", "Pressure Rating"},
	})

	repos := repository.NewRepositories(postgrest.NewClient(gw.URL()))
	return NewEnrichmentService(repos.Noun, repos.Class, repos.Material, repos.ClassAttribute)
}

func TestGenerateTemplateSheetVisibility(t *testing.T) {
	svc := setupEnrichmentTest(t)

	f, err := svc.GenerateTemplate(context.Background())
	if err != nil {
		t.Fatalf("GenerateTemplate failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 {
		t.Fatalf("expected 3 sheets, got %v", sheets)
	}

	visible := 0
	for _, sheet := range sheets {
		ok, err := f.GetSheetVisible(sheet)
		if err != nil {
			t.Fatalf("GetSheetVisible(%s) failed: %v", sheet, err)
		}
		if ok {
			visible++
			if sheet != materialsSheet {
				t.Errorf("unexpected visible sheet %q", sheet)
			}
		}
	}
	if visible != 1 {
		t.Fatalf("expected exactly one visible sheet, got %d", visible)
	}
}

func TestGenerateTemplateListsSheet(t *testing.T) {
	svc := setupEnrichmentTest(t)

	f, err := svc.GenerateTemplate(context.Background())
	if err != nil {
		t.Fatalf("GenerateTemplate failed: %v", err)
	}
	defer f.Close()

	// Nouns sorted by name, one per row under the header.
	for cell, want := range map[string]string{
		"A1": "Nouns",
		"A2": "Pump",
		"A3": "Valve",
		"C1": "Pump",
		"C2": "Centrifugal",
		"D1": "Valve",
		"D2": "Ball",
		"D3": "Gate",
	} {
		got, err := f.GetCellValue(listsSheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) failed: %v", cell, err)
		}
		if got != want {
			t.Errorf("Lists!%s = %q, want %q", cell, got, want)
		}
	}

	if got, _ := f.GetCellValue(listsSheet, "A4"); got != "" {
		t.Errorf("expected no extra nouns, Lists!A4 = %q", got)
	}
}

func TestGenerateTemplateDropdowns(t *testing.T) {
	svc := setupEnrichmentTest(t)

	f, err := svc.GenerateTemplate(context.Background())
	if err != nil {
		t.Fatalf("GenerateTemplate failed: %v", err)
	}
	defer f.Close()

	dvs, err := f.GetDataValidations(materialsSheet)
	if err != nil {
		t.Fatalf("GetDataValidations failed: %v", err)
	}

	var nounDV, classDV bool
	for _, dv := range dvs {
		switch {
		case strings.HasPrefix(dv.Sqref, "B2:"):
			nounDV = true
			// Two nouns: the source range must span exactly rows 2 and 3.
			if !strings.Contains(dv.Formula1, "Lists!$A$2:$A$3") {
				t.Errorf("noun dropdown source = %q", dv.Formula1)
			}
		case strings.HasPrefix(dv.Sqref, "C2:"):
			classDV = true
			if !strings.Contains(dv.Formula1, "OFFSET(Lists!$C$2") {
				t.Errorf("class dropdown formula = %q", dv.Formula1)
			}
		}
	}
	if !nounDV {
		t.Error("missing noun column dropdown validation")
	}
	if !classDV {
		t.Error("missing class column dropdown validation")
	}
}

func TestGenerateTemplateMaterialsAndAttributes(t *testing.T) {
	svc := setupEnrichmentTest(t)

	f, err := svc.GenerateTemplate(context.Background())
	if err != nil {
		t.Fatalf("GenerateTemplate failed: %v", err)
	}
	defer f.Close()

	for cell, want := range map[string]string{
		"A1": "Material Number",
		"B1": "Noun",
		"C1": "Class",
		"D1": "Attribute 1",
		"E1": "Value 1",
		"F1": "Attribute 2",
		"G1": "Value 2",
		"A2": "1001",
		"B2": "Valve",
		"C2": "Ball",
	} {
		got, err := f.GetCellValue(materialsSheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) failed: %v", cell, err)
		}
		if got != want {
			t.Errorf("Materials!%s = %q, want %q", cell, got, want)
		}
	}

	// Attribute lookup sheet keyed on noun|class.
	if got, _ := f.GetCellValue(attributesSheet, "A2"); got != "Valve|Ball" {
		t.Errorf("Attributes!A2 = %q", got)
	}
	if got, _ := f.GetCellValue(attributesSheet, "B2"); got != "Size" {
		t.Errorf("Attributes!B2 = %q", got)
	}

	formula, err := f.GetCellFormula(materialsSheet, "D2")
	if err != nil {
		t.Fatalf("GetCellFormula failed: %v", err)
	}
	if !strings.Contains(formula, "Attributes!") || !strings.Contains(formula, "MATCH($B2") {
		t.Errorf("attribute reveal formula = %q", formula)
	}
}
