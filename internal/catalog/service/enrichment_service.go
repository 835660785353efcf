package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/catalog/repository"
)

const (
	materialsSheet  = "Materials"
	listsSheet      = "Lists"
	attributesSheet = "Attributes"

	// Dropdown validations and attribute formulas cover this many rows so
	// users can append new materials below the exported ones.
	templateRows = 1000

	// TemplateFilename is the download name for the generated workbook.
	TemplateFilename = "Bulk_Enrichment_Template.xlsx"
)

// EnrichmentService generates the bulk enrichment workbook: a visible
// materials sheet with dependent noun/class dropdowns, backed by hidden
// reference sheets.
type EnrichmentService struct {
	nounRepo      *repository.NounRepository
	classRepo     *repository.ClassRepository
	materialRepo  *repository.MaterialRepository
	attributeRepo *repository.ClassAttributeRepository
}

func NewEnrichmentService(nounRepo *repository.NounRepository, classRepo *repository.ClassRepository, materialRepo *repository.MaterialRepository, attributeRepo *repository.ClassAttributeRepository) *EnrichmentService {
	return &EnrichmentService{
		nounRepo:      nounRepo,
		classRepo:     classRepo,
		materialRepo:  materialRepo,
		attributeRepo: attributeRepo,
	}
}

// GenerateTemplate reads the full data set and assembles the workbook in
// memory. The caller is responsible for streaming the file and closing it.
func (s *EnrichmentService) GenerateTemplate(ctx context.Context) (*excelize.File, error) {
	var (
		nouns      []entity.Noun
		classes    []entity.Class
		materials  []entity.MaterialWithDetails
		attributes []entity.ClassAttribute
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nouns, err = s.nounRepo.FindActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		classes, err = s.classRepo.FindActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		materials, err = s.materialRepo.FindAllWithDetails(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		attributes, err = s.attributeRepo.FindAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reading reference data: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), materialsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(listsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(attributesSheet); err != nil {
		return nil, err
	}

	maxAttrs := 0
	for _, a := range attributes {
		if len(a.Attributes) > maxAttrs {
			maxAttrs = len(a.Attributes)
		}
	}

	if err := s.writeMaterials(f, materials, maxAttrs); err != nil {
		return nil, err
	}
	if err := s.writeLists(f, nouns, classes); err != nil {
		return nil, err
	}
	if err := s.writeAttributes(f, nouns, classes, attributes); err != nil {
		return nil, err
	}
	if err := s.addValidations(f, len(nouns)); err != nil {
		return nil, err
	}
	if maxAttrs > 0 {
		if err := s.addAttributeFormulas(f, len(attributes), maxAttrs); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetVisible(listsSheet, false); err != nil {
		return nil, err
	}
	if err := f.SetSheetVisible(attributesSheet, false); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *EnrichmentService) writeMaterials(f *excelize.File, materials []entity.MaterialWithDetails, maxAttrs int) error {
	headers := []string{"Material Number", "Noun", "Class"}
	widths := []float64{15, 32, 32}
	for i := 0; i < maxAttrs; i++ {
		headers = append(headers, fmt.Sprintf("Attribute %d", i+1), fmt.Sprintf("Value %d", i+1))
		widths = append(widths, 24, 24)
	}
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(materialsSheet, col+"1", h); err != nil {
			return err
		}
		if err := f.SetColWidth(materialsSheet, col, col, widths[i]); err != nil {
			return err
		}
	}

	for i, m := range materials {
		row := i + 2
		if err := f.SetCellValue(materialsSheet, fmt.Sprintf("A%d", row), m.MaterialNumber); err != nil {
			return err
		}
		if err := f.SetCellValue(materialsSheet, fmt.Sprintf("B%d", row), m.NounName); err != nil {
			return err
		}
		if err := f.SetCellValue(materialsSheet, fmt.Sprintf("C%d", row), m.ClassName); err != nil {
			return err
		}
	}
	return nil
}

// writeLists fills the hidden reference sheet: noun names in column A, and
// one column per noun (from column C) listing that noun's classes under a
// noun-name header.
func (s *EnrichmentService) writeLists(f *excelize.File, nouns []entity.Noun, classes []entity.Class) error {
	if err := f.SetCellValue(listsSheet, "A1", "Nouns"); err != nil {
		return err
	}
	for i, n := range nouns {
		if err := f.SetCellValue(listsSheet, fmt.Sprintf("A%d", i+2), n.Name); err != nil {
			return err
		}
	}

	colNum := 3
	for _, n := range nouns {
		var names []string
		for _, c := range classes {
			if c.NounID == n.ID {
				names = append(names, c.Name)
			}
		}
		if len(names) == 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(colNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(listsSheet, col+"1", n.Name); err != nil {
			return err
		}
		for i, name := range names {
			if err := f.SetCellValue(listsSheet, fmt.Sprintf("%s%d", col, i+2), name); err != nil {
				return err
			}
		}
		colNum++
	}
	return nil
}

// writeAttributes fills the hidden attribute lookup sheet: column A holds a
// "noun|class" key, the following columns hold that combination's attribute
// names in order.
func (s *EnrichmentService) writeAttributes(f *excelize.File, nouns []entity.Noun, classes []entity.Class, attributes []entity.ClassAttribute) error {
	nounNames := make(map[string]string, len(nouns))
	for _, n := range nouns {
		nounNames[n.ID] = n.Name
	}
	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	if err := f.SetCellValue(attributesSheet, "A1", "Key"); err != nil {
		return err
	}
	for i, a := range attributes {
		row := i + 2
		key := nounNames[a.NounID] + "|" + classNames[a.ClassID]
		if err := f.SetCellValue(attributesSheet, fmt.Sprintf("A%d", row), key); err != nil {
			return err
		}
		for j, name := range a.Attributes {
			col, err := excelize.ColumnNumberToName(j + 2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(attributesSheet, fmt.Sprintf("%s%d", col, row), name); err != nil {
				return err
			}
		}
	}
	return nil
}

// addValidations attaches the dropdowns: column B gets the noun list, column
// C gets a dependent list whose source range is located by matching the
// row's noun against the Lists sheet headers.
func (s *EnrichmentService) addValidations(f *excelize.File, nounCount int) error {
	nounDV := excelize.NewDataValidation(true)
	nounDV.Sqref = fmt.Sprintf("B2:B%d", templateRows)
	nounDV.SetSqrefDropList(fmt.Sprintf("Lists!$A$2:$A$%d", nounCount+1))
	if err := f.AddDataValidation(materialsSheet, nounDV); err != nil {
		return err
	}

	classDV := excelize.NewDataValidation(true)
	classDV.Sqref = fmt.Sprintf("C2:C%d", templateRows)
	classDV.Type = "list"
	// Relative B2 resolves to the same row's noun cell across the sqref.
	classDV.Formula1 = `<formula1>OFFSET(Lists!$C$2,0,MATCH(B2,Lists!$C$1:$Z$1,0)-1,COUNTIF(OFFSET(Lists!$C$2,0,MATCH(B2,Lists!$C$1:$Z$1,0)-1,100),"&lt;&gt;"),1)</formula1>`
	return f.AddDataValidation(materialsSheet, classDV)
}

// addAttributeFormulas writes the reveal formulas: each attribute-name cell
// looks up the row's noun|class key in the hidden Attributes sheet and shows
// the matching attribute name, or stays blank.
func (s *EnrichmentService) addAttributeFormulas(f *excelize.File, attrRows, maxAttrs int) error {
	lastRow := attrRows + 1
	for i := 0; i < maxAttrs; i++ {
		matCol, err := excelize.ColumnNumberToName(4 + i*2)
		if err != nil {
			return err
		}
		attrCol, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		for row := 2; row <= templateRows; row++ {
			formula := fmt.Sprintf(
				`IFERROR(INDEX(Attributes!$%s$2:$%s$%d,MATCH($B%d&"|"&$C%d,Attributes!$A$2:$A$%d,0)),"")`,
				attrCol, attrCol, lastRow, row, row, lastRow,
			)
			if err := f.SetCellFormula(materialsSheet, fmt.Sprintf("%s%d", matCol, row), formula); err != nil {
				return err
			}
		}
	}
	return nil
}
