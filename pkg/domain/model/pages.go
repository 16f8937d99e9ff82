package model

import "github.com/fieldline-hq/fieldline/pkg/domain/types"

// Page groups consecutive fields between page breaks
type Page struct {
	Number int
	Title  string
	Fields []FormField
}

// OrganizeFieldsIntoPages splits an ordered field list into logical pages.
// Fields are sorted by Order first. Every page_break field closes the
// current page (if it has at least one field) and opens a new one titled
// with the page break's own label. A trailing page is kept only when
// non-empty, and pages are numbered 1..N after assembly.
func OrganizeFieldsIntoPages(fields []FormField) []Page {
	sorted := make([]FormField, len(fields))
	copy(sorted, fields)
	sortFieldsByOrder(sorted)

	var pages []Page
	current := Page{}

	for i := range sorted {
		if sorted[i].Type == types.FieldTypePageBreak {
			if len(current.Fields) > 0 {
				pages = append(pages, current)
			}
			current = Page{Title: sorted[i].Label()}
			continue
		}
		current.Fields = append(current.Fields, sorted[i])
	}
	if len(current.Fields) > 0 {
		pages = append(pages, current)
	}

	for i := range pages {
		pages[i].Number = i + 1
	}
	return pages
}

// IsMultiPageForm reports whether the field list contains any page break
func IsMultiPageForm(fields []FormField) bool {
	return countPageBreaks(fields) > 0
}

// GetPageCount returns the number of logical pages the field list renders as
func GetPageCount(fields []FormField) int {
	return countPageBreaks(fields) + 1
}

func countPageBreaks(fields []FormField) int {
	n := 0
	for i := range fields {
		if fields[i].Type == types.FieldTypePageBreak {
			n++
		}
	}
	return n
}
