package pagebook

import (
	"github.com/go-openapi/spec"
)

// PageSchema returns the OpenAPI schema of a Page whose items conform to the
// given item schema: items, page, size, total and pages are required,
// page/size/total are non-negative integers, pages has a minimum of 1, and
// previous_page/next_page are optional non-negative integers.
func PageSchema(item spec.Schema) *spec.Schema {
	schema := &spec.Schema{}
	schema.Typed("object", "").
		WithDescription("One page of a larger record set, with navigation metadata.").
		SetProperty("items", *spec.ArrayProperty(&item).
			WithDescription("The records belonging to this page.")).
		SetProperty("page", *indexProperty(0).
			WithDescription("Zero-based index of this page, from 0 to pages - 1.")).
		SetProperty("size", *indexProperty(0).
			WithDescription("Requested maximum number of records per page.")).
		SetProperty("total", *indexProperty(0).
			WithDescription("Total number of records across the whole set.")).
		SetProperty("pages", *indexProperty(1).
			WithDescription("Total number of pages required to hold total records.")).
		SetProperty("previous_page", *indexProperty(0).
			WithDescription("Index of the prior page. Absent on the first page.")).
		SetProperty("next_page", *indexProperty(0).
			WithDescription("Index of the following page. Absent on the last page."))
	schema.Required = []string{"items", "page", "size", "total", "pages"}
	return schema
}

// BookSchema returns the OpenAPI schema of a Book whose sheets hold items
// conforming to the given item schema.
func BookSchema(item spec.Schema) *spec.Schema {
	schema := &spec.Schema{}
	schema.Typed("object", "").
		WithDescription("An entire record set split into all of its pages.").
		SetProperty("sheets", *spec.ArrayProperty(PageSchema(item)).
			WithDescription("The pages of the record set in ascending page order."))
	schema.Required = []string{"sheets"}
	return schema
}

func indexProperty(minimum int64) *spec.Schema {
	return spec.Int64Property().WithMinimum(float64(minimum), false)
}
