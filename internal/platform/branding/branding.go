// Package branding holds product naming shared by every rendered surface.
package branding

// AppName is the product name shown in page titles.
const AppName = "FAW Detect"

// PageTitle joins a page heading with the product name.
func PageTitle(page string) string {
	if page == "" {
		return AppName
	}
	return page + " | " + AppName
}
