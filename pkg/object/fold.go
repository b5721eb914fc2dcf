package object

import "golang.org/x/text/cases"

var folder = cases.Fold()

// fold case-folds a member name for comparison. Property and verb names
// are case-insensitive, Unicode aware.
func fold(s string) string {
	return folder.String(s)
}
