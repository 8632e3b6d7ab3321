// Package render turns snapshot records into artifacts meant for people to
// read, badges and the readme.
package render

import (
	"fmt"

	"profilestats/internal/snapshot"

	"github.com/dustin/go-humanize"
)

// FormatNumber formats a count the way it is displayed on the profile.
// counts of 10000 or more are shown in units of 万 with one decimal, smaller
// ones with thousands separators.
//
//	0 -> "0", 9999 -> "9,999", 10000 -> "1.0万", 12345 -> "1.2万"
func FormatNumber(n int64) string {
	if n >= 10000 {
		return fmt.Sprintf("%.1f万", float64(n)/10000)
	}
	return humanize.Comma(n)
}

// Loader reads the snapshot record of a source.
type Loader interface {
	Load(source string) (snapshot.Record, error)
}
