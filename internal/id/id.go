package id

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	refPattern   = regexp.MustCompile(`^0*(\d+[a-z]*)$`)
	rowIDPattern = regexp.MustCompile(`^\d{1,3}[a-z]?$`)
)

// Normalize returns the canonical key of a row id: lowercased with leading
// zeros removed. "01" -> "1", "035a" -> "35a", "0" -> "0".
// Ids that are not digits followed by letters come back lowercased and trimmed.
func Normalize(rowID string) string {
	s := strings.ToLower(strings.TrimSpace(rowID))
	if m := refPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// IsRowID reports whether s looks like an official row id ("1", "01", "35a").
func IsRowID(s string) bool {
	return rowIDPattern.MatchString(s)
}

// Range returns the ids from start to end inclusive, zero-padded to the width
// of the wider bound: Range("01", "03") -> ["01", "02", "03"].
// ok is false when either bound is not numeric or end < start.
func Range(start, end string) (ids []string, ok bool) {
	from, err := strconv.Atoi(start)
	if err != nil {
		return nil, false
	}
	to, err := strconv.Atoi(end)
	if err != nil {
		return nil, false
	}
	if to < from {
		return nil, false
	}
	width := max(len(start), len(end))
	for n := from; n <= to; n++ {
		ids = append(ids, fmt.Sprintf("%0*d", width, n))
	}
	return ids, true
}

// FromTag derives the row id from an XFA datasets row tag.
// "R12" -> "12", "R_35a" -> "35a". ok is false for tags that do not start
// with "R" or carry nothing after the prefix.
func FromTag(tag string) (rowID string, ok bool) {
	switch {
	case strings.HasPrefix(tag, "R_"):
		rowID = tag[2:]
	case strings.HasPrefix(tag, "R"):
		rowID = tag[1:]
	default:
		return "", false
	}
	if rowID == "" {
		return "", false
	}
	return rowID, true
}

// Less orders row ids by their numeric part, then by letter suffix.
// "2" < "10" < "35" < "35a".
func Less(a, b string) bool {
	an, as := split(Normalize(a))
	bn, bs := split(Normalize(b))
	if len(an) != len(bn) {
		return len(an) < len(bn)
	}
	if an != bn {
		return an < bn
	}
	return as < bs
}

func split(rowID string) (num, suffix string) {
	i := 0
	for i < len(rowID) && rowID[i] >= '0' && rowID[i] <= '9' {
		i++
	}
	return rowID[:i], rowID[i:]
}
