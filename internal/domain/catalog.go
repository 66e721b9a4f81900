package domain

import (
	"fmt"
	"strings"
)

// Cover is an optional add-on with a fixed monthly surcharge.
type Cover string

const (
	CoverAccidental        Cover = "Accidental"
	CoverTooth             Cover = "Tooth"
	CoverPregnancy         Cover = "Pregnancy"
	CoverTerminalIllnesses Cover = "Terminal Illnesses"
)

// CoverCatalog lists every cover in display order.
var CoverCatalog = []Cover{CoverAccidental, CoverTooth, CoverPregnancy, CoverTerminalIllnesses}

var coverSurcharges = map[Cover]int{
	CoverAccidental:        20,
	CoverTooth:             15,
	CoverPregnancy:         30,
	CoverTerminalIllnesses: 50,
}

// MonthlySurcharge returns the cover's monthly cost in EUR, or 0 for unknown covers.
func (c Cover) MonthlySurcharge() int {
	return coverSurcharges[c]
}

// Label is the form label, e.g. "Tooth (+€15/month)".
func (c Cover) Label() string {
	return fmt.Sprintf("%s (+€%d/month)", c, c.MonthlySurcharge())
}

// ParseCover matches a cover name case-insensitively. Labels as produced by
// [Cover.Label] are accepted too.
func ParseCover(s string) (Cover, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " (+"); i > 0 {
		s = s[:i]
	}
	for _, c := range CoverCatalog {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown cover %q", s)
}

// normalizeCovers deduplicates covers and returns them in catalog order.
// Unknown covers are dropped.
func normalizeCovers(covers []Cover) []Cover {
	if len(covers) == 0 {
		return nil
	}
	seen := make(map[Cover]bool, len(covers))
	for _, c := range covers {
		seen[c] = true
	}
	var out []Cover
	for _, c := range CoverCatalog {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// HealthIssue is a tag from the quick form's health-issue list.
type HealthIssue string

const (
	IssueDiabetes     HealthIssue = "Diabetes"
	IssueHypertension HealthIssue = "Hypertension"
	IssueAsthma       HealthIssue = "Asthma"
	IssueHeartDisease HealthIssue = "Heart Disease"
	IssueNone         HealthIssue = "None"
)

// HealthIssueCatalog lists every tag in display order.
var HealthIssueCatalog = []HealthIssue{IssueDiabetes, IssueHypertension, IssueAsthma, IssueHeartDisease, IssueNone}

// ParseHealthIssue matches a tag case-insensitively.
func ParseHealthIssue(s string) (HealthIssue, error) {
	s = strings.TrimSpace(s)
	for _, h := range HealthIssueCatalog {
		if strings.EqualFold(s, string(h)) {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown health issue %q", s)
}

// normalizeHealthIssues maps tags to their catalog spelling and deduplicates
// them, keeping catalog order. Unknown tags are dropped.
func normalizeHealthIssues(issues []HealthIssue) []HealthIssue {
	if len(issues) == 0 {
		return nil
	}
	seen := make(map[HealthIssue]bool, len(issues))
	for _, h := range issues {
		if canonical, err := ParseHealthIssue(string(h)); err == nil {
			seen[canonical] = true
		}
	}
	var out []HealthIssue
	for _, h := range HealthIssueCatalog {
		if seen[h] {
			out = append(out, h)
		}
	}
	return out
}
