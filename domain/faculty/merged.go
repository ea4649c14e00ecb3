package faculty

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// About is the about-record for one faculty member with its derived
// researchPositions and links sequences flattened into the same JSON object.
type About struct {
	Fields            Record
	ResearchPositions []*string
	Links             []Record
}

const (
	aboutPositionsKey = "researchPositions"
	aboutLinksKey     = "links"
	requirementsKey   = "requirements"
	creditsKey        = "credits"
)

func (a About) MarshalJSON() ([]byte, error) {
	out := fieldsToObject(a.Fields)
	out[aboutPositionsKey] = nonNilLabels(a.ResearchPositions)
	out[aboutLinksKey] = nonNilRecords(a.Links)
	return json.Marshal(out)
}

func (a *About) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("about: %w", err)
	}
	*a = About{ResearchPositions: []*string{}, Links: []Record{}}
	if err := takeJSON(raw, aboutPositionsKey, &a.ResearchPositions); err != nil {
		return fmt.Errorf("about.%s: %w", aboutPositionsKey, err)
	}
	if err := takeJSON(raw, aboutLinksKey, &a.Links); err != nil {
		return fmt.Errorf("about.%s: %w", aboutLinksKey, err)
	}
	a.Fields = objectToFields(raw)
	return nil
}

// FundingInfo is the funding record for one faculty member with the
// requirement labels merged in under "requirements".
type FundingInfo struct {
	Fields       Record
	Requirements []*string
}

func (f FundingInfo) MarshalJSON() ([]byte, error) {
	out := fieldsToObject(f.Fields)
	out[requirementsKey] = nonNilLabels(f.Requirements)
	return json.Marshal(out)
}

func (f *FundingInfo) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("fundingInfo: %w", err)
	}
	*f = FundingInfo{Requirements: []*string{}}
	if err := takeJSON(raw, requirementsKey, &f.Requirements); err != nil {
		return fmt.Errorf("fundingInfo.%s: %w", requirementsKey, err)
	}
	f.Fields = objectToFields(raw)
	return nil
}

// Course is a course row whose credits column is numeric. Credits is nil
// when the source cell is blank or not a finite number and encodes as null.
type Course struct {
	Fields  Record
	Credits *float64
}

func (c Course) MarshalJSON() ([]byte, error) {
	out := fieldsToObject(c.Fields)
	out[creditsKey] = c.Credits
	return json.Marshal(out)
}

func (c *Course) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("course: %w", err)
	}
	*c = Course{}
	if msg, ok := raw[creditsKey]; ok {
		delete(raw, creditsKey)
		var n *float64
		if err := json.Unmarshal(msg, &n); err != nil {
			// Older caches may carry the untouched string cell.
			var s string
			if json.Unmarshal(msg, &s) != nil {
				return fmt.Errorf("course.credits: %w", err)
			}
			n = ParseCredits(s)
		}
		c.Credits = n
	}
	c.Fields = objectToFields(raw)
	return nil
}

// ParseCredits converts a credits cell to a number. Blank, non-numeric and
// non-finite values yield nil.
func ParseCredits(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

func fieldsToObject(fields Record) map[string]any {
	out := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	raw := map[string]json.RawMessage{}
	if string(data) == "null" {
		return raw, nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// takeJSON decodes and removes key from raw when present.
func takeJSON(raw map[string]json.RawMessage, key string, dst any) error {
	msg, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	return json.Unmarshal(msg, dst)
}

// objectToFields keeps every remaining value as a string; non-string JSON
// values keep their literal text.
func objectToFields(raw map[string]json.RawMessage) Record {
	fields := make(Record, len(raw))
	for k, msg := range raw {
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			fields[k] = s
			continue
		}
		if string(msg) == "null" {
			fields[k] = ""
			continue
		}
		fields[k] = string(msg)
	}
	return fields
}

func nonNilLabels(labels []*string) []*string {
	if labels == nil {
		return []*string{}
	}
	return labels
}

func nonNilRecords(records []Record) []Record {
	if records == nil {
		return []Record{}
	}
	return records
}
