package fhem

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Reading is a single live value of a FHEM device as returned by jsonlist2
type Reading struct {
	Value string `json:"Value"`
	Time  string `json:"Time"`
}

// DeviceInfo is one entry of the jsonlist2 Results array
type DeviceInfo struct {
	Name       string             `json:"Name"`
	Internals  map[string]string  `json:"Internals"`
	Readings   map[string]Reading `json:"Readings"`
	Attributes map[string]string  `json:"Attributes"`
}

// Reading returns the named reading and whether it exists
func (d *DeviceInfo) Reading(name string) (Reading, bool) {
	if d == nil || d.Readings == nil {
		return Reading{}, false
	}
	r, ok := d.Readings[name]
	return r, ok
}

// Attribute returns the named attribute value and whether it is set
func (d *DeviceInfo) Attribute(name string) (string, bool) {
	if d == nil || d.Attributes == nil {
		return "", false
	}
	v, ok := d.Attributes[name]
	return v, ok
}

// QueryResult is a parsed jsonlist2 response
type QueryResult struct {
	Arg          string
	Devices      []*DeviceInfo
	TotalResults int
}

// First returns the first device of the result, or nil if nothing matched
func (q *QueryResult) First() *DeviceInfo {
	if q == nil || len(q.Devices) == 0 {
		return nil
	}
	return q.Devices[0]
}

// ParseJSONList2 parses the body of a jsonlist2 response.
//
// Reading and attribute names may contain dots, so objects are walked with
// ForEach instead of being addressed through gjson paths.
func ParseJSONList2(body []byte) (*QueryResult, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, fmt.Errorf("empty response")
	}
	if !gjson.Valid(trimmed) {
		return nil, fmt.Errorf("response is not valid JSON: %.60q", trimmed)
	}

	doc := gjson.Parse(trimmed)
	results := doc.Get("Results")
	if !results.Exists() || !results.IsArray() {
		return nil, fmt.Errorf("response has no Results array")
	}

	q := &QueryResult{
		Arg:          doc.Get("Arg").String(),
		TotalResults: int(doc.Get("totalResultsReturned").Int()),
	}

	results.ForEach(func(_, entry gjson.Result) bool {
		dev := &DeviceInfo{
			Name:       entry.Get("Name").String(),
			Internals:  stringMap(entry.Get("Internals")),
			Attributes: stringMap(entry.Get("Attributes")),
			Readings:   make(map[string]Reading),
		}
		entry.Get("Readings").ForEach(func(k, v gjson.Result) bool {
			dev.Readings[k.String()] = Reading{
				Value: v.Get("Value").String(),
				Time:  v.Get("Time").String(),
			}
			return true
		})
		q.Devices = append(q.Devices, dev)
		return true
	})

	if !doc.Get("totalResultsReturned").Exists() {
		q.TotalResults = len(q.Devices)
	}

	return q, nil
}

func stringMap(obj gjson.Result) map[string]string {
	m := make(map[string]string)
	obj.ForEach(func(k, v gjson.Result) bool {
		m[k.String()] = v.String()
		return true
	})
	return m
}
