package inform

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
)

// Event is a single FHEMWEB update: an informid and its new value
type Event struct {
	ID    string
	Value string
	HTML  string
}

// ParseMessage splits a FHEMWEB inform message into events.
//
// With fmt=JSON every line is an array ["informid","value","html"]. Lines that
// are not such arrays are skipped and reported in the returned error, which
// is nil when every line parsed.
func ParseMessage(data []byte) ([]Event, error) {
	var events []Event
	skipped := 0

	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			skipped++
			continue
		}
		arr := gjson.ParseBytes(line)
		if !arr.IsArray() || len(arr.Array()) < 2 {
			skipped++
			continue
		}
		fields := arr.Array()
		ev := Event{
			ID:    fields[0].String(),
			Value: fields[1].String(),
		}
		if len(fields) > 2 {
			ev.HTML = fields[2].String()
		}
		if ev.ID == "" {
			skipped++
			continue
		}
		events = append(events, ev)
	}

	if skipped > 0 {
		return events, fmt.Errorf("skipped %d malformed inform line(s)", skipped)
	}
	return events, nil
}
