// Package validator checks the structure of untrusted draft payloads and
// turns them into typed records. It knows nothing about streams, users, or
// permissions; that is the draft service's job.
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Crimson25/zulip/internal/model"
)

// Error is a structural violation in the drafts payload. Its text names the
// offending field and is returned to API clients as-is.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// draftTypes are the accepted values of the "type" field.
var draftTypes = map[string]bool{"": true, "private": true, "stream": true}

// fieldSpec describes one key of a draft dictionary: its name, whether it
// may be omitted, and how its value is checked and written into the typed
// record. The schema below is the single source of truth for the shape of
// a draft; parseDraft just interprets it.
type fieldSpec struct {
	name     string
	optional bool
	set      func(d *model.DraftInput, varName string, v interface{}) *Error
}

var draftSchema = []fieldSpec{
	{name: "type", set: func(d *model.DraftInput, varName string, v interface{}) *Error {
		s, err := checkString(varName, v)
		if err != nil {
			return err
		}
		if !draftTypes[s] {
			return errorf("Invalid %s", varName)
		}
		d.Type = s
		return nil
	}},
	{name: "to", set: func(d *model.DraftInput, varName string, v interface{}) *Error {
		items, ok := v.([]interface{})
		if !ok {
			return errorf("%s is not a list", varName)
		}
		to := make([]int64, 0, len(items))
		for i, item := range items {
			id, err := checkInt(fmt.Sprintf("%s[%d]", varName, i), item)
			if err != nil {
				return err
			}
			to = append(to, id)
		}
		d.To = to
		return nil
	}},
	{name: "topic", set: func(d *model.DraftInput, varName string, v interface{}) *Error {
		s, err := checkString(varName, v)
		if err != nil {
			return err
		}
		d.Topic = s
		return nil
	}},
	{name: "content", set: func(d *model.DraftInput, varName string, v interface{}) *Error {
		s, err := checkString(varName, v)
		if err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return errorf("%s cannot be blank.", varName)
		}
		d.Content = s
		return nil
	}},
	{name: "timestamp", optional: true, set: func(d *model.DraftInput, varName string, v interface{}) *Error {
		// Unix seconds, integer or float.
		n, ok := v.(json.Number)
		if !ok {
			return errorf("%s is not an allowed_type", varName)
		}
		ts, err := n.Float64()
		if err != nil {
			return errorf("%s is not an allowed_type", varName)
		}
		d.Timestamp = &ts
		return nil
	}},
}

// ParseDrafts decodes and checks a raw drafts payload. The first violation
// aborts the whole batch; on success the typed records come back in payload
// order. Numbers are decoded as json.Number so that float IDs are rejected
// and large IDs survive intact.
func ParseDrafts(raw []byte) ([]model.DraftInput, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, errorf(`Argument "drafts" is not valid JSON.`)
	}
	if dec.More() {
		return nil, errorf(`Argument "drafts" is not valid JSON.`)
	}

	items, ok := payload.([]interface{})
	if !ok {
		return nil, errorf("drafts is not a list")
	}

	drafts := make([]model.DraftInput, 0, len(items))
	for i, item := range items {
		d, err := parseDraft(fmt.Sprintf("drafts[%d]", i), item)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// parseDraft checks a single draft dictionary against draftSchema. Keys
// outside the schema are rejected.
func parseDraft(varName string, v interface{}) (model.DraftInput, *Error) {
	var d model.DraftInput

	dict, ok := v.(map[string]interface{})
	if !ok {
		return d, errorf("%s is not a dict", varName)
	}

	known := make(map[string]bool, len(draftSchema))
	for _, f := range draftSchema {
		known[f.name] = true
		val, present := dict[f.name]
		if !present {
			if f.optional {
				continue
			}
			return d, errorf("%s key is missing from %s", f.name, varName)
		}
		if err := f.set(&d, fmt.Sprintf("%s[%q]", varName, f.name), val); err != nil {
			return d, err
		}
	}

	var extra []string
	for k := range dict {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return d, errorf("Unexpected arguments: %s", strings.Join(extra, ", "))
	}
	return d, nil
}

func checkString(varName string, v interface{}) (string, *Error) {
	s, ok := v.(string)
	if !ok {
		return "", errorf("%s is not a string", varName)
	}
	return s, nil
}

func checkInt(varName string, v interface{}) (int64, *Error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, errorf("%s is not an integer", varName)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, errorf("%s is not an integer", varName)
	}
	return i, nil
}
