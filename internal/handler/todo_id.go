package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// todoID is the "id" field of the delete and update bodies. Clients send it
// either as a JSON number or as a numeric string; both decode to the same
// value. Absent, null, "" and 0 all count as not provided.
type todoID struct {
	value int64
	set   bool
}

func (id *todoID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = todoID{}
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*id = todoID{}
			return nil
		}
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("id must be an integer, got %s", data)
	}
	*id = todoID{value: v, set: true}
	return nil
}

// present reports whether a usable id was supplied.
func (id todoID) present() bool {
	return id.set && id.value != 0
}
