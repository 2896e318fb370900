package ical

import (
	"fmt"
	"sort"
	"strings"
)

// RecordError explains why one calendar entry was not imported.
type RecordError struct {
	msg  string
	args map[string]any
}

func NewRecordError(msg string, args map[string]any) *RecordError {
	if args == nil {
		args = make(map[string]any)
	}
	return &RecordError{
		msg:  msg,
		args: args,
	}
}

func (e RecordError) Error() string {
	keys := make([]string, 0, len(e.args))
	for key := range e.args {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(e.msg)
	if len(keys) > 0 {
		sb.WriteString(" |")
	}
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf(" %s: %v", key, e.args[key]))
	}
	return sb.String()
}
