package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write renders v to w as json (default), edn or text.
//
// text requires v to be a string or implement fmt.Stringer. Stringer is
// ignored by encoding/json, so the same value still encodes as an object.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s (want json, edn or text)", format)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func WriteText(w io.Writer, v any) error {
	var s string
	switch t := v.(type) {
	case fmt.Stringer:
		s = t.String()
	case string:
		s = t
	default:
		return fmt.Errorf("text output not supported for %T", v)
	}
	if len(s) == 0 || s[len(s)-1] != '\n' {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}
