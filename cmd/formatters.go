package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"alertwire/core"
)

// formatInfo describes one registered export format
type formatInfo struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// renderFormatsTable displays registered formats, marking the configured default
func renderFormatsTable(w io.Writer, formats []formatInfo) {
	if len(formats) == 0 {
		warningColor.Fprintln(w, "No formats registered")
		return
	}

	headerColor.Fprintln(w, "FORMATS")
	headerColor.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "%-20s %-8s\n", "Name", "Default")
	fmt.Fprintln(w, strings.Repeat("-", 40))

	for _, f := range formats {
		def := ""
		if f.Default {
			def = "*"
		}
		fmt.Fprintf(w, "%-20s %-8s\n", f.Name, def)
	}

	fmt.Fprintln(w, strings.Repeat("=", 40))
}

// renderPriorityName colors a priority name by severity
func renderPriorityName(p core.Priority) string {
	switch {
	case !p.IsValid():
		return warningColor.Sprint(p.String())
	case !core.PriorityError.MoreSevereThan(p):
		return errorColor.Sprint(p.String())
	case p == core.PriorityWarning:
		return warningColor.Sprint(p.String())
	default:
		return infoColor.Sprint(p.String())
	}
}

func outputAsJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
