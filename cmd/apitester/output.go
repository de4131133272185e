package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"

	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/jsonfmt"
)

// Output formats accepted by --output.
const (
	outputText   = "text"
	outputJSON   = "json"
	outputMarkup = "markup"
)

var categoryColors = map[request.StatusCategory]*color.Color{
	request.StatusSuccess:     color.New(color.FgGreen, color.Bold),
	request.StatusClientError: color.New(color.FgYellow, color.Bold),
	request.StatusServerError: color.New(color.FgRed, color.Bold),
	request.StatusUnknown:     color.New(color.FgHiBlack, color.Bold),
}

var tokenColors = map[jsonfmt.Kind]*color.Color{
	jsonfmt.Key:     color.New(color.FgBlue),
	jsonfmt.String:  color.New(color.FgGreen),
	jsonfmt.Number:  color.New(color.FgMagenta),
	jsonfmt.Boolean: color.New(color.FgCyan),
	jsonfmt.Null:    color.New(color.FgHiBlack),
}

func validOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputMarkup:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or markup)", format)
}

// printResponse writes resp in format. A non-empty query narrows the body
// to the gjson path it selects.
func printResponse(w io.Writer, resp request.Response, format, query string) error {
	if query != "" {
		result := gjson.GetBytes(resp.Data, query)
		if !result.Exists() {
			return fmt.Errorf("query %q matched nothing", query)
		}
		resp.Data = json.RawMessage(result.Raw)
	}

	switch format {
	case outputJSON:
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		fmt.Fprintln(w, string(out))
	case outputMarkup:
		fmt.Fprintln(w, jsonfmt.Format(resp.Data))
	default:
		fmt.Fprintln(w, statusSummary(resp))
		if body := colorJSON(resp.Data); body != "" {
			fmt.Fprintln(w, body)
		}
	}
	return nil
}

func statusSummary(resp request.Response) string {
	c := categoryColors[request.CategoryOf(resp.Status)]
	status := resp.StatusText
	if resp.Status != 0 {
		status = fmt.Sprintf("%d %s", resp.Status, resp.StatusText)
	}
	return fmt.Sprintf("%s  %d ms  %s", c.Sprint(status), resp.Time, resp.Size)
}

func colorJSON(raw json.RawMessage) string {
	if color.NoColor {
		return jsonfmt.Highlight(raw, nil, nil)
	}
	return jsonfmt.Highlight(raw, nil, func(k jsonfmt.Kind, text string) string {
		if c, ok := tokenColors[k]; ok {
			return c.Sprint(text)
		}
		return text
	})
}
