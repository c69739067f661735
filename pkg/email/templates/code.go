package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// CodeData is the content of a one-time code email.
type CodeData struct {
	Title     string
	Intro     string
	Code      string
	ExpiresIn string
	Footer    string
}

// Code renders a minimal inline-styled email that shows a one-time code.
func Code(d CodeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>%[1]s</title></head>`+
			`<body style="margin:0;padding:24px;font-family:Helvetica,Arial,sans-serif;color:#111827;background:#f9fafb">`+
			`<table role="presentation" width="100%%" cellspacing="0" cellpadding="0"><tr><td align="center">`+
			`<table role="presentation" width="480" style="background:#ffffff;border-radius:8px;padding:32px">`+
			`<tr><td><h1 style="font-size:20px;margin:0 0 16px">%[1]s</h1>`+
			`<p style="font-size:15px;line-height:22px;margin:0 0 24px">%[2]s</p>`+
			`<p style="font-size:32px;letter-spacing:8px;font-weight:bold;font-family:monospace;margin:0 0 24px">%[3]s</p>`+
			`<p style="font-size:13px;color:#6b7280;margin:0">This code expires in %[4]s.</p>`+
			`<p style="font-size:13px;color:#6b7280;margin:16px 0 0">%[5]s</p>`+
			`</td></tr></table></td></tr></table></body></html>`,
			html.EscapeString(d.Title),
			html.EscapeString(d.Intro),
			html.EscapeString(d.Code),
			html.EscapeString(d.ExpiresIn),
			html.EscapeString(d.Footer),
		)
		return err
	})
}
