package render

import (
	_ "embed"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed style.css
var styleCSS string

var (
	reHowItWorks = regexp.MustCompile(`(?i)<h2([^>]*)>\s*How This Report Works\s*</h2>`)
	reSignal     = regexp.MustCompile(`(▲|▼|►) (positive|negative|neutral)`)
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts report markdown into a standalone, print-ready page.
func HTML(title, reportMarkdown string) (string, error) {
	var content strings.Builder
	if err := markdown.Convert([]byte(reportMarkdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	if strings.TrimSpace(title) == "" {
		title = "Growth ROI Report"
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + styleCSS + "\n" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;} " +
		`h2[data-page-break-before="true"]{break-before:page;page-break-before:always;} ` +
		"@media print{ @page{size:auto;margin:12mm;} body{padding:0;} .report-wrap{max-width:none;} }" +
		"</style></head><body>" +
		"<div class='report-wrap'><div class='report-html'>" + applyPrintLayoutHooks(content.String()) + "</div></div>" +
		"</body></html>", nil
}

func applyPrintLayoutHooks(contentHTML string) string {
	out := reHowItWorks.ReplaceAllString(contentHTML, `<h2$1 data-page-break-before="true">How This Report Works</h2>`)
	return reSignal.ReplaceAllString(out, `<span class="signal-$2">$1 $2</span>`)
}
