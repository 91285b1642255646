package main

import (
	"log"

	"golang.design/x/clipboard"
)

var clipboardReady bool

// initDiagnostics prepares the clipboard for debug copies. Clipboard access
// can fail on headless or locked-down systems; diagnostics then fall back to
// the log.
func initDiagnostics() {
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable, diagnostics will log instead: %v", err)
		return
	}
	clipboardReady = true
}

// copyDiagnostics puts the state summary on the clipboard for pasting into
// a bug report.
func copyDiagnostics(summary string) {
	log.Printf("diagnostics: %s", summary)
	if clipboardReady {
		clipboard.Write(clipboard.FmtText, []byte(summary))
	}
}
