package tui

import "github.com/atotto/clipboard"

// copyToClipboard is a variable so tests can run without a system clipboard.
var copyToClipboard = clipboard.WriteAll
