package pinlog

import "embed"

// WebFS holds the built frontend served by cmd/pinlog.
//
//go:embed web/dist
var WebFS embed.FS
