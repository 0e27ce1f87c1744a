package tui

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-translate/internal/tui"

var logger = otelslog.NewLogger(scopeName)
