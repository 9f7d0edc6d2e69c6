package entities

import (
	"fmt"
	"strings"
	"time"
)

// ConsoleEntry is one line of the browser console log
type ConsoleEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

func (e ConsoleEntry) String() string {
	return fmt.Sprintf("%s [%s] %s", e.Time.Format(time.RFC3339), strings.ToUpper(e.Level), e.Message)
}

// FormatConsole renders console entries one per line
func FormatConsole(entries []ConsoleEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
