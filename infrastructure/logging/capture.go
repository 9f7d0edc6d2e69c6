package logging

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Capture is a logrus hook keeping formatted lines in memory so they can
// be attached to reports
type Capture struct {
	mu        sync.Mutex
	lines     []string
	formatter logrus.Formatter
}

// NewCapture - creates an empty capture
func NewCapture() *Capture {
	return &Capture{
		formatter: &logrus.TextFormatter{
			DisableColors:    true,
			FullTimestamp:    true,
			QuoteEmptyFields: true,
		},
	}
}

// Levels captures every level
func (c *Capture) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire formats and stores entry
func (c *Capture) Fire(entry *logrus.Entry) error {
	line, err := c.formatter.Format(entry)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.lines = append(c.lines, strings.TrimRight(string(line), "\n"))
	c.mu.Unlock()
	return nil
}

// Mark returns a position to pass to Since
func (c *Capture) Mark() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Since returns the lines captured after mark
func (c *Capture) Since(mark int) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mark < 0 || mark > len(c.lines) {
		mark = 0
	}
	return join(c.lines[mark:])
}

func (c *Capture) String() string {
	return c.Since(0)
}

func join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
