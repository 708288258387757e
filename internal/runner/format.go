package runner

import (
	"fmt"
	"strings"
	"time"

	"crypto_alert/internal/models"
	"crypto_alert/internal/notify"
)

const tsLayout = "2006-01-02 15:04 UTC"

// FormatAlert: заголовок со временем, строка правила, настроение.
func FormatAlert(now time.Time, m models.Match, override bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🕒 *%s*\n", now.UTC().Format(tsLayout))
	b.WriteString(m.Line)
	fmt.Fprintf(&b, "\nSentiment: %s", m.Sentiment)
	if override {
		b.WriteString("\n⚡ extreme RSI, cooldown bypassed")
	}
	return b.String()
}

// FormatError: текст ошибки экранируется, иначе Telegram не разберёт Markdown.
func FormatError(symbol string, err error) string {
	return "[ERROR] " + notify.EscapeMarkdown(fmt.Sprintf("%s: %v", symbol, err))
}

type digestEntry struct {
	outcome models.Outcome
	matches []models.Match
}

// FormatDigest: сообщение ручного прогона.
func FormatDigest(now time.Time, entries []digestEntry) string {
	lines := []string{fmt.Sprintf("🧪 *Test Run* %s", now.UTC().Format(tsLayout))}

	for _, e := range entries {
		o := e.outcome
		if o.Snapshot == nil {
			lines = append(lines, fmt.Sprintf("*%s* – ❌ no data", o.Name))
			continue
		}
		s := o.Snapshot
		line := fmt.Sprintf("*%s* %s", o.Name, s.Close)
		if s.Change.OK {
			line += fmt.Sprintf(" (%+.2f%%)", s.Change.V)
		}
		line += " · RSI " + s.RSI.String()
		if s.Trend != models.TrendUnknown {
			line += " · " + string(s.Trend)
		}
		lines = append(lines, line)

		if len(e.matches) == 0 {
			lines = append(lines, fmt.Sprintf("⚪ %s: no signals", o.Name))
			continue
		}
		for _, m := range e.matches {
			lines = append(lines, m.Line)
		}
	}
	return strings.Join(lines, "\n")
}
