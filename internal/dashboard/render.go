package dashboard

import (
	"fmt"
	"strings"

	"bonus-points-bot/internal/catalog"
	"bonus-points-bot/internal/points"
	"bonus-points-bot/internal/service"
)

// maxSectionLength caps the body of one category section. Sections that
// would grow past it are split into numbered continuations; exceeding the
// platform content limit is a hard send failure, so the split threshold
// leaves margin under it.
const maxSectionLength = 1000

// Render produces the dashboard text for one user from a state snapshot.
// Within each category, completed activities come first in
// most-recently-completed order, then the remaining ones in catalog order.
// Every line carries the live point value for the user's current flags.
func Render(snap *service.Snapshot) string {
	var b strings.Builder

	b.WriteString("📊 Статус Бонусных Активностей\n")
	fmt.Fprintf(&b, "Баланс: %d BP\n", snap.User.BPBalance)
	if snap.User.VIPStatus {
		b.WriteString("VIP Статус: ✅ Активен\n")
	} else {
		b.WriteString("VIP Статус: ❌ Неактивен\n")
	}
	if snap.EventActive {
		b.WriteString("🎉 СОБЫТИЕ: x2 BP!\n")
	}

	completedSet := snap.CompletedSet()

	for _, category := range catalog.Categories() {
		var lines []string

		// Completed first, in completion order (most recent first).
		for _, c := range snap.Completed {
			a, ok := catalog.ByID(c.ActivityID)
			if !ok || a.Category != category {
				continue
			}
			value := points.Calculate(a, snap.User.VIPStatus, snap.EventActive)
			lines = append(lines, fmt.Sprintf("✅ %s — %d BP", a.Name, value))
		}

		for _, a := range catalog.ByCategory(category) {
			if completedSet[a.ID] {
				continue
			}
			value := points.Calculate(a, snap.User.VIPStatus, snap.EventActive)
			lines = append(lines, fmt.Sprintf("❌ %s — %d BP", a.Name, value))
		}

		writeSections(&b, category, lines)
	}

	return strings.TrimRight(b.String(), "\n")
}

// writeSections emits category sections, splitting the body at
// maxSectionLength. Continuations are numbered "Category (2)", "Category (3)"
// to preserve read order.
func writeSections(b *strings.Builder, category string, lines []string) {
	section := 1
	var body strings.Builder

	flush := func() {
		if body.Len() == 0 {
			return
		}
		header := category
		if section > 1 {
			header = fmt.Sprintf("%s (%d)", category, section)
		}
		fmt.Fprintf(b, "\n%s\n%s", header, body.String())
		body.Reset()
		section++
	}

	for _, line := range lines {
		if body.Len() > 0 && body.Len()+len(line)+1 > maxSectionLength {
			flush()
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()
}
