package plotlog

import (
	"fmt"
	"strings"
)

// FormatEntry renders a chapter entry in the same heading and label format
// Segment and the extractor parse, so appended entries round-trip.
func FormatEntry(num int, title, summary string) string {
	return fmt.Sprintf("\n\n### **第%d章：%s**\n\n* **剧情进展:** %s\n* **角色状态:** \n* **关键线索:** \n", num, title, summary)
}

// Insert places an entry directly under the plot-log heading, keeping the
// newest chapter at the top of the section. A document without the section
// gets one started at the end.
func Insert(doc, entry string) string {
	for _, heading := range []string{sectionHeadingBold, sectionHeadingPlain} {
		if idx := strings.Index(doc, heading); idx != -1 {
			pos := idx + len(heading)
			return doc[:pos] + entry + doc[pos:]
		}
	}
	if doc == "" {
		return sectionHeadingPlain + entry
	}
	return doc + "\n\n" + sectionHeadingPlain + entry
}
