package view

import (
	"fmt"
	"strings"

	"bitlife/src/simulation"
)

// statusLine renders the short status shared by the viewers
func statusLine(st simulation.Status, o simulation.Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "gen %v  live %v", st.IterationNum, st.LiveCells)
	if st.Stable {
		b.WriteString("  stable")
	}
	fmt.Fprintf(&b, "  %v steps/tick", o.StepsPerTick)
	if r, ok := st.TickRate(); ok {
		fmt.Fprintf(&b, "  %.1f ticks/s", r.Latest)
	}
	return b.String()
}
