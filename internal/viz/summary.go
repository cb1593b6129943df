package viz

import (
	"fmt"
	"strings"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/config"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/integrators"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/sim"
)

// Summary renders the post-run panel: outcome, final state per tag, and
// integrator work counts.
func Summary(result *sim.Result, layout *engine.Layout, stats integrators.Stats) string {
	var b strings.Builder

	b.WriteString(Title.Render("evolution summary"))
	b.WriteString("\n\n")

	status := Good.Render("ok")
	if !result.Success {
		status = Bad.Render("aborted")
	}
	b.WriteString(fmt.Sprintf("%s %s  %s\n",
		Label.Render("status:"), status, Subtle.Render(result.Message)))

	if n := len(result.Times); n > 0 {
		tYears := result.Times[n-1] / config.SecondsPerYear
		b.WriteString(fmt.Sprintf("%s %s\n",
			Label.Render("t_final:"), Value.Render(fmt.Sprintf("%.4g yr", tYears))))
	}

	if final := result.Final(); final != nil {
		for _, tag := range layout.Order() {
			off, _ := layout.Offset(tag)
			size, _ := layout.BlockSize(tag)
			vals := make([]string, size)
			for i := 0; i < size; i++ {
				vals[i] = fmt.Sprintf("%.6g", final[off+i])
			}
			b.WriteString(fmt.Sprintf("%s %s\n",
				Label.Render(tag.String()+":"),
				Value.Render(strings.Join(vals, "  "))))
		}
	}

	b.WriteString(fmt.Sprintf("%s %s accepted, %s rejected, %s evaluations\n",
		Label.Render("steps:"),
		Value.Render(fmt.Sprintf("%d", stats.Steps)),
		Value.Render(fmt.Sprintf("%d", stats.Rejected)),
		Value.Render(fmt.Sprintf("%d", stats.Evaluations))))

	return Panel.Render(b.String())
}
