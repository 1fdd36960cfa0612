package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
)

// renderPost formats p for the terminal. viewerID marks the viewer's own
// vote and authorship; it may be empty.
func renderPost(p *models.Post, viewerID string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %+d  %s  by %s, %s", p.ID, p.Votes, p.Category, p.AuthorEmail, p.CreatedAt.Local().Format(time.DateTime))
	if viewerID != "" {
		if p.AuthorID == viewerID {
			b.WriteString("  (yours)")
		}
		if v := p.VoteOf(viewerID); v != votes.None {
			fmt.Fprintf(&b, "  (you voted %s)", v)
		}
	}
	fmt.Fprintf(&b, "\n    Problem:  %s", p.Problem)
	fmt.Fprintf(&b, "\n    Solution: %s", strings.ReplaceAll(p.Solution, "\n", "\n              "))
	if p.Address != "" {
		fmt.Fprintf(&b, "\n    Address:  %s", p.Address)
	}
	if p.Location != nil {
		fmt.Fprintf(&b, "\n    Location: %s", formatLocation(p.Location))
	}
	return b.String()
}

func formatLocation(l *models.Location) string {
	if l == nil {
		return ""
	}
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}
