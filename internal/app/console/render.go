package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dalemusser/usersadmin/internal/app/panel"
	"github.com/dalemusser/usersadmin/internal/app/system/paging"
	"github.com/dalemusser/usersadmin/internal/domain/models"
	"github.com/dustin/go-humanize"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	activeStyle   = cellStyle.Foreground(lipgloss.Color("42"))
	inactiveStyle = cellStyle.Foreground(lipgloss.Color("245"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle    = lipgloss.NewStyle().Bold(true)

	noteStyles = map[panel.Severity]lipgloss.Style{
		panel.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		panel.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		panel.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		panel.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

const statusCol = 2

// createdLabel renders a creation time relative to now.
func createdLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// renderTable draws the rows of a snapshot.
func renderTable(rows []models.User) string {
	data := make([][]string, len(rows))
	for i, u := range rows {
		data[i] = []string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Status,
			createdLabel(u.CreatedAt),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "Username", "Status", "Created").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == statusCol && row >= 0 && row < len(data) {
				if data[row][statusCol] == models.StatusActive {
					return activeStyle
				}
				return inactiveStyle
			}
			return cellStyle
		}).
		String()
}

// describeQuery summarizes the active filters, e.g. `search "al" · active · username desc`.
func describeQuery(q panel.QueryState) string {
	var parts []string
	if q.SearchText != "" {
		parts = append(parts, fmt.Sprintf("search %q", q.SearchText))
	}
	if q.StatusFilter != "" && q.StatusFilter != panel.FilterAll {
		parts = append(parts, string(q.StatusFilter))
	}
	if q.Sorted() {
		dir := q.SortDirection
		if dir == "" {
			dir = panel.SortAsc
		}
		parts = append(parts, q.SortField+" "+string(dir))
	}
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, " · ")
}

// footer describes the visible range and paging position.
func footer(s panel.Snapshot) string {
	rg := paging.ComputeRange(s.Query.Page, s.Query.PageSize, len(s.Rows), s.Total)
	var b strings.Builder
	if rg.Start == 0 {
		b.WriteString("No users")
	} else {
		fmt.Fprintf(&b, "%s-%s of %s", humanize.Comma(int64(rg.Start)), humanize.Comma(int64(rg.End)), humanize.Comma(s.Total))
	}
	fmt.Fprintf(&b, " · page %d/%d · %s", s.Query.Page+1, rg.Pages, describeQuery(s.Query))
	if rg.HasPrev {
		b.WriteString(" · prev")
	}
	if rg.HasNext {
		b.WriteString(" · next")
	}
	return b.String()
}

// RenderSnapshot writes the table and its footer.
func RenderSnapshot(w io.Writer, s panel.Snapshot) {
	if len(s.Rows) > 0 {
		fmt.Fprintln(w, renderTable(s.Rows))
	}
	fmt.Fprintln(w, dimStyle.Render(footer(s)))
}

// RenderNote writes a notification line coloured by severity.
func RenderNote(w io.Writer, message string, severity panel.Severity) {
	style, ok := noteStyles[severity]
	if !ok {
		style = noteStyles[panel.SeverityInfo]
	}
	fmt.Fprintln(w, style.Render("["+severity.String()+"] "+message))
}

// RenderHelp lists the commands.
func RenderHelp(w io.Writer) {
	fmt.Fprintln(w, titleStyle.Render("Commands"))
	for _, name := range helpOrder {
		fmt.Fprintln(w, "  "+usage[name])
	}
}
