package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	urgentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func writeOutput(w io.Writer, text string) error {
	if _, err := io.WriteString(w, text); err != nil {
		return errs.Wrap(err, "write output")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func renderJob(job domain.Job) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Job " + job.JobID))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Title: %s\n", job.Title)
	fmt.Fprintf(&b, "Customer: %s\n", firstNonEmpty(job.CustomerName, "-"))
	fmt.Fprintf(&b, "Priority: %s\n", renderPriority(job.Priority))
	fmt.Fprintf(&b, "Technician: %s\n", firstNonEmpty(job.TechnicianID, "-"))
	fmt.Fprintf(&b, "EquipmentIntake: %t\n", job.EquipmentIntake)
	fmt.Fprintf(&b, "EstimatedCompletion: %s\n", formatTime(job.EstimatedCompletionDate))
	return b.String()
}

func renderPriority(p domain.Priority) string {
	if p == domain.PriorityUrgent {
		return urgentStyle.Render(string(p))
	}
	return string(p)
}

func renderStatus(st domain.EquipmentStatus) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Job " + st.JobID))
	b.WriteString(" ")
	b.WriteString(okStyle.Render(string(st.CurrentStatus)))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Reached"))
	b.WriteString("\n")
	for _, s := range domain.AllStatuses() {
		at := st.Timestamps.ReachedAt(s)
		line := fmt.Sprintf("  %-18s %s", s, formatTime(at))
		if at == nil {
			line = dimStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("version=%d updated=%s", st.Version, formatTime(&st.UpdatedAt))))
	b.WriteString("\n")
	return b.String()
}

func renderHistory(jobID string, entries []domain.HistoryEntry) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History " + jobID))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("- no history"))
		b.WriteString("\n")
		return b.String()
	}
	for _, e := range entries {
		from := firstNonEmpty(string(e.FromStatus), "(new)")
		fmt.Fprintf(&b, "%s  %s -> %s  by=%s", formatTime(&e.ChangedAt), from, e.ToStatus, e.ChangedBy)
		if e.Notes != "" {
			b.WriteString(dimStyle.Render("  " + e.Notes))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderQueue(entries []domain.QueueEntry) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Queue"))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("- queue is empty"))
		b.WriteString("\n")
		return b.String()
	}
	for i, e := range entries {
		fmt.Fprintf(
			&b,
			"%2d. %s [%s] %s waiting=%dd title=%s customer=%s\n",
			i+1,
			e.JobID,
			renderPriority(e.Priority),
			e.Status,
			e.DaysWaiting,
			e.Title,
			firstNonEmpty(e.CustomerName, "-"),
		)
	}
	return b.String()
}

func renderMetrics(m domain.Metrics) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Metrics %s .. %s", m.DateFrom.Format(time.DateOnly), m.DateTo.Format(time.DateOnly))))
	b.WriteString("\n")
	fmt.Fprintf(&b, "TotalJobs: %d\n", m.TotalJobs)
	fmt.Fprintf(&b, "CompletedJobs: %d\n", m.CompletedJobs)
	fmt.Fprintf(&b, "AverageRepairTimeHours: %.2f\n", m.AverageRepairTimeHours)
	fmt.Fprintf(&b, "OnTimeCompletionRate: %.1f%%\n", m.OnTimeCompletionRate)
	fmt.Fprintf(&b, "ActiveJobs: %d\n", m.ActiveJobs)
	fmt.Fprintf(&b, "CapacityUtilization: %.1f%%\n", m.CurrentCapacityUtilization)

	b.WriteString(sectionStyle.Render("By status"))
	b.WriteString("\n")
	for _, s := range domain.AllStatuses() {
		fmt.Fprintf(&b, "  %-18s %d\n", s, m.JobsByStatus[s])
	}

	b.WriteString(sectionStyle.Render("Per technician"))
	b.WriteString("\n")
	if len(m.JobsPerTechnician) == 0 {
		b.WriteString(dimStyle.Render("  - none"))
		b.WriteString("\n")
	}
	for _, l := range m.JobsPerTechnician {
		fmt.Fprintf(&b, "  %s (%s) active=%d\n", l.TechnicianID, firstNonEmpty(l.Name, "-"), l.ActiveJobs)
	}
	return b.String()
}

func renderSettings(s domain.Settings) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings " + s.CompanyID))
	b.WriteString("\n")
	fmt.Fprintf(&b, "MaxConcurrentJobs: %d\n", s.MaxConcurrentJobs)
	fmt.Fprintf(&b, "MaxJobsPerTechnician: %d\n", s.MaxJobsPerTechnician)
	fmt.Fprintf(&b, "DefaultEstimatedRepairHours: %.1f\n", s.DefaultEstimatedRepairHours)
	fmt.Fprintf(&b, "DefaultPickupDeliveryFee: %.2f\n", s.DefaultPickupDeliveryFee)
	fmt.Fprintf(&b, "Notify: intake=%t ready=%t status_change=%t\n", s.NotifyOnIntake, s.NotifyOnReady, s.NotifyOnStatusChange)
	fmt.Fprintf(&b, "Contact: %s %s %s\n", firstNonEmpty(s.Contact.Name, "-"), firstNonEmpty(s.Contact.Phone, "-"), firstNonEmpty(s.Contact.Email, "-"))
	b.WriteString(sectionStyle.Render("Templates"))
	b.WriteString("\n")
	for _, key := range []string{domain.TemplateIntake, domain.TemplateReady, domain.TemplateStatusChange} {
		fmt.Fprintf(&b, "  %s: %s\n", key, dimStyle.Render(s.Template(key)))
	}
	return b.String()
}
