package pairing

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/walink/whatsapp-link-cli/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(session domain.Session, opts RenderOptions, s styles) string {
	lines := []string{
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.title.Render(fmt.Sprintf("Instance %s", session.InstanceID)),
			"  ",
			phaseBadge(session.Phase, s),
		),
	}

	switch session.Phase {
	case domain.PhaseAwaitingScan:
		lines = append(lines, artifactLines(session.Artifact, s)...)
	case domain.PhaseConnecting:
		lines = append(lines, s.detail.Render("Scan accepted, waiting for the bridge to settle."))
	case domain.PhaseLinked:
		lines = append(lines, identityLine(session.Identity, s))
	case domain.PhaseExpired:
		lines = append(lines, s.detail.Render("Pairing code expired. Run `wl pair refresh` to request a new one."))
	case domain.PhaseFailed:
		lines = append(lines, failureLine(session.LastError, s))
	}

	if meta := metaLine(session, opts.Now); meta != "" {
		lines = append(lines, s.meta.Render(meta))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func phaseBadge(phase domain.Phase, s styles) string {
	label := strings.ToUpper(strings.ReplaceAll(string(phase), "_", " "))

	switch {
	case phase.Active():
		return s.phaseActive.Render(label)
	case phase == domain.PhaseLinked:
		return s.phaseLinked.Render(label)
	case phase == domain.PhaseExpired:
		return s.phaseExpired.Render(label)
	case phase == domain.PhaseFailed:
		return s.phaseFailed.Render(label)
	default:
		return s.phaseNeutral.Render(label)
	}
}

func artifactLines(artifact *domain.Artifact, s styles) []string {
	if artifact == nil {
		return []string{s.detail.Render("Waiting for a pairing code from the bridge.")}
	}

	lines := make([]string, 0, 3)
	if artifact.Type == domain.ArtifactTypeImage {
		lines = append(lines, s.detail.Render("Scan the QR code with your phone: Settings > Linked Devices > Link a Device."))
	}
	if code := artifact.PairingCode; code != "" {
		lines = append(lines,
			s.detail.Render("Or enter this code on your phone:"),
			s.codeBox.Render(code),
		)
	}
	if len(lines) == 0 {
		lines = append(lines, s.detail.Render("A pairing payload is ready; scan it from the bridge UI."))
	}

	return lines
}

func identityLine(identity *domain.LinkedIdentity, s styles) string {
	if identity == nil {
		return s.detail.Render("Device linked.")
	}

	name := identity.DisplayName
	if name == "" {
		name = identity.AccountNumber
	}
	if identity.AccountNumber != "" && name != identity.AccountNumber {
		return s.detail.Render("Linked as ") + s.identity.Render(fmt.Sprintf("%s (+%s)", name, identity.AccountNumber))
	}

	return s.detail.Render("Linked as ") + s.identity.Render(name)
}

func failureLine(sessionErr *domain.SessionError, s styles) string {
	if sessionErr == nil {
		return s.warning.Render("Pairing failed.")
	}

	return s.warning.Render(fmt.Sprintf("Pairing failed: %s", sessionErr.Message))
}

func metaLine(session domain.Session, now time.Time) string {
	parts := make([]string, 0, 2)
	if !session.AttemptStartedAt.IsZero() {
		parts = append(parts, "started "+formatTimestamp(session.AttemptStartedAt, now))
	}
	if !session.LastPolledAt.IsZero() {
		parts = append(parts, "last checked "+formatTimestamp(session.LastPolledAt, now))
	}

	return strings.Join(parts, ", ")
}

func formatTimestamp(value, now time.Time) string {
	if now.IsZero() {
		return value.Format(time.RFC3339)
	}

	elapsed := now.Sub(value)
	switch {
	case elapsed < 0:
		return value.Format(time.RFC3339)
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds ago", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	default:
		return value.Format("15:04 on 02 Jan")
	}
}
