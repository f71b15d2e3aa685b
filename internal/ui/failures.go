package ui

import (
	"fmt"
	"strings"

	"caserun/internal/domain"
	"caserun/internal/storage"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// FailureViewer displays the failures of a run in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(st storage.Storage) *FailureViewer {
	return &FailureViewer{storage: st}
}

// View displays failures; R toggles the resolved mark, which is saved back to storage.
func (fv *FailureViewer) View(output *domain.RunOutput) error {
	if len(output.Failures) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	for i, failure := range output.Failures {
		list.AddItem(listItemText(failure, i), "", 0, nil)
	}

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(
			" Run %s: %d failures, %d unresolved | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, Ctrl+C exit ",
			output.Meta.RunID, len(output.Failures), countUnresolved(output.Failures)))
	}
	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(output.Failures) {
			detailsView.SetText(FormatFailureDetails(output, output.Failures[index]))
		}
	}

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(output.Failures) {
					output.Failures[index].Resolved = !output.Failures[index].Resolved
					list.SetItemText(index, listItemText(output.Failures[index], index), "")
					updateHeader()
					if err := fv.storage.SaveOutput(output); err != nil {
						detailsView.SetText(fmt.Sprintf("[red]failed to save resolved status: %v[white]", err))
					}
				}
				return nil
			}
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	updateHeader()
	updateDetails()

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(detailsView, 0, 2, false)
	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func listItemText(failure domain.Failure, index int) string {
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, failure.Name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, failure.Name)
}

func countUnresolved(failures []domain.Failure) int {
	count := 0
	for _, f := range failures {
		if !f.Resolved {
			count++
		}
	}
	return count
}

// FormatFailureDetails formats a failure for display using tview color tags
func FormatFailureDetails(output *domain.RunOutput, failure domain.Failure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[red]✗ Case: %s[white]\n\n", tview.Escape(failure.Name))
	fmt.Fprintf(&b, "[yellow]Reason:[white]\n%s\n", tview.Escape(failure.Reason))

	for _, r := range output.Results {
		if r.Name == failure.Name {
			fmt.Fprintf(&b, "\n[cyan]Duration:[white] %s\n", r.Duration)
			break
		}
	}

	var attachments []domain.AttachmentRecord
	for _, a := range output.Attachments {
		if a.Case == failure.Name {
			attachments = append(attachments, a)
		}
	}
	if len(attachments) > 0 {
		b.WriteString("\n[yellow]Attachments:[white]\n")
		for _, a := range attachments {
			fmt.Fprintf(&b, "  %s\n", tview.Escape(a.String()))
			if a.Path != "" {
				fmt.Fprintf(&b, "    [gray]%s[white]\n", tview.Escape(a.Path))
			}
		}
	}
	return b.String()
}

var _ Viewer = (*FailureViewer)(nil)
