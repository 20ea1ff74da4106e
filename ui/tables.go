package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/verdicthq/verdict-go/api"
	"github.com/verdicthq/verdict-go/result"
)

// PrintResultTable renders a finished run document as a console table: one
// row per suite, one per case and one per top-level step.
func PrintResultTable(out io.Writer, run *result.Run, status result.Status) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("Verdict Run Results (%s)", formatMillis(run.Duration)))

	// Configure columns
	t.AppendHeader(table.Row{
		"Type", "Name", "Duration", "Cases", "Passed", "Failed", "Skipped", "Status", "Failure",
	})

	// Set column configurations for better readability
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "Name", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Cases", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Failure", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	var total, passed, failed, skipped int

	// Print suites and their results
	for _, suite := range run.Suites {
		suitePassed, suiteFailed, suiteSkipped := suiteStats(suite)
		total += len(suite.Cases)
		passed += suitePassed
		failed += suiteFailed
		skipped += suiteSkipped

		// Suite row - show case counts but no "1" in Cases column
		t.AppendRow(table.Row{
			"Suite",
			suite.Name,
			formatMillis(suite.Duration),
			"-", // Don't count suite as a case
			suitePassed,
			suiteFailed,
			suiteSkipped,
			getResultString(suite.Status),
			"",
		})

		// Print cases in this suite
		for i, c := range suite.Cases {
			caseIsLast := i == len(suite.Cases)-1

			// Get a display name for the case
			displayName := c.Name
			if c.DisplayName != "" {
				displayName = c.DisplayName
			}

			// Display the case result
			t.AppendRow(table.Row{
				"Case",
				fmt.Sprintf("%s%s", BuildTreePrefix(1, caseIsLast, nil), displayName),
				formatMillis(c.Duration),
				"1", // Count actual case
				boolToInt(c.Status == result.StatusPassed),
				boolToInt(c.Status == result.StatusFailed),
				boolToInt(c.Status == result.StatusSkipped),
				getResultString(c.Status),
				failureMessage(c.Failure),
			})

			// Display top-level steps if present
			for j, s := range c.Steps {
				stepIsLast := j == len(c.Steps)-1
				prefix := BuildTreePrefix(2, stepIsLast, []bool{caseIsLast})

				t.AppendRow(table.Row{
					"",
					fmt.Sprintf("%s%s", prefix, s.Name),
					formatMillis(s.Duration),
					"-", // Don't count step as a case
					"",
					"",
					"",
					getResultString(s.Status),
					failureMessage(s.Failure),
				})
			}
		}

		t.AppendSeparator()
	}

	// Update the table style setting based on result status
	if status == result.StatusPassed {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else if status == result.StatusSkipped {
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	// Add summary footer
	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		formatMillis(run.Duration),
		total, // Show total number of actual cases
		passed,
		failed,
		skipped,
		getResultString(status),
		"",
	})

	t.Render()
}

// PrintRunStatusTable renders the live status of a run: one row per instance
// plus the per-case progress lines the backend reports for it.
func PrintRunStatusTable(out io.Writer, status *api.RunStatus) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("Run Status (%s)", status.RunID))

	t.AppendHeader(table.Row{
		"Instance", "Browser", "Device", "Location", "Status", "Progress", "Duration",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Instance", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Progress", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
	})

	for _, inst := range status.Instances {
		browser := inst.BrowserName
		if inst.BrowserVersion != "" {
			browser = fmt.Sprintf("%s %s", inst.BrowserName, inst.BrowserVersion)
		}

		t.AppendRow(table.Row{
			inst.ID,
			browser,
			inst.DeviceName,
			inst.LocationName,
			inst.Status,
			fmt.Sprintf("%d%%", inst.Progress),
			formatMillis(inst.RunningDuration),
		})

		// Per-case progress lines under the instance
		for i, cs := range inst.CasesStatus {
			prefix := BuildTreePrefix(1, i == len(inst.CasesStatus)-1, nil)
			t.AppendRow(table.Row{
				fmt.Sprintf("%s%s", prefix, cs.Name),
				"",
				"",
				"",
				fmt.Sprintf("%d passed, %d failed", cs.IterationsPassed, cs.IterationsFailed),
				fmt.Sprintf("%d%%", cs.Progress),
				"",
			})
		}
	}

	// Update the table style setting based on the reported run status
	switch {
	case strings.EqualFold(status.Status, "passed"):
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	case strings.EqualFold(status.Status, "failed"), strings.EqualFold(status.Status, "error"):
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	}

	// Add summary footer
	t.AppendFooter(table.Row{
		"RUN",
		"",
		"",
		"",
		status.Status,
		fmt.Sprintf("%d%%", status.Progress),
		formatMillis(status.Duration),
	})

	t.Render()
}

// suiteStats counts the case outcomes of a suite.
func suiteStats(s *result.Suite) (passed, failed, skipped int) {
	for _, c := range s.Cases {
		switch c.Status {
		case result.StatusPassed:
			passed++
		case result.StatusFailed:
			failed++
		case result.StatusSkipped:
			skipped++
		}
	}
	return passed, failed, skipped
}

// failureMessage extracts the most pertinent part of a failure for display.
// Remote documents can carry raw tool output, so escape codes are stripped.
func failureMessage(f *result.Failure) string {
	if f == nil {
		return ""
	}

	msg := stripansi.Strip(f.Message)

	// Limit to the first line or 80 chars
	if idx := strings.Index(msg, "\n"); idx != -1 {
		msg = msg[:idx]
	}
	if len(msg) > 80 {
		return msg[:70] + "..."
	}

	return msg
}

// Helper function to convert bool to int
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// getResultString returns a string representing the case result
func getResultString(status result.Status) string {
	switch status {
	case result.StatusPassed:
		return "✓ pass"
	case result.StatusSkipped:
		return "- skip"
	default:
		return "✗ fail"
	}
}

// Helper function to format millisecond durations to seconds with 1 decimal place
func formatMillis(ms int64) string {
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}
