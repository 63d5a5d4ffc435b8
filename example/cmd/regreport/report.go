package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/confmetrics/regstats-go/regstats"
)

const reportTimeLayout = "2006-01-02 15:04:05"

// renderReport writes the registration statistics report: the latest totals
// with their status and sponsor breakdowns, the day-aligned comparison with
// the previous cycle, and the contact footer.
func renderReport(w io.Writer, dataset regstats.Dataset, comparisons []regstats.DayComparison) error {
	if err := renderHeadline(w, dataset); err != nil {
		return err
	}

	if err := renderComparisonTable(w, comparisons); err != nil {
		return err
	}

	return renderFooter(w, dataset)
}

// renderHeadline writes the summary lines for the latest snapshot. The status
// total counts the new, approved, and paid registrations; the sponsor total
// counts all tiers.
func renderHeadline(w io.Writer, dataset regstats.Dataset) error {
	last, found := dataset.Last()
	if !found {
		_, err := fmt.Fprintln(w, "No registration snapshots observed.")
		return err
	}

	statusTotal := last.New + last.Approved + last.Paid
	if _, err := fmt.Fprintf(w, "%d total regs (%d new, %d approved, %d paid).\n",
		statusTotal, last.New, last.Approved, last.Paid); err != nil {
		return err
	}

	sponsorTotal := last.Normal + last.Sponsor + last.Supersponsor
	_, err := fmt.Fprintf(w, "%d total regs (%d normal, %d sponsors, %d supersponsors).\n",
		sponsorTotal, last.Normal, last.Sponsor, last.Supersponsor)

	return err
}

// renderComparisonTable writes one row per day offset present in either
// cycle. A dash marks the side with no observation for that day; the delta
// column is only filled where both cycles have one.
func renderComparisonTable(w io.Writer, comparisons []regstats.DayComparison) error {
	if len(comparisons) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	if _, err := fmt.Fprintln(tw, "DAY\tCURRENT\tPREVIOUS\tDELTA\t"); err != nil {
		return err
	}

	for _, comparison := range comparisons {
		current := "-"
		if comparison.HasCurrent {
			current = strconv.Itoa(comparison.Current)
		}

		previous := "-"
		if comparison.HasPrevious {
			previous = strconv.Itoa(comparison.Previous)
		}

		delta := ""
		if comparison.HasCurrent && comparison.HasPrevious {
			delta = fmt.Sprintf("%+d", comparison.Current-comparison.Previous)
		}

		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n",
			comparison.DayIndex, current, previous, delta); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// renderFooter writes the last-update line, with the observation timestamp
// truncated to whole seconds, and the contact line.
func renderFooter(w io.Writer, dataset regstats.Dataset) error {
	last, found := dataset.Last()
	if !found {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\nLast update %s (UTC).\n",
		last.ObservedAt.UTC().Format(reportTimeLayout)); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, "For questions, contact @GermanCoyote.")

	return err
}
