// Package render writes the chart summary as human-readable text or
// indented JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/kodkafa/natal-cli/internal/natal"
)

// Text writes the human-readable chart summary. The aspect list is
// capped at maxAspects; everything else prints in full.
func Text(w io.Writer, s natal.Summary, maxAspects int) {
	fmt.Fprintf(w, "Person: %s\n", s.Person)
	fmt.Fprintf(w, "UTC:    %s\n", s.UTC)
	fmt.Fprintf(w, "Loc:    lat=%s, lon=%s\n", formatCoord(s.Location.Lat), formatCoord(s.Location.Lon))
	fmt.Fprintln(w)

	writeBody(w, "Sun: ", s.Sun)
	writeBody(w, "Moon:", s.Moon)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Distributions")
	fmt.Fprintf(w, "  %-10s %s\n", "element", formatDistribution(s.Elements))
	fmt.Fprintf(w, "  %-10s %s\n", "modality", formatDistribution(s.Modalities))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Aspects")
	aspects := s.Aspects
	if maxAspects >= 0 && len(aspects) > maxAspects {
		aspects = aspects[:maxAspects]
	}
	for _, a := range aspects {
		fmt.Fprintf(w, "  %s %s %s (orb: %s)\n", a.Body1, a.Symbol, a.Body2, a.Orb)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Houses")
	for _, h := range s.Houses {
		line := fmt.Sprintf("  House %d: %s %s", h.ID, h.DMS, h.Sign)
		if h.DeclinationDMS != nil && *h.DeclinationDMS != "" {
			line += fmt.Sprintf(" (decl: %s)", *h.DeclinationDMS)
		}
		fmt.Fprintln(w, line)
	}
}

// JSON writes the summary as an indented JSON object followed by a
// newline.
func JSON(w io.Writer, s natal.Summary) error {
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(payload)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// writeBody prints one luminary line plus its declination, or nothing
// when the engine did not place the body.
func writeBody(w io.Writer, label string, b *natal.Body) {
	if b == nil {
		return
	}
	houseStr := "House ?"
	if b.House != nil {
		houseStr = fmt.Sprintf("House %d", *b.House)
	}
	fmt.Fprintf(w, "%s %s (%s)\n", label, b.SignedDMS, houseStr)
	if b.DeclinationDMS != nil && *b.DeclinationDMS != "" {
		fmt.Fprintf(w, "      decl: %s\n", *b.DeclinationDMS)
	}
}

// formatDistribution renders a distribution sorted by count descending,
// name ascending on ties so output stays deterministic.
func formatDistribution(d natal.Distribution) string {
	if len(d) == 0 {
		return ""
	}

	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if d[names[i]] != d[names[j]] {
			return d[names[i]] > d[names[j]]
		}
		return names[i] < names[j]
	})

	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %d", name, d[name])
	}
	return out
}

// formatCoord prints a coordinate without trailing zeros.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
