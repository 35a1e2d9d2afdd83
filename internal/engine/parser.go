package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kodkafa/natal-cli/internal/natal"
)

// Sentinel errors
var (
	ErrMalformedChart = errors.New("malformed engine chart document")
)

// chartDocument is the wire shape of the engine's JSON output.
type chartDocument struct {
	UTC        string             `json:"dt_utc_iso"`
	Bodies     []natal.Body       `json:"bodies"`
	Houses     []natal.House      `json:"houses"`
	Aspects    []natal.Aspect     `json:"aspects"`
	Elements   natal.Distribution `json:"element_distribution"`
	Modalities natal.Distribution `json:"modality_distribution"`
}

// parseChart decodes the engine's chart JSON into the domain model.
func parseChart(output []byte) (*natal.Chart, error) {
	var doc chartDocument
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedChart, err)
	}

	if doc.UTC == "" {
		return nil, fmt.Errorf("%w: missing dt_utc_iso", ErrMalformedChart)
	}
	for _, h := range doc.Houses {
		if h.ID < 1 || h.ID > 12 {
			return nil, fmt.Errorf("%w: house id %d out of range", ErrMalformedChart, h.ID)
		}
	}

	return &natal.Chart{
		UTC:        doc.UTC,
		Bodies:     doc.Bodies,
		Houses:     doc.Houses,
		Aspects:    doc.Aspects,
		Elements:   doc.Elements,
		Modalities: doc.Modalities,
	}, nil
}
