package natal

// Location is the birth location carried into the output record.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Summary is the output record rendered as text and JSON. Field names
// define the JSON shape of the tool's output and must stay stable.
type Summary struct {
	Person     string       `json:"person"`
	UTC        string       `json:"dt_utc_iso"`
	Location   Location     `json:"location"`
	Sun        *Body        `json:"sun"`
	Moon       *Body        `json:"moon"`
	Aspects    []Aspect     `json:"aspects"`
	Elements   Distribution `json:"element_distribution"`
	Modalities Distribution `json:"modality_distribution"`
	Houses     []House      `json:"houses"`
}

// Summarize shapes an engine chart into the output record. Sun and moon
// are looked up tolerantly: a chart without them yields null fields, not
// an error.
func Summarize(chart *Chart, req Request) Summary {
	aspects := chart.Aspects
	if aspects == nil {
		aspects = []Aspect{}
	}
	houses := chart.Houses
	if houses == nil {
		houses = []House{}
	}

	return Summary{
		Person:     req.Person,
		UTC:        chart.UTC,
		Location:   Location{Lat: req.Lat, Lon: req.Lon},
		Sun:        chart.BodyByName("Sun"),
		Moon:       chart.BodyByName("Moon"),
		Aspects:    aspects,
		Elements:   chart.Elements,
		Modalities: chart.Modalities,
		Houses:     houses,
	}
}
