package analysis

import (
	"strconv"

	"github.com/couchcryptid/weather-events-insights/internal/dataset"
)

// FeatureNames lists the classifier's predictor columns, in sample order.
var FeatureNames = []string{"event_type", "time_zone", "state", "start_month"}

// SeveritySamples builds classifier samples from joined events: four
// categorical predictors (event type, time zone, station state, start month)
// with the severity label as the class. Events with an unranked severity are
// excluded — UNK and Other are missing labels, not a fifth class.
func SeveritySamples(joined []dataset.JoinedEvent) []Sample {
	samples := make([]Sample, 0, len(joined))
	for i := range joined {
		ev := &joined[i]
		if !ev.Severity.Ranked() {
			continue
		}
		samples = append(samples, Sample{
			Features: []string{
				ev.EventType,
				ev.TimeZone,
				ev.Station.State,
				strconv.Itoa(int(ev.StartTime.Month())),
			},
			Label: string(ev.Severity),
		})
	}
	return samples
}
