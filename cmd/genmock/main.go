// Command genmock generates a deterministic synthetic weather-events CSV for
// test fixtures. It runs the actual cleaning code over the generated rows and
// prints aggregate counts so test assertions can be updated from real
// behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out internal/dataset/testdata/events_mock.csv -rows 500 -seed 7
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/jszwec/csvutil"

	"github.com/couchcryptid/weather-events-insights/internal/dataset"
	"github.com/couchcryptid/weather-events-insights/internal/domain"
)

var baseDate = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// mockStation is one synthetic reporting station.
type mockStation struct {
	code, city, county, state, zip, zone string
	lat, lng                             float64
}

var stations = []mockStation{
	{"KATL", "Atlanta", "Fulton", "GA", "30320", "US/Eastern", 33.6407, -84.4277},
	{"KORD", "Chicago", "Cook", "IL", "60666", "US/Central", 41.9742, -87.9073},
	{"KDFW", "Dallas-Fort Worth", "Tarrant", "TX", "75261", "US/Central", 32.8998, -97.0403},
	{"KDEN", "Denver", "Denver", "CO", "80249", "US/Mountain", 39.8561, -104.6737},
	{"KSEA", "Seattle", "King", "WA", "98158", "US/Pacific", 47.4502, -122.3088},
	{"KBOS", "Boston", "Suffolk", "MA", "2128", "US/Eastern", 42.3656, -71.0096}, // short zip, exercises padding
	{"KMSP", "Minneapolis", "Hennepin", "MN", "55450.0", "US/Central", 44.8848, -93.2223},
	{"KPHX", "Phoenix", "Maricopa", "AZ", "85034", "US/Mountain", 33.4373, -112.0078},
}

var eventTypes = []string{"Rain", "Rain", "Rain", "Snow", "Snow", "Fog", "Cold", "Storm", "Hail", "Precipitation"}

var severities = []string{"Light", "Light", "Light", "Moderate", "Moderate", "Heavy", "Severe", "UNK", "Other"}

// severityHours gives each severity a distinct duration regime so the mock
// data has signal for the z-test and the classifier.
var severityHours = map[string]float64{
	"Light":    1,
	"Moderate": 3,
	"Heavy":    6,
	"Severe":   10,
	"UNK":      2,
	"Other":    2,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the CSV fixture")
	rows := flag.Int("rows", 500, "number of data rows to generate")
	seed := flag.Int64("seed", 7, "RNG seed")
	defects := flag.Int("defects", 0, "number of deliberately broken rows to append")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))
	records := generate(rng, *rows)
	records = append(records, broken(*defects)...)

	data, err := csvutil.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	log.Printf("wrote %d rows (+%d defects): %s", *rows, *defects, *out)

	printStats(records)
	return nil
}

func generate(rng *rand.Rand, n int) []domain.RawEventRecord {
	records := make([]domain.RawEventRecord, 0, n)
	for i := 0; i < n; i++ {
		st := stations[rng.Intn(len(stations))]
		severity := severities[rng.Intn(len(severities))]

		start := baseDate.Add(time.Duration(rng.Intn(365*24)) * time.Hour)
		hours := severityHours[severity] * (0.5 + rng.Float64())
		end := start.Add(time.Duration(hours * float64(time.Hour)))

		records = append(records, domain.RawEventRecord{
			EventID:     fmt.Sprintf("W-%d", i+1),
			Type:        eventTypes[rng.Intn(len(eventTypes))],
			Severity:    severity,
			StartTime:   start.Format("2006-01-02 15:04:05"),
			EndTime:     end.Format("2006-01-02 15:04:05"),
			TimeZone:    st.zone,
			AirportCode: st.code,
			LocationLat: fmt.Sprintf("%.4f", st.lat),
			LocationLng: fmt.Sprintf("%.4f", st.lng),
			City:        st.city,
			County:      st.county,
			State:       st.state,
			ZipCode:     st.zip,
		})
	}
	return records
}

// broken emits rows the cleaner must reject, cycling through the failure modes.
func broken(n int) []domain.RawEventRecord {
	defects := []domain.RawEventRecord{
		{EventID: "BAD-TYPE", Type: "Volcano", Severity: "Light", StartTime: "2023-06-01 00:00:00", EndTime: "2023-06-01 01:00:00", AirportCode: "KATL"},
		{EventID: "BAD-TIME", Type: "Rain", Severity: "Light", StartTime: "not a time", EndTime: "2023-06-01 01:00:00", AirportCode: "KATL"},
		{EventID: "BAD-RANGE", Type: "Rain", Severity: "Light", StartTime: "2023-06-01 02:00:00", EndTime: "2023-06-01 01:00:00", AirportCode: "KATL"},
		{EventID: "BAD-STATION", Type: "Rain", Severity: "Light", StartTime: "2023-06-01 00:00:00", EndTime: "2023-06-01 01:00:00", AirportCode: ""},
	}
	out := make([]domain.RawEventRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, defects[i%len(defects)])
	}
	return out
}

func printStats(records []domain.RawEventRecord) {
	// Fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.January, 2, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	var events []domain.WeatherEvent
	var stationRows []domain.Station
	rejected := 0
	for _, rec := range records {
		event, station, err := domain.CleanRecord(rec)
		if err != nil {
			rejected++
			continue
		}
		events = append(events, event)
		stationRows = append(stationRows, station)
	}

	split := dataset.SplitStations(stationRows)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Rows: %d, cleaned: %d, rejected: %d\n", len(records), len(events), rejected)
	fmt.Printf("Stations: %d unique (%d duplicate rows, %d conflicts)\n",
		len(split.Stations), split.Duplicates, split.Conflicts)

	printCounts("By type", dataset.CountByType(events))

	sevCounts := map[string]int{}
	for i := range events {
		sevCounts[string(events[i].Severity)]++
	}
	printCounts("By severity", sevCounts)

	durations := dataset.DurationsHours(events)
	var sum float64
	for _, d := range durations {
		sum += d
	}
	if len(durations) > 0 {
		fmt.Printf("Mean duration: %.3f h\n", sum/float64(len(durations)))
	}
}

func printCounts(label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s: ", label)
	for _, k := range keys {
		fmt.Printf("%s=%d ", k, counts[k])
	}
	fmt.Println()
}
