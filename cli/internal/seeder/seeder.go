// Package seeder populates a records service with realistic synthetic
// offices, lines, enterprises, and history records for development and
// demos.
package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/dialdesk-systems/dialdesk-stack/cli/internal/client"
)

// Runner drives the seeding run against an authenticated API client.
type Runner struct {
	Config *Config
	Client *client.Client

	rand *rand.Rand
}

// Stats summarizes what a seeding run created.
type Stats struct {
	Offices     int
	Lines       int
	Enterprises int
	Records     int
	Failed      int
}

func NewRunner(config *Config, c *client.Client) *Runner {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)

	return &Runner{
		Config: config,
		Client: c,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// Run creates the configured number of offices, each with lines and
// enterprises, and fills every enterprise with history records spread over
// the configured time window. Record creation failures are counted, not
// fatal; structural failures (office, enterprise) abort the run.
func (r *Runner) Run() (*Stats, error) {
	stats := &Stats{}

	for i := 0; i < r.Config.Offices; i++ {
		office, err := r.Client.CreateOffice(officeName(i), "")
		if err != nil {
			return stats, fmt.Errorf("failed to create office: %w", err)
		}
		stats.Offices++

		for j := 0; j < r.Config.LinesPerOffice; j++ {
			if _, err := r.Client.CreateLine(office.ID, lineName(j), gofakeit.Phone()); err != nil {
				stats.Failed++
				continue
			}
			stats.Lines++
		}

		for j := 0; j < r.Config.EnterprisesPerOffice; j++ {
			ent, err := r.Client.CreateEnterprise(office.ID, gofakeit.Company())
			if err != nil {
				return stats, fmt.Errorf("failed to create enterprise: %w", err)
			}
			stats.Enterprises++

			created, failed := r.seedHistory(ent.ID)
			stats.Records += created
			stats.Failed += failed
		}
	}

	return stats, nil
}

// seedHistory fills one enterprise with a mix of all four record kinds.
// Roughly one in five v2 records gets a duplicate leg sharing its session
// ID, which the history feed is expected to collapse.
func (r *Runner) seedHistory(enterpriseID string) (created, failed int) {
	for i := 0; i < r.Config.RecordsPerEnterprise; i++ {
		createdAt := r.spreadTimestamp()

		var records []*client.IngestRecord
		switch r.rand.Intn(4) {
		case 0:
			records = append(records, &client.IngestRecord{Call: r.fakeCall(createdAt)})
		case 1:
			records = append(records, &client.IngestRecord{Message: r.fakeMessage(createdAt)})
		case 2:
			sessionID := "sess-" + gofakeit.UUID()[:8]
			records = append(records, &client.IngestRecord{CallV2: r.fakeCallSession(sessionID, createdAt)})
			if r.rand.Intn(5) == 0 {
				records = append(records, &client.IngestRecord{CallV2: r.fakeCallSession(sessionID, createdAt.Add(time.Second))})
			}
		default:
			sessionID := "sess-" + gofakeit.UUID()[:8]
			records = append(records, &client.IngestRecord{MessageV2: r.fakeMessageSession(sessionID, createdAt)})
			if r.rand.Intn(5) == 0 {
				records = append(records, &client.IngestRecord{MessageV2: r.fakeMessageSession(sessionID, createdAt.Add(time.Second))})
			}
		}

		for _, rec := range records {
			if _, err := r.Client.Ingest(enterpriseID, rec); err != nil {
				failed++
				continue
			}
			created++
		}
	}
	return created, failed
}

// spreadTimestamp picks a jittered creation time inside the configured
// window ending now.
func (r *Runner) spreadTimestamp() time.Time {
	if r.Config.TimeSpread <= 0 {
		return time.Now().UTC()
	}
	offset := time.Duration(r.rand.Int63n(int64(r.Config.TimeSpread)))
	return time.Now().UTC().Add(-offset)
}

func (r *Runner) fakeCall(createdAt time.Time) map[string]interface{} {
	statuses := []string{"completed", "completed", "completed", "missed", "voicemail"}
	return map[string]interface{}{
		"caller":           gofakeit.Phone(),
		"callee":           gofakeit.Phone(),
		"duration_seconds": r.rand.Intn(1800),
		"status":           statuses[r.rand.Intn(len(statuses))],
		"created_at":       createdAt.Format(time.RFC3339Nano),
	}
}

func (r *Runner) fakeMessage(createdAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"sender":     gofakeit.Phone(),
		"recipient":  gofakeit.Phone(),
		"body":       gofakeit.Sentence(8),
		"created_at": createdAt.Format(time.RFC3339Nano),
	}
}

func (r *Runner) fakeCallSession(sessionID string, createdAt time.Time) map[string]interface{} {
	directions := []string{"inbound", "outbound"}
	return map[string]interface{}{
		"session_id": sessionID,
		"caller":     gofakeit.Phone(),
		"callee":     gofakeit.Phone(),
		"direction":  directions[r.rand.Intn(len(directions))],
		"created_at": createdAt.Format(time.RFC3339Nano),
	}
}

func (r *Runner) fakeMessageSession(sessionID string, createdAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionID,
		"sender":     gofakeit.Phone(),
		"recipient":  gofakeit.Phone(),
		"body":       gofakeit.Sentence(8),
		"created_at": createdAt.Format(time.RFC3339Nano),
	}
}

func officeName(i int) string {
	return fmt.Sprintf("%s office %d", gofakeit.City(), i+1)
}

func lineName(i int) string {
	names := []string{"reception", "billing", "support", "sales", "dispatch", "after-hours", "escalations", "intake"}
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("line-%d", i+1)
}
