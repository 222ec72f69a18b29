// Package report aggregates scheduled sessions into per-provider and
// overall weekly totals for the CLI.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/dateutil"
)

// Totals accumulates session counts and money for one provider.
type Totals struct {
	ProviderID   string
	ProviderName string
	Sessions     int
	Completed    int
	Canceled     int
	NoShows      int
	Value        float64 // fees of non-canceled sessions
	PaidValue    float64 // portion already collected
}

// WeekReport holds one week's sessions and their aggregates.
type WeekReport struct {
	Start        time.Time
	End          time.Time
	Appointments []*clinic.Appointment
	Providers    []Totals
	Overall      Totals
}

// Summarize aggregates the given appointments. Provider totals are
// ordered by name, with providers unknown to the roster appended by id.
func Summarize(r dateutil.DateRange, appts []*clinic.Appointment, providers []*clinic.Provider) *WeekReport {
	names := make(map[string]string, len(providers))
	for _, p := range providers {
		names[p.ID] = p.Name
	}

	byProvider := make(map[string]*Totals)
	overall := Totals{ProviderName: "Total"}

	for _, a := range appts {
		t := byProvider[a.ProviderID]
		if t == nil {
			t = &Totals{ProviderID: a.ProviderID, ProviderName: names[a.ProviderID]}
			if t.ProviderName == "" {
				t.ProviderName = a.ProviderID
			}
			byProvider[a.ProviderID] = t
		}
		accumulate(t, a)
		accumulate(&overall, a)
	}

	totals := make([]Totals, 0, len(byProvider))
	for _, t := range byProvider {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].ProviderName != totals[j].ProviderName {
			return totals[i].ProviderName < totals[j].ProviderName
		}
		return totals[i].ProviderID < totals[j].ProviderID
	})

	return &WeekReport{
		Start:        r.Start,
		End:          r.End,
		Appointments: appts,
		Providers:    totals,
		Overall:      overall,
	}
}

func accumulate(t *Totals, a *clinic.Appointment) {
	t.Sessions++
	switch a.Status {
	case clinic.StatusCompleted:
		t.Completed++
	case clinic.StatusCanceled:
		t.Canceled++
	case clinic.StatusNoShow:
		t.NoShows++
	}
	if a.Status != clinic.StatusCanceled {
		t.Value += a.Value
		if a.PaymentStatus == clinic.PaymentPaid {
			t.PaidValue += a.Value
		}
	}
}

// BuildWeek loads the week containing the reference date and summarizes it.
func BuildWeek(ctx context.Context, repo clinic.Repository, ref time.Time, weekStart time.Weekday) (*WeekReport, error) {
	if ref.IsZero() {
		ref = time.Now()
	}
	r := dateutil.WeekRange(ref, weekStart)

	appts, err := repo.ListByDateRange(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("fetching sessions: %w", err)
	}
	providers, err := repo.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching providers: %w", err)
	}

	return Summarize(r, appts, providers), nil
}
