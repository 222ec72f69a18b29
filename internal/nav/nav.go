// Package nav defines typed navigation intents. The calendar never
// mutates outer application state directly; it emits intents through an
// injected Navigator and the embedding shell decides what to do with
// them.
package nav

import "fmt"

// Page identifies a destination outside the calendar core.
type Page string

const (
	PageCalendar       Page = "calendar"
	PagePatientRecord  Page = "patient_record"
	PageProviderAgenda Page = "provider_agenda"
	PageBilling        Page = "billing"
)

// Params carries the arguments of a navigation intent, such as the
// patient or appointment the destination page should open on.
type Params map[string]string

// Intent is a single typed navigation request.
type Intent struct {
	Page   Page
	Params Params
}

func (i Intent) String() string {
	if len(i.Params) == 0 {
		return string(i.Page)
	}
	return fmt.Sprintf("%s %v", i.Page, i.Params)
}

// Navigator receives navigation intents from the calendar.
type Navigator interface {
	NavigateTo(page Page, params Params)
}

// Func adapts a function to the Navigator interface.
type Func func(page Page, params Params)

func (f Func) NavigateTo(page Page, params Params) { f(page, params) }

// Recorder is a Navigator that remembers every intent it receives.
// The standalone TUI uses it as its shell; tests inspect it.
type Recorder struct {
	Intents []Intent
}

func (r *Recorder) NavigateTo(page Page, params Params) {
	r.Intents = append(r.Intents, Intent{Page: page, Params: params})
}

// Last returns the most recent intent, if any.
func (r *Recorder) Last() (Intent, bool) {
	if len(r.Intents) == 0 {
		return Intent{}, false
	}
	return r.Intents[len(r.Intents)-1], true
}
