package catalog

import (
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/enums"
)

// EmptyResultMessage is shown when a loaded catalog has no matches.
const EmptyResultMessage = "No plans match the selected filters."

// FetchState describes where a catalog load stands. Only Idle, Loading,
// Succeeded and Failed implement it, so records exist only on success.
type FetchState interface {
	Status() enums.FetchStatus
	isFetchState()
}

type Idle struct{}

type Loading struct{}

// Succeeded carries the merged records. Degraded lists sources that failed
// while the other source still answered.
type Succeeded struct {
	Records   []Record
	FetchedAt time.Time
	Degraded  []enums.CatalogSource
}

// Query runs the filter, sort and paginate pipeline over the loaded records.
func (s Succeeded) Query(q Query) Page {
	return Run(s.Records, q)
}

// Failed carries a user-facing message and the underlying cause.
type Failed struct {
	Message string
	Err     error
}

func (Idle) Status() enums.FetchStatus      { return enums.FetchStatusIdle }
func (Loading) Status() enums.FetchStatus   { return enums.FetchStatusLoading }
func (Succeeded) Status() enums.FetchStatus { return enums.FetchStatusSucceeded }
func (Failed) Status() enums.FetchStatus    { return enums.FetchStatusFailed }

func (Idle) isFetchState()      {}
func (Loading) isFetchState()   {}
func (Succeeded) isFetchState() {}
func (Failed) isFetchState()    {}

// BrowseResult is what a browse page renders for a fetch state.
type BrowseResult struct {
	Status   enums.FetchStatus     `json:"status"`
	Page     *Page                 `json:"page,omitempty"`
	Message  string                `json:"message,omitempty"`
	Degraded []enums.CatalogSource `json:"degradedSources,omitempty"`
}

// Evaluate runs q against a succeeded state. Other states carry no records,
// so the result only reports their status and, for failures, the message.
func Evaluate(state FetchState, q Query) BrowseResult {
	switch s := state.(type) {
	case Succeeded:
		page := s.Query(q)
		result := BrowseResult{Status: s.Status(), Page: &page, Degraded: s.Degraded}
		if page.Empty {
			result.Message = EmptyResultMessage
		}
		return result
	case Failed:
		return BrowseResult{Status: s.Status(), Message: s.Message}
	case Loading:
		return BrowseResult{Status: s.Status()}
	default:
		return BrowseResult{Status: enums.FetchStatusIdle}
	}
}
