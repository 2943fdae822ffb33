package enums

// FetchStatus is the wire label for a catalog fetch state.
type FetchStatus string

const (
	FetchStatusIdle      FetchStatus = "idle"
	FetchStatusLoading   FetchStatus = "loading"
	FetchStatusSucceeded FetchStatus = "succeeded"
	FetchStatusFailed    FetchStatus = "failed"
)

// String implements fmt.Stringer.
func (f FetchStatus) String() string {
	return string(f)
}
