package leave

import "time"

// AdmissionPolicy caps how many approved, date-overlapping requests may
// exist at once across the whole company.
type AdmissionPolicy struct {
	MaxConcurrentLeaves int
}

// Admit reports whether a request may join a window that already holds
// overlappingApproved approved requests. The candidate request itself is
// never part of the count.
func (p AdmissionPolicy) Admit(overlappingApproved int) bool {
	return overlappingApproved < p.MaxConcurrentLeaves
}

// CancellationPolicy closes the cancellation window when the start date is
// too near.
type CancellationPolicy struct {
	LeadDays int
}

// CanCancel reports whether an approved request starting on startDate may
// still be cancelled on the day of now.
func (p CancellationPolicy) CanCancel(now, startDate time.Time) bool {
	return daysBetween(now, startDate) >= p.LeadDays
}

// daysBetween returns whole calendar days from a to b, negative when b is
// before a.
func daysBetween(a, b time.Time) int {
	a = truncateToDay(a)
	b = truncateToDay(b)
	return int(b.Sub(a).Hours() / 24)
}
