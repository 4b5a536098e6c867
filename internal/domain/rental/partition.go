package rental

import (
	"sort"
	"time"
)

// PartitionedBookings splits a user's bookings into active and past.
type PartitionedBookings struct {
	Active []*Booking
	Past   []*Booking
}

// Partition classifies bookings as active or past at the given instant.
//
// A booking is active when its status is pending or approved, or when its
// end date is strictly in the future and it is neither cancelled nor
// completed. Everything else is past. The status rule takes precedence over
// the date rule, so an approved booking whose end date has passed still
// reads as active until an admin resolves it.
//
// This is a read-time classification only; it never mutates stored status,
// so repeated calls are idempotent and depend only on the clock.
func Partition(bookings []*Booking, now time.Time) PartitionedBookings {
	var result PartitionedBookings
	for _, b := range bookings {
		if isActiveAt(b, now) {
			result.Active = append(result.Active, b)
		} else {
			result.Past = append(result.Past, b)
		}
	}
	sortByCreatedDesc(result.Active)
	sortByCreatedDesc(result.Past)
	return result
}

func isActiveAt(b *Booking, now time.Time) bool {
	if b.Status() == StatusPending || b.Status() == StatusApproved {
		return true
	}
	withinDuration := b.EndDate().After(now)
	return withinDuration && b.Status() != StatusCancelled && b.Status() != StatusCompleted
}

func sortByCreatedDesc(bookings []*Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt().After(bookings[j].CreatedAt())
	})
}
