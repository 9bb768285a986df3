package orders

import "time"

// isToday compares calendar dates in loc, not a 24h window.
func isToday(pickup, now time.Time, loc *time.Location) bool {
	py, pm, pd := pickup.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	return py == ny && pm == nm && pd == nd
}

func isInTheFuture(pickup, now time.Time) bool {
	return pickup.After(now)
}

// pickupPending reports whether an order can still be picked up. A zero
// pickup date never qualifies.
func pickupPending(pickup, now time.Time, loc *time.Location) bool {
	if pickup.IsZero() {
		return false
	}
	return isToday(pickup, now, loc) || isInTheFuture(pickup, now)
}
