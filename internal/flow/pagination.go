package flow

// Page sizes for the attribute pickers and the admin view-all list.
const (
	PickerPageSize    = 10
	AdminListPageSize = 15
)

// PageWindow clamps a zero-based page request against a list of count items
// and returns the slice bounds for the resulting page. An empty list still
// has one (empty) page.
func PageWindow(count, size, page int) (start, end, clamped, totalPages int) {
	if size <= 0 {
		size = 1
	}

	totalPages = (count + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	clamped = page
	if clamped < 0 {
		clamped = 0
	}
	if clamped > totalPages-1 {
		clamped = totalPages - 1
	}

	start = clamped * size
	end = start + size
	if end > count {
		end = count
	}

	return start, end, clamped, totalPages
}
