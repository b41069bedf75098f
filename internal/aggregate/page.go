package aggregate

import "strconv"

const MaxPageSize = 1000

func Paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

// ClampLimitOffset normalises a window over n rows. A non-positive limit
// means "everything", capped at MaxPageSize.
func ClampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset > n {
		offset = n
	}
	return limit, offset
}

func AtoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
