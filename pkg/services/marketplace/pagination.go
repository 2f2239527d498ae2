package marketplace

import "context"

// fetchAllOffset drains a (limit, offset) paginated endpoint. Pages are
// requested strictly in sequence; the scan stops on an empty or short page.
func fetchAllOffset[T any](
	ctx context.Context,
	limit int,
	page func(ctx context.Context, limit, offset int) ([]T, error),
) ([]T, error) {
	var out []T
	for offset := 0; ; {
		batch, err := page(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < limit {
			return out, nil
		}
		offset += len(batch)
	}
}

// fetchAllCursor drains a (limit, cursor) paginated endpoint. Besides the
// empty/short page conditions it stops when the returned cursor is empty or
// unchanged, so a buggy upstream that keeps returning the same non-empty
// cursor cannot loop forever.
func fetchAllCursor[T any](
	ctx context.Context,
	limit int,
	page func(ctx context.Context, limit int, cursor string) ([]T, string, error),
) ([]T, error) {
	var out []T
	cursor := ""
	for {
		batch, next, err := page(ctx, limit, cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < limit || next == "" || next == cursor {
			return out, nil
		}
		cursor = next
	}
}
