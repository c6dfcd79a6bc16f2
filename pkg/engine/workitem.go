package engine

// workItem is the unit a single worker executes without cooperation: a
// kernel applied to one slab of width*rows pixels. in and out reference
// disjoint (or identical, for in-place filters) slices of the parent
// context's image buffers; it never outlives its parent workContext.
type workItem struct {
	in, out  []byte
	width    int
	rows     int
	channels int
	kernel   kernelFunc
}

func (w workItem) run() {
	w.kernel(w.in, w.out, w.width, w.rows, w.channels)
}

// buildItems partitions input/output into disjoint row-slabs of
// RowsPerItem rows each (the last slab absorbing height%RowsPerItem),
// pairing each with the kernel for kind. The partition is a pure slice
// split: item i's in/out sub-slices never overlap another item's, so
// workers can write their assigned output range without synchronization.
func buildItems(input, output ImageView, kind Kind) ([]workItem, error) {
	kernel, ok := kernelFor(kind)
	if !ok {
		return nil, ErrUnsupportedKind(kind)
	}

	count := input.Height / RowsPerItem
	if count < 1 {
		count = 1
	}
	remainder := input.Height % RowsPerItem
	if count == 1 {
		remainder = 0 // the single item already spans the whole image
	}

	rowsPerItem := RowsPerItem
	if count == 1 {
		rowsPerItem = input.Height
	}

	items := make([]workItem, count)
	stride := input.stride()
	for i := 0; i < count; i++ {
		rows := rowsPerItem
		if i == count-1 {
			rows += remainder
		}
		offset := i * rowsPerItem * stride
		end := offset + rows*stride
		items[i] = workItem{
			in:       input.Pixels[offset:end],
			out:      output.Pixels[offset:end],
			width:    input.Width,
			rows:     rows,
			channels: input.Channels,
			kernel:   kernel,
		}
	}
	return items, nil
}
