package store

// UnitCost is one row of the per-account cost table.
type UnitCost struct {
	SKU  int64
	Cost float64
}

// TrackedSku is one row of the per-account tracked SKU table.
type TrackedSku struct {
	SKU int64
}
