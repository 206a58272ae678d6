package catalog

// Record and collection limits.
const (
	// MaxProducts is the capacity of a catalog and of the product file.
	MaxProducts = 200

	// MaxNameBytes bounds a product name (80-byte field minus terminator).
	MaxNameBytes = 79

	// MaxDescriptionBytes bounds the ingredient summary (512-byte field minus terminator).
	MaxDescriptionBytes = 511

	// MaxIngredients bounds the number of ingredients in one recipe.
	MaxIngredients = 100
)

// RecordVersion is the version of the record schema written by this package.
const RecordVersion = 1
