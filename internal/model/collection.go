package model

// Collection identifies one of the remote tables mirrored by the local cache.
// The set is closed: code switches over these constants instead of dispatching
// on arbitrary table-name strings.
type Collection string

const (
	CollectionProducts     Collection = "products"
	CollectionCustomers    Collection = "customers"
	CollectionSales        Collection = "sales"
	CollectionDebtPayments Collection = "debt_payments"
)

// Collections lists every cacheable collection.
var Collections = []Collection{
	CollectionProducts,
	CollectionCustomers,
	CollectionSales,
	CollectionDebtPayments,
}

// Valid reports whether c names a known collection.
func (c Collection) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

func (c Collection) String() string {
	return string(c)
}
