package db

// Collection names.
const (
	Farmers   = "farmers"
	Customers = "customers"
	Storages  = "storages"
	Purchases = "purchases"
	Products  = "products"
	Orders    = "orders"
	Inventory = "inventory"
	Settings  = "settings"
	Meta      = "meta"
)

// AllCollections lists every collection the ledger uses.
var AllCollections = []string{Farmers, Customers, Storages, Purchases, Products, Orders, Inventory, Settings, Meta}
