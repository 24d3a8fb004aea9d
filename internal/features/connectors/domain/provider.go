package domain

// ShipmentProvider is the closed set of carrier tags accepted by the dispatcher.
type ShipmentProvider string

const (
	ShipmentProviderFedEx ShipmentProvider = "fedex"
	ShipmentProviderUPS   ShipmentProvider = "ups"
	ShipmentProviderUSPS  ShipmentProvider = "usps"
)

// CatalogProvider is the closed set of catalog tags accepted by the dispatcher.
type CatalogProvider string

const (
	CatalogProviderUPCItemDB     CatalogProvider = "upcitemdb"
	CatalogProviderBarcodeLookup CatalogProvider = "barcodelookup"
)

// Canonical provider names as they appear on events and in error messages.
const (
	ProviderNameFedEx         = "FedEx"
	ProviderNameUPS           = "UPS"
	ProviderNameUSPS          = "USPS"
	ProviderNameUPCItemDB     = "UPCItemDB"
	ProviderNameBarcodeLookup = "BarcodeLookup"
)

// ShipmentProviders lists every supported carrier tag.
func ShipmentProviders() []ShipmentProvider {
	return []ShipmentProvider{ShipmentProviderFedEx, ShipmentProviderUPS, ShipmentProviderUSPS}
}

// CatalogProviders lists every supported catalog tag.
func CatalogProviders() []CatalogProvider {
	return []CatalogProvider{CatalogProviderUPCItemDB, CatalogProviderBarcodeLookup}
}

// Valid reports whether p is one of the supported carrier tags.
func (p ShipmentProvider) Valid() bool {
	switch p {
	case ShipmentProviderFedEx, ShipmentProviderUPS, ShipmentProviderUSPS:
		return true
	}
	return false
}

// Valid reports whether p is one of the supported catalog tags.
func (p CatalogProvider) Valid() bool {
	switch p {
	case CatalogProviderUPCItemDB, CatalogProviderBarcodeLookup:
		return true
	}
	return false
}
