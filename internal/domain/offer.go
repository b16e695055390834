package domain

// Provider identifies one offer source (a food-delivery or similar platform)
type Provider string

const (
	ProviderSwiggy    Provider = "swiggy"
	ProviderZomato    Provider = "zomato"
	ProviderEazyDiner Provider = "eazydiner"
	ProviderMagicpin  Provider = "magicpin"
	ProviderDistrict  Provider = "district"
)

// DefaultProviderPriority is the tie-break order used when the same offer
// appears in several provider sheets: the first provider in this list wins.
var DefaultProviderPriority = []Provider{
	ProviderSwiggy,
	ProviderZomato,
	ProviderEazyDiner,
	ProviderMagicpin,
	ProviderDistrict,
}

// OfferRow is one promotional offer parsed from a provider sheet.
// Rows are parsed once per load and never mutated afterwards.
type OfferRow struct {
	Provider    Provider         `json:"provider"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	CouponCode  string           `json:"couponCode,omitempty"`
	Terms       string           `json:"terms,omitempty"`
	Link        string           `json:"link,omitempty"`
	Image       string           `json:"image,omitempty"`
	Applicable  []InstrumentName `json:"applicable"`
}

// MatchedOffer is an offer row that applies to a selected instrument
type MatchedOffer struct {
	Offer       OfferRow `json:"offer"`
	Provider    Provider `json:"provider"`
	VariantText string   `json:"variantText,omitempty"`
	// VariantNote is a user-visible "only on <variant>" hint. Informational
	// only: it never affects whether the offer is included.
	VariantNote string `json:"variantNote,omitempty"`
}

// ProviderOffers groups matched offers under their origin provider
type ProviderOffers struct {
	Provider Provider       `json:"provider"`
	Offers   []MatchedOffer `json:"offers"`
}

// ResultState is the tri-state outcome of an offer search
type ResultState string

const (
	// ResultMatched means the instrument resolved and at least one offer applies
	ResultMatched ResultState = "matched"
	// ResultNoInstrument means the query matched nothing in the catalog
	ResultNoInstrument ResultState = "no_instrument"
	// ResultNoOffers means the instrument resolved but no offer row applies
	ResultNoOffers ResultState = "no_offers"
)
