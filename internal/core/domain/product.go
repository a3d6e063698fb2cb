package domain

// Product is a catalog entry, optionally published on behalf of a vendor.
type Product struct {
	Resource        `bson:",inline"`
	Title           string         `bson:"title" json:"title"`
	Description     string         `bson:"description,omitempty" json:"description,omitempty"`
	RelatedCategory string         `bson:"relatedCategory" json:"relatedCategory"`
	Classification  Classification `bson:"classification" json:"classification"`
	Vendor          string         `bson:"vendor,omitempty" json:"vendor,omitempty"`
	Status          ResourceStatus `bson:"status" json:"status"`
	Documents       []Document     `bson:"documents,omitempty" json:"documents,omitempty"`
}

// Offer is a vendor's priced proposal for a product.
type Offer struct {
	Resource       `bson:",inline"`
	RelatedProduct string         `bson:"relatedProduct" json:"relatedProduct"`
	Value          Value          `bson:"value" json:"value"`
	Status         ResourceStatus `bson:"status" json:"status"`
}
