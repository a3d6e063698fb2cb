package domain

// Tag is a standalone label attachable to catalog entries. Code is derived
// from Name when absent and must stay unique among tags.
type Tag struct {
	Resource `bson:",inline"`
	Code     string `bson:"code" json:"code"`
	Name     string `bson:"name" json:"name"`
	NameEn   string `bson:"name_en" json:"name_en"`
	Active   bool   `bson:"active" json:"active"`
}
