package domain

// ResourceStatus is the lifecycle state shared by most catalog resources.
// Resources are never hard-deleted; hiding is a status transition.
type ResourceStatus string

const (
	StatusActive ResourceStatus = "active"
	StatusHidden ResourceStatus = "hidden"
)

// Category groups profiles and products under a classification.
type Category struct {
	Resource       `bson:",inline"`
	Title          string         `bson:"title" json:"title"`
	Description    string         `bson:"description,omitempty" json:"description,omitempty"`
	Classification Classification `bson:"classification" json:"classification"`
	Status         ResourceStatus `bson:"status" json:"status"`
	Documents      []Document     `bson:"documents,omitempty" json:"documents,omitempty"`
}

// ProfileStatus adds the "general" state available only to profiles.
type ProfileStatus string

const (
	ProfileActive  ProfileStatus = "active"
	ProfileHidden  ProfileStatus = "hidden"
	ProfileGeneral ProfileStatus = "general"
)

// Profile is a purchasing template bound to a category.
type Profile struct {
	Resource        `bson:",inline"`
	Title           string        `bson:"title" json:"title"`
	Description     string        `bson:"description,omitempty" json:"description,omitempty"`
	RelatedCategory string        `bson:"relatedCategory" json:"relatedCategory"`
	Status          ProfileStatus `bson:"status" json:"status"`
	Documents       []Document    `bson:"documents,omitempty" json:"documents,omitempty"`
}
