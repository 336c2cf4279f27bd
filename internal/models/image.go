package models

// Image is a binary asset embedded in its owning document. It has no lifecycle
// of its own: it is written and deleted with the owner.
type Image struct {
	Data        []byte `bson:"data,omitempty" json:"-"`
	ContentType string `bson:"contentType,omitempty" json:"contentType,omitempty"`
}

func (i Image) Empty() bool {
	return len(i.Data) == 0
}
