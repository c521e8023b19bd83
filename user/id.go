package user

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh account id: a 24-character hex ObjectID, used by
// every store so ids look the same whichever backend holds them.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether s is a well-formed account id.
func ValidID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
