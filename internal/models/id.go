package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-character hex identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsID reports whether s is a well-formed identifier.
func IsID(s string) bool {
	return primitive.IsValidObjectID(s)
}
