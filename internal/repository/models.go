package repository

import "go.mongodb.org/mongo-driver/bson"

// User is the account shape. The hash and salt are meant to be derived from
// the password given at registration; nothing populates them yet.
type User struct {
	ID       string `bson:"_id,omitempty" gorm:"primaryKey;autoIncrement:false"`
	Username string `bson:"username,omitempty"`
	Hash     string `bson:"hash,omitempty"`
	Salt     string `bson:"salt,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// JSONSchema types the user fields without requiring any of them.
func (User) JSONSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"properties": bson.M{
			"username": bson.M{"bsonType": "string"},
			"hash":     bson.M{"bsonType": "string"},
			"salt":     bson.M{"bsonType": "string"},
		},
	}
}
