package history

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry stores one IP geolocation search performed by a user.
// JSON field names match what the frontend consumes; latitude and
// longitude stay nullable because the lookup service omits them for
// some networks.
type Entry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"user_id" json:"userId"`
	IP          string             `bson:"ip" json:"ip"`
	City        string             `bson:"city" json:"city"`
	Region      string             `bson:"region" json:"region"`
	Country     string             `bson:"country" json:"country"`
	CountryCode string             `bson:"country_code" json:"countryCode"`
	Latitude    *float64           `bson:"latitude" json:"latitude"`
	Longitude   *float64           `bson:"longitude" json:"longitude"`
	Org         string             `bson:"org" json:"org"`
	Postal      string             `bson:"postal" json:"postal"`
	Timezone    string             `bson:"timezone" json:"timezone"`
	SearchedAt  time.Time          `bson:"searched_at" json:"searchedAt"`
}
