// internal/models/restaurant.go
package models

// Coordinates is an optional lat/long pair on a restaurant record.
type Coordinates struct {
	Latitude  float64 `json:"latitude" dynamodbav:"latitude"`
	Longitude float64 `json:"longitude" dynamodbav:"longitude"`
}

// Restaurant is the detail record stored in the restaurants table, written
// once at load time and read-only afterwards.
type Restaurant struct {
	ID          string       `json:"id" dynamodbav:"id"`
	Name        string       `json:"name" dynamodbav:"name"`
	Address     string       `json:"address" dynamodbav:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty" dynamodbav:"coordinates"`
	ReviewCount int          `json:"review_count,omitempty" dynamodbav:"review_count"`
	Rating      float64      `json:"rating,omitempty" dynamodbav:"rating"`
	ZipCode     string       `json:"zip_code,omitempty" dynamodbav:"zip_code"`
	Cuisine     string       `json:"cuisine,omitempty" dynamodbav:"cuisine"`
	InsertedAt  string       `json:"insertedAtTimestamp,omitempty" dynamodbav:"insertedAtTimestamp"`
}
