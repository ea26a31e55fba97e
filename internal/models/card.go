package models

import "time"

// CustomCard is a standalone named image asset stored as a base64 data URI.
type CustomCard struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ImageData string    `db:"image_data" json:"image_data"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
