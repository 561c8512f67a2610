package models

import (
	"time"
)

// Order is the model for the 'orders' collection.
// Orders are only ever created and listed; OrderDate is stamped by the server.
type Order struct {
	ID              string    `json:"_id" bson:"-"`
	BuyerEmail      string    `json:"buyerEmail" bson:"buyerEmail"`
	BuyerName       string    `json:"buyerName,omitempty" bson:"buyerName,omitempty"`
	ProductID       string    `json:"productId" bson:"productId"`
	ProductName     string    `json:"productName,omitempty" bson:"productName,omitempty"`
	Price           float64   `json:"price" bson:"price"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty"`
	MeetingLocation string    `json:"meetingLocation,omitempty" bson:"meetingLocation,omitempty"`
	OrderDate       time.Time `json:"orderDate" bson:"orderDate"`
}
