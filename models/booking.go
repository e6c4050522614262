package models

import (
	"fmt"
	"time"
)

// BookingStatus values. A booking is only ever written as CONFIRMED and may
// afterwards move to CANCELLED.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingPending   BookingStatus = "PENDING"
	BookingCancelled BookingStatus = "CANCELLED"
)

// AnyStaff is the staff name recorded when the customer did not pick anyone.
const AnyStaff = "Any Staff"

// Booking is a confirmed reservation of one slot.
type Booking struct {
	ID             string        `bson:"id" json:"id"`
	ResourceID     string        `bson:"resourceId" json:"resourceId"`
	ResourceName   string        `bson:"resourceName" json:"resourceName"`
	ServiceID      string        `bson:"serviceId" json:"serviceId"`
	ServiceName    string        `bson:"serviceName" json:"serviceName"`
	StaffID        string        `bson:"staffId,omitempty" json:"staffId,omitempty"`
	StaffName      string        `bson:"staffName" json:"staffName"`
	UserID         string        `bson:"userId,omitempty" json:"userId,omitempty"`
	Date           string        `bson:"date" json:"date"`
	Time           string        `bson:"time" json:"time"`
	StartMinute    int           `bson:"startMinute" json:"startMinute"`
	Price          int64         `bson:"price" json:"price"`
	Currency       string        `bson:"currency" json:"currency"`
	PaymentMethod  PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
	Status         BookingStatus `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	TransactionID  string        `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	ContactNumber  string        `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	PointsEarned   int64         `bson:"pointsEarned" json:"pointsEarned"`
	PointsRedeemed int64         `bson:"pointsRedeemed" json:"pointsRedeemed"`
	SlotKey        string        `bson:"slotKey" json:"-"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// SlotKey identifies a bookable position. An empty staffID means the slot
// was booked against the resource as a whole.
func SlotKey(resourceID, date string, startMinute int, staffID string) string {
	if staffID == "" {
		staffID = "*"
	}
	return fmt.Sprintf("%s|%s|%04d|%s", resourceID, date, startMinute, staffID)
}
