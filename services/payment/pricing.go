package payment

import (
	"math"

	"staybook/models"
)

// ToMinorUnits converts a decimal amount to the currency's minor unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Quote fills the amounts of a checkout request: the nightly rate for each
// night plus a service fee of feeRate on the room subtotal.
func Quote(room models.Room, stay models.Interval, feeRate float64) (nightly int64, nights int, fee int64) {
	nights = stay.Nights()
	nightly = ToMinorUnits(room.PricePerNight)
	fee = ToMinorUnits(room.PricePerNight * float64(nights) * feeRate)
	return nightly, nights, fee
}
