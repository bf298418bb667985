package fee

import (
	"math"

	"marketplace/internal/entities"
)

const (
	BaseFee          = 1000
	PerKmRate        = 50
	PerKgRate        = 30
	FragileSurcharge = 300
	CODRate          = 0.02
)

type Calculator struct{}

func New() *Calculator {
	return &Calculator{}
}

// ComputeFee считает стоимость доставки в целых денежных единицах.
// Промежуточные значения не округляются, кроме наценки за наложенный платеж,
// которая округляется отдельно от уже посчитанной суммы.
func (c *Calculator) ComputeFee(distanceKm, weightKg float64, fragile bool, paymentType entities.PaymentType) (int64, error) {
	if !isNonNegativeNumber(distanceKm) {
		return 0, ErrInvalidDistance
	}
	if !isNonNegativeNumber(weightKg) {
		return 0, ErrInvalidWeight
	}
	if !paymentType.Valid() {
		return 0, ErrInvalidPaymentType
	}

	fee := BaseFee + distanceKm*PerKmRate + weightKg*PerKgRate
	if fragile {
		fee += FragileSurcharge
	}

	if paymentType == entities.PaymentCashOnDelivery {
		fee += math.Round(fee * CODRate)
	}

	return int64(math.Round(fee)), nil
}

func isNonNegativeNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
