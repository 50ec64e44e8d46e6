package money

import (
	"fmt"
	"math"
)

// Money хранит денежную сумму в копейках. Сложение и умножение на
// количество — целочисленные, поэтому многократное суммирование позиций
// чека не накапливает ошибку округления, в отличие от float64.
type Money int64

// FromCents создает сумму из количества копеек
func FromCents(cents int64) Money {
	return Money(cents)
}

// FromUnits создает сумму из целых рублей и копеек
func FromUnits(units int64, cents int64) Money {
	return Money(units*100 + cents)
}

// Cents возвращает сумму в копейках
func (m Money) Cents() int64 {
	return int64(m)
}

// Add возвращает сумму двух значений
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub возвращает разность двух значений
func (m Money) Sub(other Money) Money {
	return m - other
}

// MulQty умножает сумму на количество единиц товара
func (m Money) MulQty(qty int) Money {
	return m * Money(qty)
}

// Percent возвращает долю суммы в процентах с одним округлением
// (half up). Процент может быть дробным, округление выполняется один
// раз на итоговой копеечной величине.
func (m Money) Percent(p float64) Money {
	return Money(math.Round(float64(m) * p / 100.0))
}

// IsZero проверяет, что сумма нулевая
func (m Money) IsZero() bool {
	return m == 0
}

// IsNegative проверяет, что сумма отрицательная
func (m Money) IsNegative() bool {
	return m < 0
}

// String форматирует сумму как "1234.50"
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
