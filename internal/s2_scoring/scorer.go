package s2_scoring

import (
	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// Scorer turns one record and its zone statistics into a score card.
// Row5Scorer and Zone10Scorer have their own bands and weights; cards of
// different scales must not be compared.
type Scorer interface {
	Scale() contracts.ScoreScale
	Score(in contracts.ScoreInput) contracts.ScoreCard
}

// priceRatio returns price / zone mean; ok is false when the zone mean is not positive
func priceRatio(in contracts.ScoreInput) (float64, bool) {
	if in.ZoneMeanPricePerArea <= 0 {
		return 0, false
	}
	return in.PricePerArea / in.ZoneMeanPricePerArea, true
}

// ============================================================
// Row5Scorer: 1~5 척도 (opportunity finder)
// ============================================================

// Row5Weights 가중치 (합 = 1.0)
var Row5Weights = struct {
	Price, Liquidity, Size, Yield float64
}{0.3, 0.2, 0.2, 0.3}

// Row5Scorer scores a single sale on the 1~5 scale
type Row5Scorer struct{}

// Scale implements Scorer
func (Row5Scorer) Scale() contracts.ScoreScale { return contracts.ScaleRow5 }

// Score implements Scorer
func (Row5Scorer) Score(in contracts.ScoreInput) contracts.ScoreCard {
	card := contracts.ScoreCard{Scale: contracts.ScaleRow5}

	ratio, ok := priceRatio(in)
	card.PriceRatio = ratio
	card.PriceScore = 1 // 존 평균 없음 → 최저 구간
	if ok {
		card.PriceScore = row5PriceScore(ratio)
	}
	card.LiquidityScore = row5LiquidityScore(in.ZoneTransactions)
	card.SizeScore = row5SizeScore(in.BuiltArea)
	card.YieldScore, card.EstimatedYield = row5YieldScore(in.PricePerArea, in.RentPerArea)

	global := float64(card.PriceScore)*Row5Weights.Price +
		float64(card.LiquidityScore)*Row5Weights.Liquidity +
		float64(card.SizeScore)*Row5Weights.Size +
		float64(card.YieldScore)*Row5Weights.Yield

	card.GlobalScore = numeric.Round(global, 2)
	card.Classification = row5Classification(global)
	return card
}

func row5PriceScore(ratio float64) int {
	switch {
	case ratio <= 0.8:
		return 5
	case ratio <= 0.9:
		return 4
	case ratio <= 1.1:
		return 3
	case ratio <= 1.2:
		return 2
	default:
		return 1
	}
}

func row5LiquidityScore(n int) int {
	switch {
	case n >= 50:
		return 5
	case n >= 20:
		return 4
	case n >= 10:
		return 3
	case n >= 5:
		return 2
	default:
		return 1
	}
}

func row5SizeScore(area float64) int {
	switch {
	case area >= 50 && area <= 100:
		return 5 // 임대 최적 면적
	case area >= 40 && area <= 120:
		return 4
	case area >= 30 && area <= 140:
		return 3
	default:
		return 2
	}
}

// row5YieldScore uses the rent per m² estimate; without one the score is neutral
func row5YieldScore(pricePerArea float64, rentPerArea *float64) (int, *float64) {
	if rentPerArea == nil || *rentPerArea <= 0 || pricePerArea <= 0 {
		return 3, nil
	}

	y := *rentPerArea * 12 / pricePerArea * 100
	switch {
	case y >= 8:
		return 5, &y
	case y >= 6:
		return 4, &y
	case y >= 4:
		return 3, &y
	case y >= 3:
		return 2, &y
	default:
		return 1, &y
	}
}

func row5Classification(global float64) string {
	switch {
	case global >= 4.5:
		return contracts.ClassExcellent
	case global >= 3.5:
		return contracts.ClassVeryGood
	case global >= 2.5:
		return contracts.ClassGood
	case global >= 1.5:
		return contracts.ClassAverage
	default:
		return contracts.ClassWeak
	}
}

// ============================================================
// Zone10Scorer: 0~10 척도 (recommendation pipeline)
// ============================================================

// Zone10Weights 가중치 (합 = 1.0, 수익률 비중이 가장 큼)
var Zone10Weights = struct {
	Price, Liquidity, Size, Yield float64
}{0.25, 0.20, 0.15, 0.40}

// Zone10Scorer scores a record on the 0~10 scale
type Zone10Scorer struct{}

// Scale implements Scorer
func (Zone10Scorer) Scale() contracts.ScoreScale { return contracts.ScaleZone10 }

// Score implements Scorer
func (Zone10Scorer) Score(in contracts.ScoreInput) contracts.ScoreCard {
	card := contracts.ScoreCard{Scale: contracts.ScaleZone10}

	ratio, ok := priceRatio(in)
	card.PriceRatio = ratio
	if ok {
		card.PriceScore = zone10PriceScore(ratio)
	}
	card.LiquidityScore = zone10LiquidityScore(in.ZoneTransactions)
	card.SizeScore = zone10SizeScore(in.BuiltArea)
	if in.GrossYield != nil {
		card.YieldScore = zone10YieldScore(*in.GrossYield)
	}

	card.GlobalScore = float64(card.PriceScore)*Zone10Weights.Price +
		float64(card.LiquidityScore)*Zone10Weights.Liquidity +
		float64(card.SizeScore)*Zone10Weights.Size +
		float64(card.YieldScore)*Zone10Weights.Yield
	card.Classification = zone10Classification(card.GlobalScore)
	return card
}

func zone10PriceScore(ratio float64) int {
	switch {
	case ratio <= 0.8:
		return 10
	case ratio <= 0.9:
		return 8
	case ratio <= 1.0:
		return 6
	case ratio <= 1.1:
		return 4
	case ratio <= 1.2:
		return 2
	default:
		return 0
	}
}

func zone10LiquidityScore(n int) int {
	switch {
	case n >= 100:
		return 10
	case n >= 50:
		return 8
	case n >= 20:
		return 6
	case n >= 10:
		return 4
	case n >= 5:
		return 2
	default:
		return 0
	}
}

func zone10SizeScore(area float64) int {
	switch {
	case area >= 50 && area <= 80:
		return 10
	case area >= 40 && area <= 100:
		return 8
	case area >= 30 && area <= 120:
		return 6
	case area >= 25 && area <= 150:
		return 4
	default:
		return 2
	}
}

func zone10YieldScore(gross float64) int {
	switch {
	case gross >= 8:
		return 10
	case gross >= 6:
		return 8
	case gross >= 4:
		return 6
	case gross >= 3:
		return 4
	case gross >= 2:
		return 2
	default:
		return 0
	}
}

func zone10Classification(global float64) string {
	switch {
	case global >= 8:
		return contracts.ClassExcellent
	case global >= 6:
		return contracts.ClassVeryGood
	case global >= 4:
		return contracts.ClassGood
	case global >= 2:
		return contracts.ClassAverage
	default:
		return contracts.ClassWeak
	}
}
