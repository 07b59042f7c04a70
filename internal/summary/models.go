package summary

import "time"

// DailySummary — дневная сводка питания и активности.
// JSON field names are camelCase: the iOS/web clients persist and exchange
// summaries in this exact shape, so it must stay stable.
type DailySummary struct {
	UserID      string          `json:"userId"`
	SummaryDate string          `json:"summaryDate"` // YYYY-MM-DD
	Nutrition   NutritionTotals `json:"nutrition"`
	Activity    ActivityTotals  `json:"activity"`
	Balance     Balance         `json:"balance"`
	Weight      *WeightBlock    `json:"weight,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NutritionTotals — суммы по всем записям еды за день.
// Sugar and sodium are tracked per record but intentionally not aggregated.
type NutritionTotals struct {
	TotalCaloriesIn float64 `json:"totalCaloriesIn"`
	TotalProtein    float64 `json:"totalProtein"`
	TotalCarbs      float64 `json:"totalCarbs"`
	TotalFat        float64 `json:"totalFat"`
	TotalFiber      float64 `json:"totalFiber"`
}

// ActivityTotals — данные активности из снимка Garmin (1:1 копия).
type ActivityTotals struct {
	TotalCaloriesOut float64 `json:"totalCaloriesOut"`
	ActiveCalories   float64 `json:"activeCalories"`
	Steps            int     `json:"steps"`
	Distance         float64 `json:"distance"`
	TrainingType     string  `json:"trainingType"` // none, A, S, both
}

// Balance — калорийный баланс и флаги целей.
type Balance struct {
	CalorieDeficit float64 `json:"calorieDeficit"` // out − in, может быть отрицательным
	ProteinGoalMet bool    `json:"proteinGoalMet"`
	StepsGoalMet   bool    `json:"stepsGoalMet"`
}

// WeightBlock — утренний/вечерний вес за день (опционально).
type WeightBlock struct {
	Morning *float64 `json:"morning,omitempty"`
	Evening *float64 `json:"evening,omitempty"`
	Change  *float64 `json:"change,omitempty"` // evening − morning
}

// Goals — целевые параметры пользователя на момент расчёта.
// The aggregator never looks up the profile itself; goals are supplied
// by the caller so the computation stays pure.
type Goals struct {
	ProteinGoalG float64
	StepsGoal    int
}

// RangeResponse — ответ для GET /v1/summary/range
type RangeResponse struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	Summaries []DailySummary `json:"summaries"`
}

// RecomputeRequest — запрос для POST /v1/summary/day/recompute
type RecomputeRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, default: today
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
