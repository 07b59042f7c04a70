package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/AlimanIrawan/zhiji-sub000/internal/summary"
	"github.com/jung-kurt/gofpdf"
)

// SummarySource рассчитывает дневные сводки за период [from, to].
// summary.Service satisfies this.
type SummarySource interface {
	GetRangeSummaries(ctx context.Context, userID, from, to string) ([]summary.DailySummary, error)
}

// Generator строит PDF/CSV отчёты поверх дневных сводок.
// Days without food records or a device snapshot come back as zero
// rows from the aggregator and are rendered as-is.
type Generator struct {
	summaries SummarySource
	fontPath  string // TTF с кириллицей; пусто — Arial и английские подписи
}

func NewGenerator(summaries SummarySource, fontPath string) *Generator {
	return &Generator{summaries: summaries, fontPath: fontPath}
}

// GenerateReport возвращает байты отчёта в запрошенном формате.
func (g *Generator) GenerateReport(ctx context.Context, userID string, req CreateReportRequest) ([]byte, error) {
	days, err := g.summaries.GetRangeSummaries(ctx, userID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to compute summaries: %w", err)
	}

	switch req.Format {
	case FormatCSV:
		return g.generateCSV(days)
	case FormatPDF:
		return g.generatePDF(req, days)
	default:
		return nil, ErrInvalidFormat
	}
}

// generateCSV — одна строка на день, заголовки всегда английские.
func (g *Generator) generateCSV(days []summary.DailySummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"date", "calories_in", "protein_g", "carbs_g", "fat_g", "fiber_g",
		"calories_out", "active_calories", "steps", "distance_km", "training_type",
		"calorie_deficit", "weight_morning_kg", "weight_evening_kg",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, d := range days {
		row := []string{
			d.SummaryDate,
			formatKcal(d.Nutrition.TotalCaloriesIn),
			formatGrams(d.Nutrition.TotalProtein),
			formatGrams(d.Nutrition.TotalCarbs),
			formatGrams(d.Nutrition.TotalFat),
			formatGrams(d.Nutrition.TotalFiber),
			formatKcal(d.Activity.TotalCaloriesOut),
			formatKcal(d.Activity.ActiveCalories),
			strconv.Itoa(d.Activity.Steps),
			fmt.Sprintf("%.2f", d.Activity.Distance),
			d.Activity.TrainingType,
			formatKcal(d.Balance.CalorieDeficit),
			formatOptionalKg(morningWeight(d)),
			formatOptionalKg(eveningWeight(d)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// pdfLabels — подписи в PDF. Core-шрифты gofpdf не умеют кириллицу,
// поэтому без внешнего TTF отчёт собирается с английскими подписями.
type pdfLabels struct {
	title        string
	period       string
	totals       string
	avgIn        string
	avgOut       string
	avgDeficit   string
	avgSteps     string
	avgProtein   string
	trainingDays string
	weightChange string
	byDay        string
	colDate      string
	colIn        string
	colOut       string
	colDeficit   string
	colProtein   string
	colSteps     string
	colTraining  string
	noData       string
}

var labelsEN = pdfLabels{
	title:        "Nutrition & Activity Report",
	period:       "Period: %s - %s",
	totals:       "Summary",
	avgIn:        "Avg calories in: %s kcal",
	avgOut:       "Avg calories out: %s kcal",
	avgDeficit:   "Avg daily deficit: %s kcal",
	avgSteps:     "Avg steps: %s",
	avgProtein:   "Avg protein: %s g",
	trainingDays: "Training days: %d of %d",
	weightChange: "Weight change (morning): %s",
	byDay:        "Days",
	colDate:      "Date",
	colIn:        "In",
	colOut:       "Out",
	colDeficit:   "Deficit",
	colProtein:   "Protein",
	colSteps:     "Steps",
	colTraining:  "Training",
	noData:       "no data",
}

var labelsRU = pdfLabels{
	title:        "Отчёт о питании и активности",
	period:       "Период: %s — %s",
	totals:       "Сводка",
	avgIn:        "Средний приход калорий: %s ккал",
	avgOut:       "Средний расход калорий: %s ккал",
	avgDeficit:   "Средний дефицит за день: %s ккал",
	avgSteps:     "Среднее количество шагов: %s",
	avgProtein:   "Средний белок: %s г",
	trainingDays: "Дней с тренировками: %d из %d",
	weightChange: "Изменение веса (утро): %s",
	byDay:        "По дням",
	colDate:      "Дата",
	colIn:        "Приход",
	colOut:       "Расход",
	colDeficit:   "Дефицит",
	colProtein:   "Белок",
	colSteps:     "Шаги",
	colTraining:  "Трен.",
	noData:       "нет данных",
}

func (g *Generator) generatePDF(req CreateReportRequest, days []summary.DailySummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	fontName := "Arial"
	labels := labelsEN
	if g.fontPath != "" {
		if _, err := os.Stat(g.fontPath); err == nil {
			pdf.AddUTF8Font("CustomSans", "", g.fontPath)
			fontName = "CustomSans"
			labels = labelsRU
		}
	}

	pdf.AddPage()

	pdf.SetFont(fontName, "", 16)
	pdf.Cell(0, 10, labels.title)
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 12)
	pdf.Cell(0, 8, fmt.Sprintf(labels.period, req.From, req.To))
	pdf.Ln(12)

	agg := aggregate(days)

	pdf.SetFont(fontName, "", 14)
	pdf.Cell(0, 8, labels.totals)
	pdf.Ln(8)

	pdf.SetFont(fontName, "", 10)
	pdf.Cell(0, 6, fmt.Sprintf(labels.avgIn, formatKcal(agg.avgCaloriesIn)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf(labels.avgOut, formatKcal(agg.avgCaloriesOut)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf(labels.avgDeficit, formatKcal(agg.avgDeficit)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf(labels.avgSteps, strconv.Itoa(agg.avgSteps)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf(labels.avgProtein, formatGrams(agg.avgProtein)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf(labels.trainingDays, agg.trainingDays, len(days)))
	pdf.Ln(5)
	weightDelta := labels.noData
	if agg.weightDelta != nil {
		weightDelta = fmt.Sprintf("%+.1f kg", *agg.weightDelta)
	}
	pdf.Cell(0, 6, fmt.Sprintf(labels.weightChange, weightDelta))
	pdf.Ln(12)

	pdf.SetFont(fontName, "", 14)
	pdf.Cell(0, 8, labels.byDay)
	pdf.Ln(8)

	drawDaysTable(pdf, fontName, labels, days)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func drawDaysTable(pdf *gofpdf.Fpdf, fontName string, labels pdfLabels, days []summary.DailySummary) {
	pdf.SetFont(fontName, "", 8)

	pdf.CellFormat(25, 6, labels.colDate, "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, labels.colIn, "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, labels.colOut, "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, labels.colDeficit, "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, labels.colProtein, "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, labels.colSteps, "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, labels.colTraining, "1", 1, "C", false, 0, "")

	for _, d := range days {
		pdf.CellFormat(25, 6, d.SummaryDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, formatKcal(d.Nutrition.TotalCaloriesIn), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, formatKcal(d.Activity.TotalCaloriesOut), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, formatKcal(d.Balance.CalorieDeficit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, formatGrams(d.Nutrition.TotalProtein), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, strconv.Itoa(d.Activity.Steps), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, d.Activity.TrainingType, "1", 1, "C", false, 0, "")
	}
}

type rangeAggregate struct {
	avgCaloriesIn  float64
	avgCaloriesOut float64
	avgDeficit     float64
	avgProtein     float64
	avgSteps       int
	trainingDays   int
	weightDelta    *float64 // последний утренний вес − первый, nil без измерений
}

func aggregate(days []summary.DailySummary) rangeAggregate {
	var agg rangeAggregate
	if len(days) == 0 {
		return agg
	}

	var totalSteps int
	var firstWeight, lastWeight *float64
	for _, d := range days {
		agg.avgCaloriesIn += d.Nutrition.TotalCaloriesIn
		agg.avgCaloriesOut += d.Activity.TotalCaloriesOut
		agg.avgDeficit += d.Balance.CalorieDeficit
		agg.avgProtein += d.Nutrition.TotalProtein
		totalSteps += d.Activity.Steps
		if d.Activity.TrainingType != "" && d.Activity.TrainingType != "none" {
			agg.trainingDays++
		}
		if w := morningWeight(d); w != nil {
			if firstWeight == nil {
				firstWeight = w
			}
			lastWeight = w
		}
	}

	n := float64(len(days))
	agg.avgCaloriesIn /= n
	agg.avgCaloriesOut /= n
	agg.avgDeficit /= n
	agg.avgProtein /= n
	agg.avgSteps = totalSteps / len(days)

	if firstWeight != nil && lastWeight != nil {
		delta := *lastWeight - *firstWeight
		agg.weightDelta = &delta
	}

	return agg
}

func morningWeight(d summary.DailySummary) *float64 {
	if d.Weight == nil {
		return nil
	}
	return d.Weight.Morning
}

func eveningWeight(d summary.DailySummary) *float64 {
	if d.Weight == nil {
		return nil
	}
	return d.Weight.Evening
}

func formatKcal(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func formatGrams(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func formatOptionalKg(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *v)
}
